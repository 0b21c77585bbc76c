package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"materihub/internal/domain/repositories"
)

// TransactionManager runs repository calls in one pgx transaction
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(config *RepositoryConfig) repositories.TransactionManager {
	return &TransactionManager{pool: config.Pool, logger: config.Logger}
}

// ExecTx runs fn in a read-committed transaction, committing when fn returns nil.
// Repositories called with the context passed to fn use the transaction through
// GetExecutor. A call made while a transaction is already open joins it.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.InTx(ctx) {
		return fn(ctx)
	}

	err := pgx.BeginTxFunc(ctx, tm.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(repositories.WithTx(ctx, tx))
	})
	if err != nil {
		tm.logger.Debug("transaction rolled back", "error", err)
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}
