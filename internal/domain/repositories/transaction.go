package repositories

import "context"

// TxFn is the unit of work passed to ExecTx. It must use the context it is
// given so repository calls join the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager groups repository calls atomically
type TransactionManager interface {
	// ExecTx commits when fn returns nil and rolls back otherwise
	ExecTx(ctx context.Context, fn TxFn) error
}
