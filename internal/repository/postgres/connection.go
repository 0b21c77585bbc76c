package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"materihub/internal/domain/repositories"
)

// RepositoryConfig is shared by every postgres repository
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames are the environment-prefixed table names
type TableNames struct {
	Prefix string
	Users  string
	Materi string
}

func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix: prefix,
		Users:  prefix + "users",
		Materi: prefix + "materi",
	}
}

// pgBouncerPort is the conventional port of a transaction-mode pooler,
// which rejects server-side prepared statements.
const pgBouncerPort = 6543

// CreateConnectionPool opens a pool and verifies it with a ping.
// Table names are interpolated before SQL reaches the server, so statement
// caching stays safe across table prefixes.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	tunePool(config)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func tunePool(config *pgxpool.Config) {
	config.MaxConns = 20
	config.MinConns = 2
	config.MaxConnIdleTime = 5 * time.Minute

	cc := config.ConnConfig
	if _, set := cc.RuntimeParams["application_name"]; !set {
		cc.RuntimeParams["application_name"] = "materihub"
	}
	// An explicit default_query_exec_mode in the URL wins
	if cc.Port == pgBouncerPort && cc.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		cc.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
	}
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.TxFrom(ctx); tx != nil {
		return tx
	}
	return pool
}

// poolCollector exports pgxpool statistics
type poolCollector struct {
	pool     *pgxpool.Pool
	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
	waits    *prometheus.Desc
}

// NewPoolCollector returns a prometheus collector reading stats from pool on each scrape
func NewPoolCollector(pool *pgxpool.Pool) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("materihub_db_pool_"+name, help, nil, nil)
	}
	return &poolCollector{
		pool:     pool,
		acquired: desc("acquired_conns", "Connections currently checked out."),
		idle:     desc("idle_conns", "Idle connections in the pool."),
		total:    desc("total_conns", "All connections owned by the pool."),
		waits:    desc("empty_acquire_total", "Acquires that had to wait for a connection."),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.waits
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
}
