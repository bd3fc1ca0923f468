package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"gncitizen/pkg/circuitbreaker"
	"gncitizen/pkg/config"
	"gncitizen/pkg/metrics"
	"gncitizen/pkg/otel"
)

// DB is a database/sql handle that remembers its dialect. On Postgres it is
// backed by a pgxpool.Pool.
type DB struct {
	*sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
	breaker *circuitbreaker.CircuitBreaker
}

// Open connects to the configured backend. A positive
// cfg.BreakerFailures guards every observed statement with a circuit breaker.
func Open(cfg config.DBConfig, logger *zap.Logger) (*DB, error) {
	var (
		d   *DB
		err error
	)
	switch cfg.Driver {
	case "", string(Postgres):
		d, err = NewConnection(cfg, logger)
	case string(SQLite):
		d, err = OpenSQLite(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.BreakerFailures > 0 {
		d.UseBreaker(cfg.BreakerFailures, time.Duration(cfg.BreakerCooldownSec)*time.Second, logger)
	}
	return d, nil
}

// UseBreaker makes Observe refuse statements with circuitbreaker.ErrOpen
// after failures consecutive outages, for cooldown.
func (d *DB) UseBreaker(failures int, cooldown time.Duration, logger *zap.Logger) {
	metrics.SetDBBreakerState(int(circuitbreaker.StateClosed))
	d.breaker = circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: failures,
		Timeout:          cooldown,
		IsFailure:        isOutage,
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("Database circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetDBBreakerState(int(to))
		},
	})
}

// NewConnection opens a PostgreSQL pool and exposes it through database/sql.
func NewConnection(cfg config.DBConfig, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	logger.Info("Initializing PostgreSQL connection pool",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name),
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse db config", zap.Error(err))
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnIdleTime = time.Minute
	poolCfg.ConnConfig.Tracer = NewSlowQueryTracer(logger, time.Duration(cfg.SlowQueryMS)*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("PostgreSQL connection failed", zap.Error(err))
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer pingCancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Error("PostgreSQL ping failed", zap.Error(err))
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully")
	return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: Postgres, pool: pool}, nil
}

// OpenSQLite opens a SQLite database file. ":memory:" yields a private
// in-memory database held on a single connection.
func OpenSQLite(path string, logger *zap.Logger) (*DB, error) {
	if path == "" {
		path = "gncitizen.db"
	}

	logger.Info("Opening SQLite database", zap.String("path", path))

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	if _, err := sqlDB.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &DB{DB: sqlDB, Dialect: SQLite}, nil
}

// BreakerState reports the circuit breaker state, or "disabled".
func (d *DB) BreakerState() string {
	if d.breaker == nil {
		return "disabled"
	}
	return d.breaker.State().String()
}

// Close releases the sql handle and, on Postgres, the underlying pool.
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// Observe runs fn inside a client span and records its duration.
func (d *DB) Observe(ctx context.Context, operation, table, query string, fn func(ctx context.Context) error) error {
	ctx, span := otel.DBSpan(ctx, string(d.Dialect), operation, table, query)
	defer span.End()

	run := func() error {
		start := time.Now()
		err := fn(ctx)
		metrics.RecordDBQueryDuration(operation, table, time.Since(start))
		return err
	}

	var err error
	if d.breaker != nil {
		err = d.breaker.Execute(run)
	} else {
		err = run()
	}
	otel.WrapDBError(span, err)
	return err
}
