package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gncitizen/pkg/circuitbreaker"
	"gncitizen/pkg/config"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "oracle"}, zap.NewNop())
	assert.EqualError(t, err, `unsupported db driver "oracle"`)
}

func TestSchema(t *testing.T) {
	for _, d := range []Dialect{Postgres, SQLite} {
		ddl, err := Schema(d)
		require.NoError(t, err, d)
		assert.Contains(t, ddl, "t_programs", d)
	}

	_, err := Schema(Dialect("mysql"))
	assert.Error(t, err)
}

func TestApplySchema_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gncitizen.db")
	conn, err := Open(config.DBConfig{Driver: "sqlite", Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, conn.ApplySchema(ctx))
	require.NoError(t, conn.ApplySchema(ctx))

	var n int
	require.NoError(t, conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name LIKE 't\_%' ESCAPE '\'`).Scan(&n))
	assert.Equal(t, 10, n)
	assert.Equal(t, SQLite, conn.Dialect)
}

func TestObserve(t *testing.T) {
	conn, err := OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	defer conn.Close()

	var got int
	err = conn.Observe(context.Background(), "select", "dual", "SELECT 1", func(ctx context.Context) error {
		return conn.QueryRowContext(ctx, "SELECT 1").Scan(&got)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestObserve_BreakerOpensOnOutage(t *testing.T) {
	conn, err := OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "disabled", conn.BreakerState())
	conn.UseBreaker(2, time.Minute, zap.NewNop())
	assert.Equal(t, "closed", conn.BreakerState())

	query := func(ctx context.Context) error {
		var n int
		return conn.QueryRowContext(ctx, "SELECT 1").Scan(&n)
	}
	ctx := context.Background()

	// Statement errors are not outages.
	for i := 0; i < 3; i++ {
		err := conn.Observe(ctx, "select", "missing", "SELECT * FROM missing", func(ctx context.Context) error {
			_, err := conn.ExecContext(ctx, "SELECT * FROM missing")
			return err
		})
		require.Error(t, err)
		assert.False(t, errors.Is(err, circuitbreaker.ErrOpen))
	}
	require.NoError(t, conn.Observe(ctx, "select", "dual", "SELECT 1", query))

	require.NoError(t, conn.Close())
	for i := 0; i < 2; i++ {
		err := conn.Observe(ctx, "select", "dual", "SELECT 1", query)
		require.Error(t, err)
		assert.False(t, errors.Is(err, circuitbreaker.ErrOpen))
	}

	err = conn.Observe(ctx, "select", "dual", "SELECT 1", query)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, "open", conn.BreakerState())
}
