package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/migrations"
)

// SetupPostgres opens a pool on POSTGRES_URL, applies the schema and
// truncates the products table. The test is skipped when POSTGRES_URL is
// unset.
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err, "failed to create pool")

	require.NoError(t, migrations.ApplyPostgres(ctx, pool, zap.NewNop()), "failed to apply schema")

	CleanPostgres(t, pool)
	t.Cleanup(func() {
		CleanPostgres(t, pool)
		pool.Close()
	})
	return pool
}

// CleanPostgres truncates the products table.
func CleanPostgres(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), "TRUNCATE products")
	require.NoError(t, err, "failed to clean database")
}
