// Package testutil sets up databases for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/migrations"
)

const defaultSpannerDB = "projects/test-project/instances/test-instance/databases/product-catalog-test"

// SetupSpanner connects to the Spanner emulator, applies the schema and
// empties the products table. The test is skipped when no emulator is
// configured.
func SetupSpanner(t *testing.T) *spanner.Client {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	db := SpannerDB()

	require.NoError(t, migrations.ApplySpanner(ctx, db, zap.NewNop()), "failed to apply schema")

	client, err := spanner.NewClient(ctx, db)
	require.NoError(t, err, "failed to create Spanner client")

	CleanSpanner(t, client)
	t.Cleanup(func() {
		CleanSpanner(t, client)
		client.Close()
	})
	return client
}

// SpannerDB returns the test database path.
func SpannerDB() string {
	if db := os.Getenv("SPANNER_DATABASE"); db != "" {
		return db
	}
	return defaultSpannerDB
}

// CleanSpanner deletes every product.
func CleanSpanner(t *testing.T, client *spanner.Client) {
	t.Helper()

	_, err := client.Apply(context.Background(), []*spanner.Mutation{
		spanner.Delete("products", spanner.AllKeys()),
	})
	require.NoError(t, err, "failed to clean database")
}

// SpannerRowCount returns the number of rows in table.
func SpannerRowCount(t *testing.T, client *spanner.Client, table string) int64 {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	})
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	return count
}
