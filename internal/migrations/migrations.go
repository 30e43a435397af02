// Package migrations holds the products schema for each supported database
// and applies it.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed spanner/*.sql postgres/*.sql
var files embed.FS

// Dialect names a schema directory.
type Dialect string

const (
	Spanner  Dialect = "spanner"
	Postgres Dialect = "postgres"
)

// Migration is one schema file split into statements.
type Migration struct {
	Name       string
	Statements []string
}

// Load returns the migrations for dialect in file name order.
func Load(dialect Dialect) ([]Migration, error) {
	names, err := fs.Glob(files, string(dialect)+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		out = append(out, Migration{Name: name, Statements: SplitStatements(string(content))})
	}
	return out, nil
}

// SplitStatements drops comment lines and splits on semicolons. A goose
// "-- +goose Down" annotation ends the up statements.
func SplitStatements(content string) []string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == downAnnotation {
			break
		}
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

// ApplySpanner applies the Spanner schema to the database at dbPath.
func ApplySpanner(ctx context.Context, dbPath string, logger *zap.Logger) error {
	migrations, err := Load(Spanner)
	if err != nil {
		return err
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	for _, m := range migrations {
		logger.Info("applying migration", zap.String("name", m.Name), zap.Int("statements", len(m.Statements)))

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   dbPath,
			Statements: m.Statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", m.Name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", m.Name, err)
		}
	}
	return nil
}

const downAnnotation = "-- +goose Down"

// ApplyPostgres applies the PostgreSQL schema with goose. goose runs on
// database/sql, so the pool is wrapped with the pgx stdlib adapter.
func ApplyPostgres(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	sub, err := fs.Sub(files, string(Postgres))
	if err != nil {
		return fmt.Errorf("failed to open postgres migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("applied migration",
			zap.String("name", r.Source.Path),
			zap.Int64("version", r.Source.Version),
			zap.Duration("duration", r.Duration),
		)
	}
	if len(results) == 0 {
		logger.Info("schema up to date")
	}
	return nil
}
