package committer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

// TxBeginner is the part of pgxpool.Pool and pgx.Conn the committer needs.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresCommitter applies plans in a pgx transaction.
type PostgresCommitter struct {
	db      TxBeginner
	factory *bind.Factory
	logger  *zap.Logger
}

// NewPostgresCommitter creates a PostgresCommitter.
func NewPostgresCommitter(db TxBeginner, f *bind.Factory, logger *zap.Logger) *PostgresCommitter {
	return &PostgresCommitter{db: db, factory: f, logger: logger}
}

type namedStmt struct {
	sql  string
	args pgx.NamedArgs
}

// Apply resolves every statement and executes them in order in one transaction.
func (c *PostgresCommitter) Apply(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}

	stmts := make([]namedStmt, 0, plan.Count())
	for i, step := range plan.Steps() {
		sql, args, err := step.Stmt.NamedArgs(c.factory)
		if err != nil {
			return fmt.Errorf("failed to resolve statement %d: %w", i, err)
		}
		stmts = append(stmts, namedStmt{sql: sql, args: args})
	}

	err := pgx.BeginFunc(ctx, c.db, func(tx pgx.Tx) error {
		counts := make([]int64, 0, len(stmts))
		for i, s := range stmts {
			tag, err := tx.Exec(ctx, s.sql, s.args)
			if err != nil {
				return fmt.Errorf("statement %d: %w", i, err)
			}
			counts = append(counts, tag.RowsAffected())
		}
		return checkCounts(plan.Steps(), counts)
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.logger.Warn("commit plan rejected", zap.Error(err))
			return err
		}
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}

	c.logger.Debug("commit plan applied", zap.Int("statements", len(stmts)))
	return nil
}
