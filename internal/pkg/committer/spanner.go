package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

// SpannerCommitter applies plans in a Spanner read-write transaction.
type SpannerCommitter struct {
	client  *spanner.Client
	factory *bind.Factory
	logger  *zap.Logger
}

// NewSpannerCommitter creates a SpannerCommitter.
func NewSpannerCommitter(client *spanner.Client, f *bind.Factory, logger *zap.Logger) *SpannerCommitter {
	return &SpannerCommitter{client: client, factory: f, logger: logger}
}

// Apply resolves every statement and runs them with a single BatchUpdate.
// Resolution errors abort before a transaction is started.
func (c *SpannerCommitter) Apply(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}

	stmts, err := ResolveSpanner(plan, c.factory)
	if err != nil {
		return err
	}

	_, err = c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		counts, err := txn.BatchUpdate(ctx, stmts)
		if err != nil {
			return err
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

// ResolveSpanner resolves every statement of the plan for Spanner.
func ResolveSpanner(plan *Plan, f *bind.Factory) ([]spanner.Statement, error) {
	stmts := make([]spanner.Statement, 0, plan.Count())
	for i, step := range plan.Steps() {
		stmt, err := step.Stmt.Spanner(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve statement %d: %w", i, err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
