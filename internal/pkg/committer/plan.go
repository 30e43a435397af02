// Package committer applies a plan of statements atomically.
//
// Repositories build driver-neutral bind.Statements; usecases collect them
// into a Plan; a Committer resolves every statement with its bind.Factory and
// executes the whole plan in a single transaction, so either every statement
// takes effect or none does.
//
// A statement can carry an expected affected-row count. Version-guarded
// updates use this for optimistic locking:
//
//	plan := committer.NewPlan()
//	plan.Expect(model.UpdatePriceStmt(id, price, product.Version()-1, now), 1)
//	if err := comm.Apply(ctx, plan); errors.Is(err, committer.ErrConflict) {
//	    // someone else updated the product first
//	}
//
// SpannerCommitter runs plans in a read-write transaction with BatchUpdate;
// PostgresCommitter runs them in a pgx transaction with named arguments.
package committer

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

// ErrConflict is returned when a statement affects a different number of rows
// than the plan expects, which signals a concurrent modification.
var ErrConflict = errors.New("optimistic lock conflict")

// AnyRows disables the affected-row check for a step.
const AnyRows int64 = -1

// Step is a statement with its expected affected-row count.
type Step struct {
	Stmt *bind.Statement
	Rows int64
}

// Plan collects statements to run atomically.
type Plan struct {
	steps []Step
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{steps: make([]Step, 0)}
}

// Add adds a statement without a row-count check.
// Nil statements are silently ignored for convenience.
func (p *Plan) Add(stmt *bind.Statement) {
	p.Expect(stmt, AnyRows)
}

// Expect adds a statement that must affect exactly rows rows.
func (p *Plan) Expect(stmt *bind.Statement, rows int64) {
	if stmt != nil {
		p.steps = append(p.steps, Step{Stmt: stmt, Rows: rows})
	}
}

// Steps returns all collected steps.
func (p *Plan) Steps() []Step {
	return p.steps
}

// IsEmpty returns true if the plan has no statements.
func (p *Plan) IsEmpty() bool {
	return len(p.steps) == 0
}

// Count returns the number of statements in the plan.
func (p *Plan) Count() int {
	return len(p.steps)
}

// Committer applies plans.
type Committer interface {
	Apply(ctx context.Context, plan *Plan) error
}

// checkCounts compares affected rows with the plan's expectations.
func checkCounts(steps []Step, counts []int64) error {
	if len(counts) != len(steps) {
		return fmt.Errorf("expected %d row counts, got %d", len(steps), len(counts))
	}
	for i, step := range steps {
		if step.Rows == AnyRows {
			continue
		}
		if counts[i] != step.Rows {
			return fmt.Errorf("%w: statement %d affected %d rows, expected %d", ErrConflict, i, counts[i], step.Rows)
		}
	}
	return nil
}
