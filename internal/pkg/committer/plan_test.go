package committer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

var factory = bind.NewFactory(bind.WithSeparator(bind.ParamSeparator))

type priceChange struct {
	Numerator   int64
	Denominator int64
}

func TestPlan_AddIgnoresNil(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())

	plan.Add(nil)
	plan.Expect(nil, 1)
	assert.True(t, plan.IsEmpty())

	plan.Add(bind.SQL("DELETE FROM products WHERE product_id = @id").Param("id", "p-1"))
	plan.Expect(bind.SQL("UPDATE products SET name = 'x' WHERE TRUE"), 1)

	assert.Equal(t, 2, plan.Count())
	assert.Equal(t, AnyRows, plan.Steps()[0].Rows)
	assert.Equal(t, int64(1), plan.Steps()[1].Rows)
}

func TestCheckCounts(t *testing.T) {
	steps := []Step{{Rows: AnyRows}, {Rows: 1}}

	assert.NoError(t, checkCounts(steps, []int64{7, 1}))
	assert.ErrorIs(t, checkCounts(steps, []int64{7, 0}), ErrConflict)
	assert.Error(t, checkCounts(steps, []int64{1}))
}

func TestResolveSpanner(t *testing.T) {
	plan := NewPlan()
	plan.Expect(bind.SQL("UPDATE products SET base_price_numerator = @new_numerator WHERE product_id = @product_id").
		With(bind.Product(priceChange{Numerator: 5, Denominator: 1}).WithPrefix("new")).
		Param("product_id", "p-1"), 1)

	stmts, err := ResolveSpanner(plan, factory)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, map[string]interface{}{
		"new_numerator": int64(5),
		"product_id":    "p-1",
	}, stmts[0].Params)
}

func TestResolveSpanner_MissingParam(t *testing.T) {
	plan := NewPlan()
	plan.Add(bind.SQL("DELETE FROM products WHERE product_id = @product_id"))

	_, err := ResolveSpanner(plan, factory)
	assert.ErrorIs(t, err, bind.ErrMissingParam)
	assert.Contains(t, err.Error(), "statement 0")
}

func TestSpannerCommitter_EmptyPlan(t *testing.T) {
	c := NewSpannerCommitter(nil, factory, zap.NewNop())
	assert.NoError(t, c.Apply(context.Background(), NewPlan()))
}

////////////////////////////////////////////////////////////////////////////////

type fakeTx struct {
	pgx.Tx

	rows       []int64
	execErr    error
	sqls       []string
	args       []pgx.NamedArgs
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if tx.execErr != nil {
		return pgconn.CommandTag{}, tx.execErr
	}
	tx.sqls = append(tx.sqls, sql)
	tx.args = append(tx.args, arguments[0].(pgx.NamedArgs))
	n := tx.rows[len(tx.sqls)-1]
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n)), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return db.tx, nil
}

func updatePlan() *Plan {
	plan := NewPlan()
	plan.Expect(bind.SQL("UPDATE products SET base_price_numerator = @new_numerator WHERE product_id = @product_id AND version = @version").
		With(bind.Product(priceChange{Numerator: 5, Denominator: 1}).WithPrefix("new")).
		Param("product_id", "p-1").
		Param("version", int64(2)), 1)
	plan.Add(bind.SQL("DELETE FROM products WHERE category = @category").Param("category", "old"))
	return plan
}

func TestPostgresCommitter_Apply(t *testing.T) {
	tx := &fakeTx{rows: []int64{1, 3}}
	c := NewPostgresCommitter(&fakeDB{tx: tx}, factory, zap.NewNop())

	require.NoError(t, c.Apply(context.Background(), updatePlan()))

	assert.True(t, tx.committed)
	require.Len(t, tx.args, 2)
	assert.Equal(t, pgx.NamedArgs{
		"new_numerator": int64(5),
		"product_id":    "p-1",
		"version":       int64(2),
	}, tx.args[0])
	assert.Equal(t, pgx.NamedArgs{"category": "old"}, tx.args[1])
}

func TestPostgresCommitter_Conflict(t *testing.T) {
	tx := &fakeTx{rows: []int64{0, 0}}
	c := NewPostgresCommitter(&fakeDB{tx: tx}, factory, zap.NewNop())

	err := c.Apply(context.Background(), updatePlan())
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestPostgresCommitter_ExecError(t *testing.T) {
	boom := errors.New("boom")
	tx := &fakeTx{execErr: boom}
	c := NewPostgresCommitter(&fakeDB{tx: tx}, factory, zap.NewNop())

	err := c.Apply(context.Background(), updatePlan())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.True(t, tx.rolledBack)
}

func TestPostgresCommitter_ResolveErrorSkipsTransaction(t *testing.T) {
	tx := &fakeTx{}
	c := NewPostgresCommitter(&fakeDB{tx: tx}, factory, zap.NewNop())

	plan := NewPlan()
	plan.Add(bind.SQL("DELETE FROM products WHERE product_id = @product_id"))

	err := c.Apply(context.Background(), plan)
	assert.ErrorIs(t, err, bind.ErrMissingParam)
	assert.False(t, tx.committed)
	assert.False(t, tx.rolledBack)
}
