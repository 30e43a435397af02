package create_product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/app/product/producttest"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
)

func TestInteractor_Execute(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	comm := &producttest.Committer{}
	interactor := NewInteractor(producttest.NewRepo(clk), comm, clk, zap.NewNop())
	interactor.newID = func() string { return "p-fixed" }

	price, _ := domain.ParseMoney("9.99")
	id, err := interactor.Execute(context.Background(), &Request{
		Name:     "Widget",
		Category: "tools",
		Price:    price,
	})
	require.NoError(t, err)
	assert.Equal(t, "p-fixed", id)

	stmts := comm.Last()
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "INSERT INTO products")
	assert.Equal(t, "Widget", stmts[0].Params["name"])
	assert.Equal(t, int64(999), stmts[0].Params["base_price_numerator"])
	assert.Equal(t, int64(100), stmts[0].Params["base_price_denominator"])
	assert.Equal(t, int64(1), stmts[0].Params["version"])
	assert.Equal(t, now, stmts[0].Params["created_at"])
}

func TestInteractor_ExecuteValidation(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	comm := &producttest.Committer{}
	interactor := NewInteractor(producttest.NewRepo(clk), comm, clk, zap.NewNop())

	_, err := interactor.Execute(context.Background(), &Request{Name: "", Category: "tools"})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
	assert.Empty(t, comm.Applied)
}

func TestInteractor_ExecuteOverflow(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	interactor := NewInteractor(producttest.NewRepo(clk), &producttest.Committer{}, clk, zap.NewNop())

	huge, _ := domain.ParseMoney("92233720368547758070")
	_, err := interactor.Execute(context.Background(), &Request{Name: "Widget", Category: "tools", Price: huge})
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
}

func TestInteractor_ExecuteCommitError(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	boom := errors.New("boom")
	interactor := NewInteractor(producttest.NewRepo(clk), &producttest.Committer{Err: boom}, clk, zap.NewNop())

	price, _ := domain.NewMoney(1, 1)
	_, err := interactor.Execute(context.Background(), &Request{Name: "Widget", Category: "tools", Price: price})
	assert.ErrorIs(t, err, boom)
}
