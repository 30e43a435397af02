package archive_product

import (
	"context"
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
	clk := clock.NewMockClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	repo := producttest.NewRepo(clk)
	price, _ := domain.NewMoney(5, 1)
	p, err := domain.NewProduct("p-1", "Widget", "", "tools", price, clk)
	require.NoError(t, err)
	repo.Put(p)

	clk.Advance(time.Minute)
	comm := &producttest.Committer{}
	interactor := NewInteractor(repo, comm, zap.NewNop())

	require.NoError(t, interactor.Execute(context.Background(), &Request{ProductID: "p-1"}))

	stmts := comm.Last()
	require.Len(t, stmts, 1)
	assert.Equal(t, "archived", stmts[0].Params["status"])
	assert.Equal(t, clk.Now(), stmts[0].Params["archived_at"])
	assert.Equal(t, int64(1), stmts[0].Params["expected_version"])

	assert.ErrorIs(t, interactor.Execute(context.Background(), &Request{ProductID: "p-1"}), domain.ErrAlreadyArchived)
	assert.ErrorIs(t, interactor.Execute(context.Background(), &Request{ProductID: "nope"}), domain.ErrProductNotFound)
}
