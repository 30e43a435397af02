package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
)

// NewProduct builds an active product priced at 100.00.
func NewProduct(t *testing.T, clk clock.Clock, name, category string) *domain.Product {
	t.Helper()

	price, err := domain.NewMoney(10000, 100)
	require.NoError(t, err)

	p, err := domain.NewProduct(uuid.NewString(), name, "Test product description", category, price, clk)
	require.NoError(t, err)
	return p
}
