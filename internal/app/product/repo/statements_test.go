package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/models/m_product"
	"github.com/light-bringer/procat-bind/internal/pkg/bind"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
)

var testFactory = bind.NewFactory(bind.WithSeparator(bind.ParamSeparator))

func newStatements(clk clock.Clock) *statements {
	model, err := m_product.NewModel(testFactory)
	if err != nil {
		panic(err)
	}
	return &statements{model: model, clock: clk}
}

func newTestProduct(t *testing.T, clk clock.Clock) *domain.Product {
	t.Helper()
	price, err := domain.NewMoney(200, 2)
	require.NoError(t, err)
	p, err := domain.NewProduct("p-1", "Widget", "A widget", "tools", price, clk)
	require.NoError(t, err)
	return p
}

func TestDomainToData_NormalizesPrice(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	data, err := domainToData(newTestProduct(t, clk))
	require.NoError(t, err)

	assert.Equal(t, m_product.PriceData{Numerator: 100, Denominator: 1}, data.Price)
	assert.Equal(t, "active", data.Status)
	assert.Equal(t, int64(1), data.Version)
	assert.Nil(t, data.ArchivedAt)
}

func TestDomainToData_Overflow(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	huge, err := domain.ParseMoney("99999999999999999999.01")
	require.NoError(t, err)
	p, err := domain.NewProduct("p-1", "Widget", "", "tools", huge, clk)
	require.NoError(t, err)

	_, err = domainToData(p)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
}

func TestDataToDomain_RoundTrip(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	original := newTestProduct(t, clk)
	require.NoError(t, original.Archive())

	data, err := domainToData(original)
	require.NoError(t, err)

	got, err := dataToDomain(data, clk)
	require.NoError(t, err)

	assert.Equal(t, original.ID(), got.ID())
	assert.Equal(t, original.Name(), got.Name())
	assert.True(t, original.Price().Equals(got.Price()))
	assert.Equal(t, domain.StatusArchived, got.Status())
	assert.Equal(t, int64(2), got.Version())
	require.NotNil(t, got.ArchivedAt())
	assert.Equal(t, *original.ArchivedAt(), *got.ArchivedAt())
}

func TestDataToDomain_ZeroDenominator(t *testing.T) {
	_, err := dataToDomain(&m_product.Data{Price: m_product.PriceData{Numerator: 1}}, clock.NewRealClock())
	assert.ErrorContains(t, err, "invalid base price")
}

func TestStatements_UpdatePriceGuardsPreviousVersion(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	p := newTestProduct(t, clk)
	newPrice, _ := domain.NewMoney(150, 1)
	require.NoError(t, p.ChangePrice(newPrice))

	stmt, err := newStatements(clk).UpdatePriceStmt(p)
	require.NoError(t, err)

	resolved, err := stmt.Resolve(testFactory)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resolved.Params["expected_version"])
	assert.Equal(t, int64(150), resolved.Params["new_numerator"])
	assert.Equal(t, int64(1), resolved.Params["new_denominator"])
}

func TestStatements_ArchiveUsesArchivedAt(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(start)
	p := newTestProduct(t, clk)
	clk.Advance(time.Hour)
	require.NoError(t, p.Archive())

	resolved, err := newStatements(clk).ArchiveStmt(p).Resolve(testFactory)
	require.NoError(t, err)
	assert.Equal(t, "archived", resolved.Params["status"])
	assert.Equal(t, start.Add(time.Hour), resolved.Params["archived_at"])
	assert.Equal(t, int64(1), resolved.Params["expected_version"])
}

func TestStatements_ListNilFilter(t *testing.T) {
	stmt, err := newStatements(clock.NewRealClock()).listStmt(nil)
	require.NoError(t, err)

	resolved, err := stmt.Resolve(testFactory)
	require.NoError(t, err)
	assert.NotContains(t, resolved.Params, "filter_category")
	assert.Contains(t, resolved.SQL, "ORDER BY")
}

func TestStatements_ListFilter(t *testing.T) {
	stmt, err := newStatements(clock.NewRealClock()).listStmt(&contracts.ListFilter{Category: "tools", PageSize: 10})
	require.NoError(t, err)

	resolved, err := stmt.Resolve(testFactory)
	require.NoError(t, err)
	assert.Equal(t, "tools", resolved.Params["filter_category"])
	assert.NotContains(t, resolved.Params, "filter_status")
}

func TestNewProductRepo_RejectsDottedFactory(t *testing.T) {
	_, err := NewPostgresProductRepo(nil, bind.Default, clock.NewRealClock())
	assert.ErrorIs(t, err, bind.ErrInvalidName)

	_, err = NewProductRepo(nil, bind.Default, clock.NewRealClock())
	assert.ErrorIs(t, err, bind.ErrInvalidName)
}
