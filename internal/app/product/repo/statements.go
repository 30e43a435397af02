package repo

import (
	"fmt"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/models/m_product"
	"github.com/light-bringer/procat-bind/internal/pkg/bind"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
)

// statements builds the write statements shared by every backend.
type statements struct {
	model *m_product.Model
	clock clock.Clock
}

// InsertStmt creates a statement inserting a new product.
func (s *statements) InsertStmt(product *domain.Product) (*bind.Statement, error) {
	data, err := domainToData(product)
	if err != nil {
		return nil, err
	}
	return s.model.InsertStmt(data)
}

// UpdatePriceStmt creates a version-guarded price update.
func (s *statements) UpdatePriceStmt(product *domain.Product) (*bind.Statement, error) {
	price, err := priceData(product.Price())
	if err != nil {
		return nil, err
	}
	return s.model.UpdatePriceStmt(product.ID(), price, product.Version()-1, product.UpdatedAt()), nil
}

// ArchiveStmt creates a version-guarded archive update.
func (s *statements) ArchiveStmt(product *domain.Product) *bind.Statement {
	archivedAt := product.UpdatedAt()
	if at := product.ArchivedAt(); at != nil {
		archivedAt = *at
	}
	return s.model.ArchiveStmt(product.ID(), string(product.Status()), archivedAt, product.Version()-1)
}

func (s *statements) listStmt(filter *contracts.ListFilter) (*bind.Statement, error) {
	if filter == nil {
		filter = &contracts.ListFilter{}
	}
	return s.model.ListStmt(m_product.Filter{
		Category: filter.Category,
		Status:   filter.Status,
	}, filter.PageSize, filter.Offset)
}

func (s *statements) rowToDomain(row *m_product.Row) (*domain.Product, error) {
	return dataToDomain(row.Data(), s.clock)
}

// priceData normalizes money for storage (200/2 -> 100/1).
func priceData(m *domain.Money) (m_product.PriceData, error) {
	if !m.IsSafeForStorage() {
		return m_product.PriceData{}, fmt.Errorf("price exceeds storage capacity: %w", domain.ErrMoneyOverflow)
	}
	num, err := m.Numerator()
	if err != nil {
		return m_product.PriceData{}, err
	}
	denom, err := m.Denominator()
	if err != nil {
		return m_product.PriceData{}, err
	}
	return m_product.PriceData{Numerator: num, Denominator: denom}, nil
}

// domainToData converts a domain Product to database Data.
func domainToData(product *domain.Product) (*m_product.Data, error) {
	price, err := priceData(product.Price())
	if err != nil {
		return nil, err
	}

	return &m_product.Data{
		ProductID:   product.ID(),
		Name:        product.Name(),
		Description: product.Description(),
		Category:    product.Category(),
		Price:       price,
		Status:      string(product.Status()),
		Version:     product.Version(),
		CreatedAt:   product.CreatedAt(),
		UpdatedAt:   product.UpdatedAt(),
		ArchivedAt:  product.ArchivedAt(),
	}, nil
}

// dataToDomain converts database Data to a domain Product.
func dataToDomain(data *m_product.Data, clk clock.Clock) (*domain.Product, error) {
	price, err := domain.NewMoney(data.Price.Numerator, data.Price.Denominator)
	if err != nil {
		return nil, fmt.Errorf("invalid base price: %w", err)
	}

	return domain.ReconstructProduct(
		data.ProductID,
		data.Name,
		data.Description,
		data.Category,
		price,
		domain.ProductStatus(data.Status),
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
		data.ArchivedAt,
		clk,
	), nil
}
