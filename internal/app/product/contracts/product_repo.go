package contracts

import (
	"context"

	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

// ListFilter defines filtering options for listing products.
type ListFilter struct {
	Category string
	Status   string
	PageSize int
	Offset   int64
}

// ProductRepository defines the interface for product persistence.
// Write methods return statements, they don't execute them; usecases collect
// them into a committer.Plan.
type ProductRepository interface {
	// InsertStmt creates a statement inserting a new product.
	// Returns error if money values exceed int64 bounds.
	InsertStmt(product *domain.Product) (*bind.Statement, error)

	// UpdatePriceStmt creates a statement storing the product's current price,
	// guarded by the version the product had before the change.
	UpdatePriceStmt(product *domain.Product) (*bind.Statement, error)

	// ArchiveStmt creates a statement storing the product's archived state,
	// guarded by the version the product had before the change.
	ArchiveStmt(product *domain.Product) *bind.Statement

	// GetByID retrieves a product by ID, reconstructing the domain aggregate.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// List retrieves products matching filter, newest first.
	List(ctx context.Context, filter *ListFilter) ([]*domain.Product, error)
}
