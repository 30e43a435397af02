package repo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/models/m_product"
	"github.com/light-bringer/procat-bind/internal/pkg/bind"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	statements
	client *spanner.Client
}

// NewProductRepo creates a new Spanner ProductRepo.
func NewProductRepo(client *spanner.Client, f *bind.Factory, clk clock.Clock) (contracts.ProductRepository, error) {
	model, err := m_product.NewModel(f)
	if err != nil {
		return nil, err
	}
	return &ProductRepo{
		statements: statements{model: model, clock: clk},
		client:     client,
	}, nil
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	stmt, err := r.model.SelectByIDStmt(productID)
	if err != nil {
		return nil, err
	}

	products, err := r.query(ctx, stmt)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return products[0], nil
}

// List retrieves products matching filter, newest first.
func (r *ProductRepo) List(ctx context.Context, filter *contracts.ListFilter) ([]*domain.Product, error) {
	stmt, err := r.listStmt(filter)
	if err != nil {
		return nil, err
	}

	products, err := r.query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepo) query(ctx context.Context, stmt *bind.Statement) ([]*domain.Product, error) {
	spannerStmt, err := stmt.Spanner(r.model.Factory())
	if err != nil {
		return nil, err
	}

	iter := r.client.Single().Query(ctx, spannerStmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		var data m_product.Row
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		product, err := r.rowToDomain(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
