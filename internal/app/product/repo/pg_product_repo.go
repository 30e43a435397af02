package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/models/m_product"
	"github.com/light-bringer/procat-bind/internal/pkg/bind"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
)

// Querier is the part of pgxpool.Pool and pgx.Conn the repository reads with.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresProductRepo implements ProductRepository for PostgreSQL.
type PostgresProductRepo struct {
	statements
	db Querier
}

// NewPostgresProductRepo creates a new PostgreSQL ProductRepo.
func NewPostgresProductRepo(db Querier, f *bind.Factory, clk clock.Clock) (contracts.ProductRepository, error) {
	model, err := m_product.NewModel(f)
	if err != nil {
		return nil, err
	}
	return &PostgresProductRepo{
		statements: statements{model: model, clock: clk},
		db:         db,
	}, nil
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *PostgresProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	stmt, err := r.model.SelectByIDStmt(productID)
	if err != nil {
		return nil, err
	}

	products, err := r.query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return products[0], nil
}

// List retrieves products matching filter, newest first.
func (r *PostgresProductRepo) List(ctx context.Context, filter *contracts.ListFilter) ([]*domain.Product, error) {
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

func (r *PostgresProductRepo) query(ctx context.Context, stmt *bind.Statement) ([]*domain.Product, error) {
	sql, args, err := stmt.NamedArgs(r.model.Factory())
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}

	data, err := pgx.CollectRows(rows, pgx.RowToStructByName[m_product.Row])
	if err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	products := make([]*domain.Product, 0, len(data))
	for i := range data {
		product, err := r.rowToDomain(&data[i])
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
