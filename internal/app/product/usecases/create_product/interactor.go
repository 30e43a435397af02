package create_product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
	"github.com/light-bringer/procat-bind/internal/pkg/committer"
)

// Request contains the data needed to create a product.
type Request struct {
	Name        string
	Description string
	Category    string
	Price       *domain.Money
}

// Interactor handles the create product use case.
type Interactor struct {
	repo      contracts.ProductRepository
	committer contracts.Committer
	clock     clock.Clock
	logger    *zap.Logger
	newID     func() string
}

// NewInteractor creates a new create product interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	committer contracts.Committer,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		committer: committer,
		clock:     clock,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// Execute creates a new product and returns its ID.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	product, err := domain.NewProduct(
		i.newID(),
		req.Name,
		req.Description,
		req.Category,
		req.Price,
		i.clock,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	stmt, err := i.repo.InsertStmt(product)
	if err != nil {
		return "", fmt.Errorf("failed to build insert: %w", err)
	}

	plan := committer.NewPlan()
	plan.Expect(stmt, 1)

	if err := i.committer.Apply(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info("product created",
		zap.String("product_id", product.ID()),
		zap.String("category", product.Category()),
	)
	return product.ID(), nil
}
