package update_price

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/pkg/committer"
)

// Request contains the data needed to update a product's price.
type Request struct {
	ProductID string
	NewPrice  *domain.Money
}

// Interactor handles the update price use case.
type Interactor struct {
	repo      contracts.ProductRepository
	committer contracts.Committer
	logger    *zap.Logger
}

// NewInteractor creates a new update price interactor.
func NewInteractor(repo contracts.ProductRepository, committer contracts.Committer, logger *zap.Logger) *Interactor {
	return &Interactor{repo: repo, committer: committer, logger: logger}
}

// Execute changes a product's price. The update only applies when nobody else
// changed the product since it was loaded; otherwise committer.ErrConflict is
// returned.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.ProductID == "" {
		return domain.ErrProductNotFound
	}

	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}

	oldPrice := product.Price()
	if err := product.ChangePrice(req.NewPrice); err != nil {
		return err
	}

	stmt, err := i.repo.UpdatePriceStmt(product)
	if err != nil {
		return fmt.Errorf("failed to build price update: %w", err)
	}

	plan := committer.NewPlan()
	plan.Expect(stmt, 1)

	if err := i.committer.Apply(ctx, plan); err != nil {
		if errors.Is(err, committer.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info("product price updated",
		zap.String("product_id", product.ID()),
		zap.Stringer("old_price", oldPrice),
		zap.Stringer("new_price", product.Price()),
		zap.Int64("version", product.Version()),
	)
	return nil
}
