package archive_product

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/pkg/committer"
)

// Request contains the data needed to archive a product.
type Request struct {
	ProductID string
}

// Interactor handles the archive product use case.
type Interactor struct {
	repo      contracts.ProductRepository
	committer contracts.Committer
	logger    *zap.Logger
}

// NewInteractor creates a new archive product interactor.
func NewInteractor(repo contracts.ProductRepository, committer contracts.Committer, logger *zap.Logger) *Interactor {
	return &Interactor{repo: repo, committer: committer, logger: logger}
}

// Execute archives a product (soft delete).
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}

	if err := product.Archive(); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Expect(i.repo.ArchiveStmt(product), 1)

	if err := i.committer.Apply(ctx, plan); err != nil {
		if errors.Is(err, committer.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info("product archived", zap.String("product_id", product.ID()))
	return nil
}
