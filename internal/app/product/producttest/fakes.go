// Package producttest provides in-memory collaborators for product usecase tests.
package producttest

import (
	"context"
	"sync"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/app/product/repo"
	"github.com/light-bringer/procat-bind/internal/pkg/bind"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
	"github.com/light-bringer/procat-bind/internal/pkg/committer"
)

// Factory is the bind factory used by the fakes.
var Factory = bind.NewFactory(bind.WithSeparator(bind.ParamSeparator))

// Repo serves reads from memory and builds write statements with the real
// repository code.
type Repo struct {
	contracts.ProductRepository

	mu       sync.Mutex
	products map[string]*domain.Product
}

// NewRepo creates an empty Repo.
func NewRepo(clk clock.Clock) *Repo {
	base, err := repo.NewPostgresProductRepo(nil, Factory, clk)
	if err != nil {
		panic(err)
	}
	return &Repo{
		ProductRepository: base,
		products:          make(map[string]*domain.Product),
	}
}

// Put stores a product for later reads.
func (r *Repo) Put(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID()] = p
}

// GetByID returns a stored product.
func (r *Repo) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// List returns every stored product.
func (r *Repo) List(context.Context, *contracts.ListFilter) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

// Committer resolves plans for Spanner and records the result instead of
// executing it.
type Committer struct {
	mu      sync.Mutex
	Applied [][]spanner.Statement
	// Err, when set, is returned after the plan was resolved.
	Err error
}

// Apply records the resolved plan.
func (c *Committer) Apply(_ context.Context, plan *committer.Plan) error {
	stmts, err := committer.ResolveSpanner(plan, Factory)
	if err != nil {
		return err
	}
	if c.Err != nil {
		return c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.Applied = append(c.Applied, stmts)
	return nil
}

// Last returns the statements of the most recent plan.
func (c *Committer) Last() []spanner.Statement {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Applied) == 0 {
		return nil
	}
	return c.Applied[len(c.Applied)-1]
}
