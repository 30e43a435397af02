package contracts

import (
	"context"

	"github.com/light-bringer/procat-bind/internal/pkg/committer"
)

// Committer applies a plan atomically.
type Committer interface {
	Apply(ctx context.Context, plan *committer.Plan) error
}
