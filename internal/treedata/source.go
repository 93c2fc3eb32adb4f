package treedata

import (
	"context"

	"github.com/paulmach/orb"
)

// Source serves bounded-region record queries. Implementations must be safe
// for concurrent use; the viewport manager issues tree and building queries
// in parallel.
type Source interface {
	// TreesWithin returns up to limit trees inside the bound. limit <= 0
	// means no limit.
	TreesWithin(ctx context.Context, bound orb.Bound, limit int) ([]Tree, error)

	// BuildingsWithin returns up to limit building footprints inside the
	// bound. limit <= 0 means no limit.
	BuildingsWithin(ctx context.Context, bound orb.Bound, limit int) ([]Building, error)
}
