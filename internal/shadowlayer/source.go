package shadowlayer

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/urbancanopy/shadowcast/internal/maphost"
	"github.com/urbancanopy/shadowcast/internal/treedata"
)

// hostBackedSource prefers building footprints the host has already
// rendered, falling back to the configured service when the host query
// comes back empty. Trees always go to the service.
type hostBackedSource struct {
	treedata.Source
	querier maphost.FeatureQuerier
}

// wrapSource layers the host's rendered-feature query over src when the
// host supports it.
func wrapSource(src treedata.Source, host maphost.Host) treedata.Source {
	q, ok := host.(maphost.FeatureQuerier)
	if !ok {
		return src
	}
	return &hostBackedSource{Source: src, querier: q}
}

func (s *hostBackedSource) BuildingsWithin(ctx context.Context, bound orb.Bound, limit int) ([]treedata.Building, error) {
	if buildings := s.querier.QueryBuildingFeatures(bound, limit); len(buildings) > 0 {
		return buildings, nil
	}
	return s.Source.BuildingsWithin(ctx, bound, limit)
}
