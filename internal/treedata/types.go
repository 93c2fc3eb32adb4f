// Package treedata provides tree and building records for bounded-region
// queries, from either a remote service or an in-memory catalog.
package treedata

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Tree is one cataloged tree. Immutable once fetched; its lifetime is bounded
// to the viewport refresh that fetched it.
type Tree struct {
	ID     string
	Lon    float64
	Lat    float64
	Height float64 // meters
	Girth  float64 // trunk circumference, centimeters
	Canopy float64 // canopy diameter, meters
}

// Valid reports whether the record carries usable geometry inputs.
func (t Tree) Valid() bool {
	return finite(t.Lon) && finite(t.Lat) &&
		finite(t.Height) && t.Height > 0 &&
		finite(t.Girth) && t.Girth > 0 &&
		finite(t.Canopy) && t.Canopy > 0
}

// Point returns the tree position as an orb point.
func (t Tree) Point() orb.Point {
	return orb.Point{t.Lon, t.Lat}
}

// Building is one building footprint. Ring is closed with at least 3 distinct
// vertices; Height is the roof height and MinHeight the extrusion base.
type Building struct {
	ID        string
	Ring      orb.Ring
	Height    float64 // meters
	MinHeight float64 // meters, usually 0
}

// Valid reports whether the footprint can be extruded: positive height above
// the base and a non-degenerate ring.
func (b Building) Valid() bool {
	if !finite(b.Height) || !finite(b.MinHeight) || b.Height <= b.MinHeight {
		return false
	}
	if len(b.Ring) < 4 || !b.Ring.Closed() {
		// An orb ring repeats its first vertex, so a triangle has 4 points.
		return false
	}
	if !distinctVertices(b.Ring, 3) {
		return false
	}
	return math.Abs(planar.Area(b.Ring)) > 0
}

// Bound returns the footprint's geographic bounding box.
func (b Building) Bound() orb.Bound {
	return b.Ring.Bound()
}

func distinctVertices(r orb.Ring, want int) bool {
	seen := make(map[orb.Point]struct{}, len(r))
	for _, p := range r {
		seen[p] = struct{}{}
		if len(seen) >= want {
			return true
		}
	}
	return false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
