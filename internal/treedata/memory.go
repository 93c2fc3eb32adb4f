package treedata

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// rtree entries must have nonzero extent; points get a degenerate box.
const pointExtent = 1e-9

// MemorySource is an in-memory catalog indexed with an R-tree, used for
// tests and for running the viewer without a live data service.
type MemorySource struct {
	mu        sync.RWMutex
	trees     *rtreego.Rtree
	buildings *rtreego.Rtree
	treeCount int
	bldgCount int
}

// NewMemorySource creates an empty catalog.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		trees:     rtreego.NewTree(2, 25, 50),
		buildings: rtreego.NewTree(2, 25, 50),
	}
}

// LoadFile reads a GeoJSON catalog from disk and inserts its records.
func (s *MemorySource) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog %s: %w", path, err)
	}

	trees, buildings, err := DecodeCatalog(data)
	if err != nil {
		return err
	}

	s.AddTrees(trees)
	s.AddBuildings(buildings)
	return nil
}

// AddTrees inserts tree records, skipping invalid ones.
func (s *MemorySource) AddTrees(trees []Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range trees {
		if !t.Valid() {
			continue
		}
		s.trees.Insert(&treeEntry{t})
		s.treeCount++
	}
}

// AddBuildings inserts building records, skipping invalid ones.
func (s *MemorySource) AddBuildings(buildings []Building) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range buildings {
		if !b.Valid() {
			continue
		}
		s.buildings.Insert(&buildingEntry{b})
		s.bldgCount++
	}
}

// Counts returns the number of stored trees and buildings.
func (s *MemorySource) Counts() (trees, buildings int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.treeCount, s.bldgCount
}

// TreesWithin implements Source.
func (s *MemorySource) TreesWithin(ctx context.Context, bound orb.Bound, limit int) ([]Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := s.trees.SearchIntersect(boundRect(bound))
	out := make([]Tree, 0, len(hits))
	for _, h := range hits {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, h.(*treeEntry).Tree)
	}
	return out, nil
}

// BuildingsWithin implements Source.
func (s *MemorySource) BuildingsWithin(ctx context.Context, bound orb.Bound, limit int) ([]Building, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := s.buildings.SearchIntersect(boundRect(bound))
	out := make([]Building, 0, len(hits))
	for _, h := range hits {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, h.(*buildingEntry).Building)
	}
	return out, nil
}

type treeEntry struct {
	Tree
}

// Bounds implements rtreego.Spatial.
func (e *treeEntry) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{e.Lon, e.Lat},
		[]float64{pointExtent, pointExtent},
	)
	return rect
}

type buildingEntry struct {
	Building
}

// Bounds implements rtreego.Spatial.
func (e *buildingEntry) Bounds() rtreego.Rect {
	b := e.Bound()
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if w <= 0 {
		w = pointExtent
	}
	if h <= 0 {
		h = pointExtent
	}
	rect, _ := rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{w, h},
	)
	return rect
}

func boundRect(b orb.Bound) rtreego.Rect {
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if w <= 0 {
		w = pointExtent
	}
	if h <= 0 {
		h = pointExtent
	}
	rect, _ := rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{w, h},
	)
	return rect
}
