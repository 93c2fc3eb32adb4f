package treedata

import (
	"context"
	"testing"

	"github.com/paulmach/orb"

	"github.com/urbancanopy/shadowcast/pkg/geo"
)

const (
	centerLon = 13.4050
	centerLat = 52.5200
)

func testTree(id string, lon, lat float64) Tree {
	return Tree{ID: id, Lon: lon, Lat: lat, Height: 10, Girth: 80, Canopy: 6}
}

func squareRing(lon, lat, sizeDeg float64) orb.Ring {
	return orb.Ring{
		{lon, lat},
		{lon + sizeDeg, lat},
		{lon + sizeDeg, lat + sizeDeg},
		{lon, lat + sizeDeg},
		{lon, lat},
	}
}

func TestMemorySourceTreesWithin(t *testing.T) {
	s := NewMemorySource()
	s.AddTrees([]Tree{
		testTree("in-1", centerLon, centerLat),
		testTree("in-2", centerLon+0.001, centerLat+0.001),
		testTree("out", centerLon+1.0, centerLat),
	})

	bound := geo.BoundAround(centerLon, centerLat, 500, 500)
	got, err := s.TreesWithin(context.Background(), bound, 0)
	if err != nil {
		t.Fatalf("TreesWithin: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 trees in bound, got %d", len(got))
	}
	for _, tr := range got {
		if tr.ID == "out" {
			t.Error("tree outside the bound was returned")
		}
	}
}

func TestMemorySourceLimit(t *testing.T) {
	s := NewMemorySource()
	var trees []Tree
	for i := 0; i < 50; i++ {
		trees = append(trees, testTree("t", centerLon+float64(i)*0.0001, centerLat))
	}
	s.AddTrees(trees)

	bound := geo.BoundAround(centerLon, centerLat, 5000, 5000)
	got, err := s.TreesWithin(context.Background(), bound, 10)
	if err != nil {
		t.Fatalf("TreesWithin: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("limit 10 should cap results, got %d", len(got))
	}
}

func TestMemorySourceSkipsInvalid(t *testing.T) {
	s := NewMemorySource()
	s.AddTrees([]Tree{
		testTree("ok", centerLon, centerLat),
		{ID: "no-height", Lon: centerLon, Lat: centerLat, Girth: 80, Canopy: 6},
		{ID: "no-girth", Lon: centerLon, Lat: centerLat, Height: 10, Canopy: 6},
	})
	s.AddBuildings([]Building{
		{ID: "two-points", Ring: orb.Ring{{0, 0}, {1, 1}}, Height: 10},
		{ID: "flat", Ring: squareRing(centerLon, centerLat, 0.001), Height: 0},
	})

	treeCount, bldgCount := s.Counts()
	if treeCount != 1 {
		t.Errorf("expected 1 valid tree stored, got %d", treeCount)
	}
	if bldgCount != 0 {
		t.Errorf("expected 0 valid buildings stored, got %d", bldgCount)
	}
}

func TestMemorySourceBuildingsWithin(t *testing.T) {
	s := NewMemorySource()
	s.AddBuildings([]Building{
		{ID: "in", Ring: squareRing(centerLon, centerLat, 0.0005), Height: 20},
		{ID: "out", Ring: squareRing(centerLon+1, centerLat, 0.0005), Height: 20},
	})

	bound := geo.BoundAround(centerLon, centerLat, 500, 500)
	got, err := s.BuildingsWithin(context.Background(), bound, 0)
	if err != nil {
		t.Fatalf("BuildingsWithin: %v", err)
	}
	if len(got) != 1 || got[0].ID != "in" {
		t.Errorf("expected only the inside building, got %v", got)
	}
}

func TestMemorySourceCancelledContext(t *testing.T) {
	s := NewMemorySource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.TreesWithin(ctx, geo.BoundAround(centerLon, centerLat, 100, 100), 0); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestGeoJSONRoundTrip(t *testing.T) {
	trees := []Tree{testTree("t1", centerLon, centerLat)}
	buildings := []Building{
		{ID: "b1", Ring: squareRing(centerLon, centerLat, 0.001), Height: 24, MinHeight: 3},
	}

	data, err := EncodeCatalog(trees, buildings)
	if err != nil {
		t.Fatalf("EncodeCatalog: %v", err)
	}

	gotTrees, gotBuildings, err := DecodeCatalog(data)
	if err != nil {
		t.Fatalf("DecodeCatalog: %v", err)
	}

	if len(gotTrees) != 1 {
		t.Fatalf("expected 1 tree, got %d", len(gotTrees))
	}
	tr := gotTrees[0]
	if tr.ID != "t1" || tr.Height != 10 || tr.Girth != 80 || tr.Canopy != 6 {
		t.Errorf("tree did not round trip: %+v", tr)
	}

	if len(gotBuildings) != 1 {
		t.Fatalf("expected 1 building, got %d", len(gotBuildings))
	}
	b := gotBuildings[0]
	if b.ID != "b1" || b.Height != 24 || b.MinHeight != 3 {
		t.Errorf("building did not round trip: %+v", b)
	}
	if len(b.Ring) != 5 {
		t.Errorf("ring did not round trip: %d points", len(b.Ring))
	}
}

func TestGenerateSyntheticDeterministic(t *testing.T) {
	t1, b1 := GenerateSynthetic(centerLon, centerLat, 400)
	t2, b2 := GenerateSynthetic(centerLon, centerLat, 400)

	if len(t1) == 0 || len(b1) == 0 {
		t.Fatalf("generator produced empty catalog: %d trees, %d buildings", len(t1), len(b1))
	}
	if len(t1) != len(t2) || len(b1) != len(b2) {
		t.Fatalf("generator is not deterministic in counts")
	}
	for i := range t1 {
		if t1[i] != t2[i] {
			t.Fatalf("tree %d differs between runs", i)
		}
	}
}

func TestGenerateSyntheticRecordsValid(t *testing.T) {
	trees, buildings := GenerateSynthetic(centerLon, centerLat, 300)

	for _, tr := range trees {
		if !tr.Valid() {
			t.Fatalf("generated tree is invalid: %+v", tr)
		}
	}
	for _, b := range buildings {
		if !b.Valid() {
			t.Fatalf("generated building is invalid: %s", b.ID)
		}
	}

	// Everything must land inside the requested radius plus one block.
	for _, tr := range trees {
		if d := distFromCenter(tr.Lon, tr.Lat); d > 300+150 {
			t.Fatalf("tree %s is %f m from center", tr.ID, d)
		}
	}
}

func distFromCenter(lon, lat float64) float64 {
	return geo.DistanceM(centerLon, centerLat, lon, lat)
}
