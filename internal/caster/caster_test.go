package caster

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/paulmach/orb"

	"github.com/urbancanopy/shadowcast/internal/treedata"
	"github.com/urbancanopy/shadowcast/pkg/geo"
)

const (
	testLon = 13.4050
	testLat = 52.5200
)

func TestBuildTreeProportions(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	solids := BuildTree(p, treedata.Tree{
		ID: "t1", Lon: testLon, Lat: testLat,
		Height: 12, Girth: 80, Canopy: 6,
	})
	if len(solids) != 2 {
		t.Fatalf("expected trunk and canopy, got %d solids", len(solids))
	}

	trunk, canopy := solids[0], solids[1]

	if math32.Abs(trunk.Height-3.6) > 1e-4 {
		t.Errorf("trunk height = %f, want 3.6", trunk.Height)
	}
	wantR := float32(0.8) / (2 * math32.Pi)
	if math32.Abs(trunk.Radius-wantR) > 1e-4 {
		t.Errorf("trunk radius = %f, want %f", trunk.Radius, wantR)
	}

	if math32.Abs(canopy.Height-8.4) > 1e-4 {
		t.Errorf("canopy height = %f, want 8.4", canopy.Height)
	}
	if math32.Abs(canopy.Radius-3) > 1e-4 {
		t.Errorf("canopy radius = %f, want 3", canopy.Radius)
	}

	// Canopy sits on top of the trunk, and the whole tree reaches 12 m.
	if math32.Abs(canopy.Position.Y-3.6) > 1e-4 {
		t.Errorf("canopy base at y=%f, want 3.6", canopy.Position.Y)
	}
	top := canopy.Position.Y + canopy.Geometry.Bounds().Max[1]
	if math32.Abs(top-12) > 1e-3 {
		t.Errorf("tree top at %f, want 12", top)
	}

	// The widest disc sets the canopy's horizontal extent.
	if b := canopy.Geometry.Bounds(); math32.Abs(b.Max[0]-3) > 1e-3 {
		t.Errorf("canopy geometry reaches x=%f, want 3", b.Max[0])
	}
}

func TestBuildTreeTrunkCap(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	solids := BuildTree(p, treedata.Tree{
		ID: "tall", Lon: testLon, Lat: testLat,
		Height: 30, Girth: 200, Canopy: 12,
	})
	if len(solids) != 2 {
		t.Fatalf("expected 2 solids, got %d", len(solids))
	}
	if solids[0].Height != 4.0 {
		t.Errorf("trunk height should cap at 4.0, got %f", solids[0].Height)
	}
}

func TestBuildTreeMinTrunkRadius(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	solids := BuildTree(p, treedata.Tree{
		ID: "thin", Lon: testLon, Lat: testLat,
		Height: 5, Girth: 10, Canopy: 2,
	})
	if solids[0].Radius != trunkMinRadiusM {
		t.Errorf("trunk radius should clamp to %f, got %f", trunkMinRadiusM, solids[0].Radius)
	}
}

func TestBuildTreeInvalid(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	if s := BuildTree(p, treedata.Tree{ID: "bad", Lon: testLon, Lat: testLat}); s != nil {
		t.Errorf("invalid tree should build nothing, got %d solids", len(s))
	}
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

func TestBuildBuildingExtrusion(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	// ~22 m square footprint.
	s, ok := BuildBuilding(p, treedata.Building{
		ID: "b1", Ring: squareRing(testLon, testLat, 0.0002), Height: 25, MinHeight: 3,
	})
	if !ok {
		t.Fatal("building should build")
	}

	if s.Height != 22 {
		t.Errorf("box height = %f, want 22 (25 - 3)", s.Height)
	}
	if s.Position.Y != 3 {
		t.Errorf("box base at y=%f, want 3", s.Position.Y)
	}
	if !s.ReceiveShadow || !s.CastShadow {
		t.Error("buildings must cast and receive shadows")
	}

	b := s.Geometry.Bounds()
	width := b.Max[0] - b.Min[0]
	if width < 10 || width > 30 {
		t.Errorf("footprint width %f m is implausible for a 0.0002 deg ring", width)
	}
}

func TestBuildBuildingRejectsHugeFootprint(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	// ~1.1 km sides, above the sanity cap.
	if _, ok := BuildBuilding(p, treedata.Building{
		ID: "huge", Ring: squareRing(testLon, testLat, 0.01), Height: 20,
	}); ok {
		t.Error("oversized footprint should be rejected")
	}
}

func TestBuildBuildingInvalid(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	if _, ok := BuildBuilding(p, treedata.Building{
		ID: "flat", Ring: squareRing(testLon, testLat, 0.0002), Height: 0,
	}); ok {
		t.Error("zero-height building should be rejected")
	}
}

func TestBuildAllSkipCounts(t *testing.T) {
	p := geo.NewProjector(testLon, testLat)
	trees := []treedata.Tree{
		{ID: "ok", Lon: testLon, Lat: testLat, Height: 10, Girth: 80, Canopy: 5},
		{ID: "bad", Lon: testLon, Lat: testLat},
	}
	buildings := []treedata.Building{
		{ID: "ok", Ring: squareRing(testLon, testLat, 0.0002), Height: 12},
		{ID: "bad", Ring: squareRing(testLon, testLat, 0.0002), Height: 0},
	}

	solids, skippedT, skippedB := BuildAll(p, trees, buildings)
	if len(solids) != 3 {
		t.Errorf("expected 3 solids (trunk+canopy+box), got %d", len(solids))
	}
	if skippedT != 1 || skippedB != 1 {
		t.Errorf("skip counts = %d/%d, want 1/1", skippedT, skippedB)
	}
}
