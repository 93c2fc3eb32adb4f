package geo

import (
	"math"
	"testing"
)

// Test anchor: central Berlin.
const (
	testLon = 13.4050
	testLat = 52.5200
)

func TestToSceneOriginIsZero(t *testing.T) {
	p := NewProjector(testLon, testLat)
	v := p.ToScene(testLon, testLat, 0)

	if math.Abs(float64(v.X)) > 0.001 || math.Abs(float64(v.Z)) > 0.001 {
		t.Errorf("origin should map to (0,0), got (%f, %f)", v.X, v.Z)
	}
	if v.Y != 0 {
		t.Errorf("elevation 0 should map to y=0, got %f", v.Y)
	}
}

func TestToSceneAxes(t *testing.T) {
	p := NewProjector(testLon, testLat)

	// A point to the east has positive X.
	east := p.ToScene(testLon+0.01, testLat, 0)
	if east.X <= 0 {
		t.Errorf("east point should have positive X, got %f", east.X)
	}

	// A point to the north has negative Z (z grows south).
	north := p.ToScene(testLon, testLat+0.01, 0)
	if north.Z >= 0 {
		t.Errorf("north point should have negative Z, got %f", north.Z)
	}

	// Elevation passes through unchanged.
	up := p.ToScene(testLon, testLat, 25)
	if up.Y != 25 {
		t.Errorf("elevation should pass through, got %f", up.Y)
	}
}

func TestToSceneScaleIsMeters(t *testing.T) {
	p := NewProjector(testLon, testLat)

	// 1000 m east of the anchor should land ~1000 scene units away.
	b := BoundAround(testLon, testLat, 1000, 1000)
	v := p.ToScene(b.Max[0], testLat, 0)

	if math.Abs(float64(v.X)-1000) > 15 {
		t.Errorf("1 km east should be ~1000 units, got %f", v.X)
	}
}

func TestRoundTrip(t *testing.T) {
	p := NewProjector(testLon, testLat)

	// Points within the effective radius (a few km) must round trip to
	// better than ~1e-5 degrees (about a meter).
	points := [][2]float64{
		{testLon, testLat},
		{testLon + 0.02, testLat - 0.01},
		{testLon - 0.015, testLat + 0.008},
		{testLon + 0.001, testLat + 0.02},
	}

	for _, pt := range points {
		v := p.ToScene(pt[0], pt[1], 0)
		lon, lat := p.ToGeo(v.X, v.Z)

		if math.Abs(lon-pt[0]) > 1e-5 || math.Abs(lat-pt[1]) > 1e-5 {
			t.Errorf("round trip (%f, %f) -> (%f, %f)", pt[0], pt[1], lon, lat)
		}
	}
}

func TestNeedsReanchor(t *testing.T) {
	p := NewProjector(testLon, testLat)

	if p.NeedsReanchor(testLon, testLat) {
		t.Error("anchor itself should not need re-anchoring")
	}

	// ~500 m away: still fine.
	near := BoundAround(testLon, testLat, 500, 500)
	if p.NeedsReanchor(near.Max[0], testLat) {
		t.Error("500 m drift should not trigger re-anchor")
	}

	// ~5 km away: must trigger.
	far := BoundAround(testLon, testLat, 5000, 5000)
	if !p.NeedsReanchor(far.Max[0], testLat) {
		t.Error("5 km drift should trigger re-anchor")
	}
}

func TestMetersPerPixel(t *testing.T) {
	// Halving with each zoom level.
	a := MetersPerPixel(testLat, 14)
	b := MetersPerPixel(testLat, 15)
	if math.Abs(a/b-2.0) > 0.001 {
		t.Errorf("meters per pixel should halve per zoom level: %f vs %f", a, b)
	}

	// Known value at the equator, zoom 0.
	if v := MetersPerPixel(0, 0); math.Abs(v-156543.03392) > 0.01 {
		t.Errorf("equator zoom 0 = %f, want 156543.03392", v)
	}
}

func TestDistanceM(t *testing.T) {
	// One degree of latitude is ~111 km.
	d := DistanceM(testLon, testLat, testLon, testLat+1)
	if math.Abs(d-111195) > 500 {
		t.Errorf("1 degree latitude = %f m, want ~111195", d)
	}
}

func TestBoundAround(t *testing.T) {
	b := BoundAround(testLon, testLat, 1000, 1000)

	if w := BoundWidthM(b); math.Abs(w-2000) > 30 {
		t.Errorf("bound width = %f m, want ~2000", w)
	}
	if h := BoundHeightM(b); math.Abs(h-2000) > 30 {
		t.Errorf("bound height = %f m, want ~2000", h)
	}
	if !b.Contains([2]float64{testLon, testLat}) {
		t.Error("bound should contain its center")
	}
}

func TestClampLatPoles(t *testing.T) {
	p := NewProjector(0, 89)
	v := p.ToScene(0, 89.9, 0)
	if math.IsNaN(float64(v.Z)) || math.IsInf(float64(v.Z), 0) {
		t.Errorf("near-pole projection should clamp, got %f", v.Z)
	}
}
