package mapview

import (
	"math"
	"testing"
	"time"
)

func newTestView() *View {
	return New(13.4050, 52.5200, 16, 45, 0, 800, 600)
}

func TestPanMovesCenterAgainstDrag(t *testing.T) {
	v := newTestView()
	start := v.Camera()

	// Dragging the map right should move the center west.
	v.Pan(100, 0)
	c := v.Camera()
	if c.CenterLon >= start.CenterLon {
		t.Errorf("lon %f should have decreased from %f", c.CenterLon, start.CenterLon)
	}
	if math.Abs(c.CenterLat-start.CenterLat) > 1e-9 {
		t.Errorf("lat drifted on a horizontal drag: %f -> %f", start.CenterLat, c.CenterLat)
	}

	// Dragging down should move the center north.
	v.Pan(0, 100)
	if got := v.Camera().CenterLat; got <= c.CenterLat {
		t.Errorf("lat %f should have increased from %f", got, c.CenterLat)
	}
}

func TestPanHonorsBearing(t *testing.T) {
	v := New(13.4050, 52.5200, 16, 45, 90, 800, 600)
	start := v.Camera()

	// Bearing 90: screen-up points east, so dragging down moves east.
	v.Pan(0, 100)
	c := v.Camera()
	if c.CenterLon <= start.CenterLon {
		t.Errorf("lon %f should have increased from %f", c.CenterLon, start.CenterLon)
	}
	if math.Abs(c.CenterLat-start.CenterLat) > 1e-6 {
		t.Errorf("lat should stay put at bearing 90, moved %f -> %f", start.CenterLat, c.CenterLat)
	}
}

func TestZoomClamped(t *testing.T) {
	v := newTestView()
	v.Zoom(1000)
	if got := v.Camera().Zoom; got != maxZoom {
		t.Errorf("zoom = %f, want %f", got, maxZoom)
	}
	v.Zoom(-1000)
	if got := v.Camera().Zoom; got != minZoom {
		t.Errorf("zoom = %f, want %f", got, minZoom)
	}
}

func TestTiltClamped(t *testing.T) {
	v := newTestView()
	v.Tilt(500)
	if got := v.Camera().PitchDeg; got != maxPitch {
		t.Errorf("pitch = %f, want %f", got, maxPitch)
	}
	v.Tilt(-500)
	if got := v.Camera().PitchDeg; got != 0 {
		t.Errorf("pitch = %f, want 0", got)
	}
}

func TestRotateWraps(t *testing.T) {
	v := newTestView()
	v.Rotate(-10)
	if got := v.Camera().BearingDeg; got != 350 {
		t.Errorf("bearing = %f, want 350", got)
	}
	v.Rotate(20)
	if got := v.Camera().BearingDeg; got != 10 {
		t.Errorf("bearing = %f, want 10", got)
	}
}

func TestMoveEndFiresAfterSettle(t *testing.T) {
	v := newTestView()
	fired := 0
	v.OnMoveEnd(func() { fired++ })

	v.Pan(10, 0)
	v.Update(time.Now()) // too soon
	if fired != 0 {
		t.Fatal("move-end fired before the settle delay")
	}

	v.Update(time.Now().Add(settleDelay + time.Millisecond))
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	// No further motion, no further callbacks.
	v.Update(time.Now().Add(time.Second))
	if fired != 1 {
		t.Fatalf("fired = %d after idle update, want 1", fired)
	}
}

func TestRepaintCoalesces(t *testing.T) {
	v := newTestView()
	v.TriggerRepaint()
	v.TriggerRepaint()
	if !v.ConsumeRepaint() {
		t.Fatal("expected a queued repaint")
	}
	if v.ConsumeRepaint() {
		t.Fatal("repaint requests should coalesce to one")
	}
}

func TestGridSpacingGrowsWithResolution(t *testing.T) {
	if s := gridSpacing(0.1); s != 10 {
		t.Errorf("spacing at 0.1 m/px = %f, want 10", s)
	}
	coarse := gridSpacing(10)
	if coarse < 400 {
		t.Errorf("spacing at 10 m/px = %f, want >= 400", coarse)
	}
}
