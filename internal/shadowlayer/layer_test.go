package shadowlayer

import (
	"errors"
	"testing"

	"github.com/urbancanopy/shadowcast/internal/caster"
	"github.com/urbancanopy/shadowcast/internal/engine/camera"
	"github.com/urbancanopy/shadowcast/internal/engine/lighting"
	"github.com/urbancanopy/shadowcast/internal/engine/scene"
	"github.com/urbancanopy/shadowcast/internal/treedata"
)

// fakeScene implements shadowScene without a GL context and can be told to
// fail resolution changes.
type fakeScene struct {
	resolution int32
	resizeErr  error
	resizes    int
}

func (f *fakeScene) SetSolids([]caster.Solid)      {}
func (f *fakeScene) SetLight(lighting.Directional) {}
func (f *fakeScene) SetShadowResolution(r int32) error {
	f.resizes++
	if f.resizeErr != nil {
		return f.resizeErr
	}
	f.resolution = r
	return nil
}
func (f *fakeScene) SetShadowOpacity(float32)             {}
func (f *fakeScene) SetDrawSolids(bool)                   {}
func (f *fakeScene) Counts() (int, int)                   { return 0, 0 }
func (f *fakeScene) Render(*camera.MapCamera) scene.Stats { return scene.Stats{} }
func (f *fakeScene) Destroy()                             {}

func TestParseQuality(t *testing.T) {
	cases := []struct {
		in      string
		want    QualityPreset
		wantErr bool
	}{
		{"low", QualityLow, false},
		{"Medium", QualityMedium, false},
		{" HIGH ", QualityHigh, false},
		{"ultra", QualityUltra, false},
		{"", QualityMedium, false},
		{"extreme", QualityMedium, true},
	}
	for _, c := range cases {
		got, err := ParseQuality(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseQuality(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Errorf("ParseQuality(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestQualityResolutionLadder(t *testing.T) {
	want := map[QualityPreset]int32{
		QualityLow:    1024,
		QualityMedium: 2048,
		QualityHigh:   4096,
		QualityUltra:  8192,
	}
	for q, res := range want {
		if got := q.Resolution(); got != res {
			t.Errorf("%s resolution = %d, want %d", q, got, res)
		}
	}
}

func TestGuardDisablesAfterRepeatedFailures(t *testing.T) {
	var events []Event
	l := New(Options{
		Source:  treedata.NewMemorySource(),
		OnEvent: func(e Event) { events = append(events, e) },
	})

	for i := 0; i < maxConsecutiveFailures; i++ {
		l.guard(func() { panic("frame exploded") })
	}

	if !l.disabled {
		t.Fatalf("layer should disable after %d failures", maxConsecutiveFailures)
	}

	var errs, disables int
	for _, e := range events {
		switch e.Kind {
		case EventError:
			errs++
		case EventDisabled:
			disables++
		}
	}
	if errs != maxConsecutiveFailures || disables != 1 {
		t.Errorf("got %d error events and %d disabled events", errs, disables)
	}
}

func TestGuardResetsOnSuccess(t *testing.T) {
	l := New(Options{Source: treedata.NewMemorySource()})

	l.guard(func() { panic("one-off") })
	l.guard(func() {})
	l.guard(func() { panic("another") })

	if l.disabled {
		t.Error("interleaved successes should keep the layer alive")
	}
	if l.failures != 1 {
		t.Errorf("failure streak = %d, want 1", l.failures)
	}
}

func TestOnRemoveIdempotent(t *testing.T) {
	l := New(Options{Source: treedata.NewMemorySource()})

	// Never added, so there is no scene to tear down; both calls must be
	// safe no-ops.
	l.OnRemove()
	l.OnRemove()

	if !l.removed {
		t.Error("layer should report removed")
	}
	l.Render() // must not panic after removal
}

func TestFailedQualityChangeRetries(t *testing.T) {
	fake := &fakeScene{resizeErr: errors.New("framebuffer incomplete")}
	l := New(Options{Source: treedata.NewMemorySource(), Quality: QualityMedium})
	l.host = plainHost{}
	l.scene = fake

	l.UpdateOptions(Options{Quality: QualityHigh})
	l.applyPendingOptions()

	if l.opts.Quality != QualityMedium {
		t.Fatalf("failed resize recorded quality %q, want %q kept", l.opts.Quality, QualityMedium)
	}

	// Once the scene recovers, asking for the same preset again must reach
	// it rather than being skipped as a no-change.
	fake.resizeErr = nil
	l.UpdateOptions(Options{Quality: QualityHigh})
	l.applyPendingOptions()

	if fake.resizes != 2 {
		t.Fatalf("resize attempted %d times, want 2", fake.resizes)
	}
	if l.opts.Quality != QualityHigh || fake.resolution != QualityHigh.Resolution() {
		t.Errorf("retry did not apply: quality %q, resolution %d", l.opts.Quality, fake.resolution)
	}
}

func TestUpdateOptionsQueues(t *testing.T) {
	l := New(Options{Source: treedata.NewMemorySource(), Quality: QualityLow})

	l.UpdateOptions(Options{Quality: QualityHigh})

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == nil || l.pending.Quality != QualityHigh {
		t.Error("options change was not queued")
	}
}
