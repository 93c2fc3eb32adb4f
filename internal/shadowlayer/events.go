package shadowlayer

import "github.com/urbancanopy/shadowcast/internal/engine/scene"

// EventKind tags layer events.
type EventKind int

const (
	// EventInitialized fires once after OnAdd completes.
	EventInitialized EventKind = iota
	// EventPerf carries periodic frame statistics.
	EventPerf
	// EventError reports a recovered render failure.
	EventError
	// EventDisabled fires when repeated failures shut the layer down.
	EventDisabled
)

// Event is delivered to Options.OnEvent from the render thread.
type Event struct {
	Kind    EventKind
	Err     error
	Stats   scene.Stats
	FrameMs float64
	FPS     float64
}
