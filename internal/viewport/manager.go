// Package viewport keeps the caster set in sync with the host camera. Every
// camera settle schedules a debounced fetch of the visible records, which
// are built into solids off-thread and handed to the render loop as one
// atomic swap. Only the newest request may win; anything slower is dropped.
package viewport

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/urbancanopy/shadowcast/internal/caster"
	"github.com/urbancanopy/shadowcast/internal/logger"
	"github.com/urbancanopy/shadowcast/internal/maphost"
	"github.com/urbancanopy/shadowcast/internal/metrics"
	"github.com/urbancanopy/shadowcast/internal/treedata"
	"github.com/urbancanopy/shadowcast/pkg/geo"
)

// Defaults applied by NewManager when an option is zero.
const (
	DefaultDebounce     = 250 * time.Millisecond
	DefaultFetchPadM    = 100.0
	DefaultMaxEntities  = 4000
	DefaultFetchTimeout = 15 * time.Second
)

// Options configures a Manager.
type Options struct {
	Source       treedata.Source
	MinZoom      float64
	Debounce     time.Duration
	FetchPadM    float64
	FetchTimeout time.Duration
	MaxEntities  int
	Trees        bool
	Buildings    bool

	// OnUpdate fires off the render thread whenever a new swap is queued,
	// typically wired to the host's TriggerRepaint.
	OnUpdate func()
}

// Manager runs the fetch pipeline. All exported methods are safe for
// concurrent use; Drain is intended for the render thread.
type Manager struct {
	opts Options

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc

	// projector is the frame the displayed solids were built in. It only
	// moves together with a caster swap in Drain, so the render loop and
	// the solids it draws always agree on an anchor.
	projector *geo.Projector

	pending     []caster.Solid
	pendingProj *geo.Projector
	hasPending  bool

	// Last successfully built solids per kind, reused when a later fetch
	// for that kind fails so shadows never vanish on a network hiccup.
	// They live in the lastProj frame and are rebased when a fetch picks
	// a new anchor.
	lastTrees     []caster.Solid
	lastBuildings []caster.Solid
	lastProj      *geo.Projector

	closed bool
}

// NewManager creates a manager around a record source.
func NewManager(opts Options) *Manager {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.FetchPadM <= 0 {
		opts.FetchPadM = DefaultFetchPadM
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.MaxEntities <= 0 {
		opts.MaxEntities = DefaultMaxEntities
	}
	return &Manager{opts: opts}
}

// CameraSettled notes that the host camera came to rest. The fetch fires
// after the debounce window; a newer settle restarts the window and makes
// any in-flight work stale.
func (m *Manager) CameraSettled(cs maphost.CameraState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.opts.Debounce, func() {
		m.startFetch(cs)
	})
}

func (m *Manager) startFetch(cs maphost.CameraState) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	m.generation++
	gen := m.generation

	// Newer request: whatever the old fetch returns is stale anyway, so
	// stop paying for it.
	if m.cancel != nil {
		m.cancel()
	}

	// Below the zoom gate the layer shows no shadows at all.
	if cs.Zoom < m.opts.MinZoom {
		m.pending = nil
		m.pendingProj = nil
		m.hasPending = true
		m.lastTrees = nil
		m.lastBuildings = nil
		m.lastProj = nil
		m.mu.Unlock()
		m.notify()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.FetchTimeout)
	m.cancel = cancel

	proj := m.fetchProjector(cs)
	opts := m.opts // snapshot; Configure may change it mid-fetch
	m.mu.Unlock()

	go m.fetch(ctx, gen, cs, proj, opts)
}

// fetchProjector picks the frame for the next fetch: the current one while
// the camera stays near its origin, or a fresh anchor once it strays far
// enough to cost precision. The new anchor takes over only when the fetch
// commits, so the displayed frame never moves ahead of its solids. Caller
// holds mu.
func (m *Manager) fetchProjector(cs maphost.CameraState) *geo.Projector {
	if m.lastProj != nil && !m.lastProj.NeedsReanchor(cs.CenterLon, cs.CenterLat) {
		return m.lastProj
	}
	logger.Debug("projector re-anchored",
		zap.Float64("lon", cs.CenterLon),
		zap.Float64("lat", cs.CenterLat),
	)
	return geo.NewProjector(cs.CenterLon, cs.CenterLat)
}

func (m *Manager) fetch(ctx context.Context, gen uint64, cs maphost.CameraState, proj *geo.Projector, opts Options) {
	bound := maphost.VisibleBound(cs, opts.FetchPadM)
	budget := BudgetFor(cs.Zoom, opts.MaxEntities)

	var (
		wg        sync.WaitGroup
		trees     []treedata.Tree
		buildings []treedata.Building
		treesOK   bool
		bldgsOK   bool
	)

	// The two kinds fetch in parallel and fail soft: losing one still
	// shadows the other.
	if opts.Trees {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trees, treesOK = fetchKind(ctx, "tree", func() ([]treedata.Tree, error) {
				return opts.Source.TreesWithin(ctx, bound, budget.Trees)
			})
		}()
	}
	if opts.Buildings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buildings, bldgsOK = fetchKind(ctx, "building", func() ([]treedata.Building, error) {
				return opts.Source.BuildingsWithin(ctx, bound, budget.Buildings)
			})
		}()
	}
	wg.Wait()

	anyEnabled := opts.Trees || opts.Buildings
	anyOK := (opts.Trees && treesOK) || (opts.Buildings && bldgsOK)
	if anyEnabled && !anyOK {
		// Nothing new at all; keep rendering the old generation.
		return
	}

	treeSolids, skippedT, _ := caster.BuildAll(proj, trees, nil)
	bldgSolids, _, skippedB := caster.BuildAll(proj, nil, buildings)
	if skippedT > 0 {
		metrics.SkippedRecordsTotal.WithLabelValues("tree").Add(float64(skippedT))
	}
	if skippedB > 0 {
		metrics.SkippedRecordsTotal.WithLabelValues("building").Add(float64(skippedB))
	}

	m.mu.Lock()
	if gen != m.generation || m.closed {
		m.mu.Unlock()
		metrics.StaleResultsTotal.Inc()
		logger.Debug("discarding stale fetch", zap.Uint64("generation", gen))
		return
	}
	// Retained solids from an older frame move into this fetch's frame so
	// one swap never mixes anchors.
	if m.lastProj != nil && m.lastProj != proj {
		m.lastTrees = rebaseSolids(m.lastTrees, m.lastProj, proj)
		m.lastBuildings = rebaseSolids(m.lastBuildings, m.lastProj, proj)
	}
	m.lastProj = proj
	// A failed kind keeps its previous solids instead of going dark.
	if opts.Trees {
		if treesOK {
			m.lastTrees = treeSolids
		} else {
			treeSolids = m.lastTrees
		}
	}
	if opts.Buildings {
		if bldgsOK {
			m.lastBuildings = bldgSolids
		} else {
			bldgSolids = m.lastBuildings
		}
	}
	solids := make([]caster.Solid, 0, len(treeSolids)+len(bldgSolids))
	solids = append(solids, treeSolids...)
	solids = append(solids, bldgSolids...)
	m.pending = solids
	m.pendingProj = proj
	m.hasPending = true
	m.mu.Unlock()

	logger.Debug("viewport update ready",
		zap.Uint64("generation", gen),
		zap.Int("trees", len(trees)),
		zap.Int("buildings", len(buildings)),
		zap.Int("solids", len(solids)),
	)
	m.notify()
}

func fetchKind[T any](ctx context.Context, kind string, get func() ([]T, error)) ([]T, bool) {
	t0 := time.Now()
	records, err := get()
	metrics.FetchDurationMs.WithLabelValues(kind).Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		if ctx.Err() != nil {
			metrics.FetchesTotal.WithLabelValues(kind, "cancelled").Inc()
		} else {
			metrics.FetchesTotal.WithLabelValues(kind, "error").Inc()
			logger.Warn("record fetch failed", zap.String("kind", kind), zap.Error(err))
		}
		return nil, false
	}
	metrics.FetchesTotal.WithLabelValues(kind, "ok").Inc()
	return records, true
}

func (m *Manager) notify() {
	if m.opts.OnUpdate != nil {
		m.opts.OnUpdate()
	}
}

// ProjectorFor returns the frame of the currently displayed solids, creating
// one at the camera center on first use. The frame only moves together with
// a caster swap in Drain, so scene positions always match what was built.
func (m *Manager) ProjectorFor(cs maphost.CameraState) *geo.Projector {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.projector == nil {
		m.projector = geo.NewProjector(cs.CenterLon, cs.CenterLat)
	}
	return m.projector
}

// rebaseSolids re-expresses solid base positions in a new projector frame.
// Geometry is local to each base, so only the position moves; elevation
// stays as built.
func rebaseSolids(solids []caster.Solid, from, to *geo.Projector) []caster.Solid {
	if len(solids) == 0 {
		return solids
	}
	out := make([]caster.Solid, len(solids))
	for i, s := range solids {
		lon, lat := from.ToGeo(s.Position.X, s.Position.Z)
		p := to.ToScene(lon, lat, 0)
		s.Position.X = p.X
		s.Position.Z = p.Z
		out[i] = s
	}
	return out
}

// Configure changes which kinds are fetched and the entity ceiling. Takes
// effect on the next settle; a disabled kind forgets its retained solids.
func (m *Manager) Configure(trees, buildings bool, maxEntities int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Trees = trees
	m.opts.Buildings = buildings
	if maxEntities > 0 {
		m.opts.MaxEntities = maxEntities
	}
	if !trees {
		m.lastTrees = nil
	}
	if !buildings {
		m.lastBuildings = nil
	}
}

// Drain hands the queued swap to apply and clears it. It returns false when
// nothing is pending. apply runs with the manager unlocked, on the caller's
// (render) thread.
func (m *Manager) Drain(apply func(solids []caster.Solid)) bool {
	m.mu.Lock()
	if !m.hasPending {
		m.mu.Unlock()
		return false
	}
	solids := m.pending
	m.pending = nil
	m.hasPending = false
	// The swap carries its own frame; committing both together keeps the
	// render anchor in step with the solids it draws.
	if m.pendingProj != nil {
		m.projector = m.pendingProj
		m.pendingProj = nil
	}
	m.mu.Unlock()

	apply(solids)
	return true
}

// Close stops the debounce timer and cancels any in-flight fetch. Further
// settles are ignored.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
	}
	if m.cancel != nil {
		m.cancel()
	}
}
