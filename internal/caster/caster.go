// Package caster turns catalog records into scene-space shadow caster
// solids. Everything here is CPU-side; the scene package owns the upload.
package caster

import (
	"github.com/chewxy/math32"

	"github.com/urbancanopy/shadowcast/internal/engine/mesh"
	"github.com/urbancanopy/shadowcast/internal/treedata"
	"github.com/urbancanopy/shadowcast/pkg/geo"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// Kind tags a solid with the record type it came from.
type Kind int

const (
	KindTree Kind = iota
	KindBuilding
)

// String returns the metric label for the kind.
func (k Kind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindBuilding:
		return "building"
	}
	return "unknown"
}

// Solid is one renderable shadow caster: geometry in its own local frame
// (base at the origin) plus the scene-space position of that base.
type Solid struct {
	ID       string
	Kind     Kind
	Position vmath.Vec3
	Geometry mesh.Data

	// Height and Radius are the vertical extent and the horizontal
	// half-extent, kept for culling and the debug overlay.
	Height float32
	Radius float32

	Color [3]float32

	CastShadow    bool
	ReceiveShadow bool
}

var (
	trunkColor    = [3]float32{0.45, 0.33, 0.23}
	canopyColor   = [3]float32{0.22, 0.46, 0.24}
	buildingColor = [3]float32{0.63, 0.63, 0.66}
)

// Tree shape parameters. The trunk takes the lower part of the total height
// up to a cap; the canopy fills the rest with a mid-heavy disc stack.
const (
	trunkHeightFrac = 0.3
	trunkHeightCapM = 4.0
	trunkMinRadiusM = 0.05
	trunkTopTaper   = 0.7
	trunkSegments   = 8
	canopySegments  = 12
)

// canopyRatios scale the canopy's maximum radius per disc, bottom to top.
// The bulge sits just below the middle, like a broadleaf crown.
var canopyRatios = []float32{0.35, 0.80, 1.0, 0.88, 0.55, 0.22}

// maxBuildingSideM rejects footprints that are almost certainly data errors
// (a multipolygon collapsed to its hull, a mis-tagged relation).
const maxBuildingSideM = 400.0

// BuildTree converts a tree record into its trunk and canopy solids.
// Invalid records yield nil.
func BuildTree(p *geo.Projector, t treedata.Tree) []Solid {
	if !t.Valid() {
		return nil
	}

	pos := p.ToScene(t.Lon, t.Lat, 0)

	height := float32(t.Height)
	trunkH := height * trunkHeightFrac
	if trunkH > trunkHeightCapM {
		trunkH = trunkHeightCapM
	}

	// Girth is circumference in centimeters.
	trunkR := float32(t.Girth) / 100 / (2 * math32.Pi)
	if trunkR < trunkMinRadiusM {
		trunkR = trunkMinRadiusM
	}

	canopyH := height - trunkH
	canopyR := float32(t.Canopy) / 2

	radii := make([]float32, len(canopyRatios))
	for i, r := range canopyRatios {
		radii[i] = r * canopyR
	}

	return []Solid{
		{
			ID:         t.ID + "/trunk",
			Kind:       KindTree,
			Position:   pos,
			Geometry:   mesh.TaperedCylinder(trunkR, trunkR*trunkTopTaper, trunkH, trunkSegments),
			Height:     trunkH,
			Radius:     trunkR,
			Color:      trunkColor,
			CastShadow: true,
		},
		{
			ID:         t.ID + "/canopy",
			Kind:       KindTree,
			Position:   vmath.Vec3{X: pos.X, Y: pos.Y + trunkH, Z: pos.Z},
			Geometry:   mesh.DiscStack(radii, canopyH, canopySegments),
			Height:     canopyH,
			Radius:     canopyR,
			Color:      canopyColor,
			CastShadow: true,
		},
	}
}

// BuildBuilding converts a building record into an extruded box over the
// footprint's bounding rectangle. The bool is false when the record cannot
// produce a usable solid.
func BuildBuilding(p *geo.Projector, b treedata.Building) (Solid, bool) {
	if !b.Valid() {
		return Solid{}, false
	}

	minX := math32.Inf(1)
	maxX := math32.Inf(-1)
	minZ := math32.Inf(1)
	maxZ := math32.Inf(-1)
	for _, pt := range b.Ring {
		s := p.ToScene(pt[0], pt[1], 0)
		minX = math32.Min(minX, s.X)
		maxX = math32.Max(maxX, s.X)
		minZ = math32.Min(minZ, s.Z)
		maxZ = math32.Max(maxZ, s.Z)
	}

	width := maxX - minX
	depth := maxZ - minZ
	if width <= 0 || depth <= 0 {
		return Solid{}, false
	}
	if width > maxBuildingSideM || depth > maxBuildingSideM {
		return Solid{}, false
	}

	base := float32(b.MinHeight)
	height := float32(b.Height) - base

	return Solid{
		ID:            b.ID,
		Kind:          KindBuilding,
		Position:      vmath.Vec3{X: (minX + maxX) / 2, Y: base, Z: (minZ + maxZ) / 2},
		Geometry:      mesh.Box(width, height, depth),
		Height:        height,
		Radius:        math32.Max(width, depth) / 2,
		Color:         buildingColor,
		CastShadow:    true,
		ReceiveShadow: true,
	}, true
}

// BuildAll converts record batches into solids, skipping records that fail
// to build. skipped counts the dropped records per kind.
func BuildAll(p *geo.Projector, trees []treedata.Tree, buildings []treedata.Building) (solids []Solid, skippedTrees, skippedBuildings int) {
	solids = make([]Solid, 0, len(trees)*2+len(buildings))
	for _, t := range trees {
		s := BuildTree(p, t)
		if s == nil {
			skippedTrees++
			continue
		}
		solids = append(solids, s...)
	}
	for _, b := range buildings {
		s, ok := BuildBuilding(p, b)
		if !ok {
			skippedBuildings++
			continue
		}
		solids = append(solids, s)
	}
	return solids, skippedTrees, skippedBuildings
}
