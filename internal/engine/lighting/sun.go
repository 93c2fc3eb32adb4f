// Package lighting converts solar positions into the directional light the
// render passes consume.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/urbancanopy/shadowcast/pkg/solar"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// Directional is the sun as the shaders see it: a normalized direction TO
// the light in scene coordinates, a color and an intensity scalar.
type Directional struct {
	Direction vmath.Vec3
	Color     [3]float32
	Intensity float32
}

// ambientFloor keeps unlit faces readable regardless of sun intensity.
const ambientFloor = 0.25

// SunDirection converts solar altitude/azimuth (radians) to a scene-space
// direction pointing at the sun. The scene frame is x east, y up, z south;
// azimuth runs clockwise from north.
func SunDirection(altitudeRad, azimuthRad float64) vmath.Vec3 {
	alt := float32(altitudeRad)
	az := float32(azimuthRad)

	cosAlt := math32.Cos(alt)
	return vmath.Vec3{
		X: cosAlt * math32.Sin(az),
		Y: math32.Sin(alt),
		Z: -cosAlt * math32.Cos(az),
	}
}

// FromSolar builds the directional light for a computed sun position.
func FromSolar(s solar.Sun) Directional {
	return Directional{
		Direction: SunDirection(s.AltitudeRad, s.AzimuthRad),
		Color:     s.Color,
		Intensity: s.Intensity,
	}
}

// Ambient returns the ambient term for the current sun: a floor plus a share
// that follows daylight, so nights dim without going black.
func (d Directional) Ambient() float32 {
	return ambientFloor + 0.35*d.Intensity
}

// BelowHorizon reports whether the sun direction points at or below the
// ground plane, where the caster pass can be skipped entirely.
func (d Directional) BelowHorizon() bool {
	return d.Direction.Y <= 0
}
