// Package geo converts geographic coordinates into a local Cartesian scene
// frame suitable for single-precision rendering.
package geo

import (
	"math"

	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// Web Mercator constants.
const (
	maxLat   = 85.0511 // arctan(sinh(π))
	minLat   = -85.0511
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// earthCircumference is the equatorial circumference in meters.
	earthCircumference = 40075016.686
)

// ReanchorDistanceM is how far the map center may drift from the projector
// origin before the frame must be re-anchored. Beyond ~2 km the frozen
// meters-per-unit scale and float32 scene coordinates start to visibly drift.
const ReanchorDistanceM = 2000.0

// Projector maps lon/lat onto a local right-handed frame anchored at an
// origin: x grows east, y is elevation in meters, z grows south. The linear
// scale is frozen at the origin latitude, so accuracy degrades with distance;
// round trips are good to well under a centimeter inside ReanchorDistanceM.
type Projector struct {
	originLon float64
	originLat float64

	// Mercator coordinates of the origin in [0,1] world units.
	originMX float64
	originMY float64

	// Meters per Mercator world unit at the origin latitude.
	metersPerUnit float64
}

// NewProjector creates a projector anchored at the given origin.
func NewProjector(lon, lat float64) *Projector {
	lat = clampLat(lat)
	mx, my := mercator(lon, lat)
	return &Projector{
		originLon:     lon,
		originLat:     lat,
		originMX:      mx,
		originMY:      my,
		metersPerUnit: earthCircumference * math.Cos(lat*degToRad),
	}
}

// Origin returns the anchor coordinates.
func (p *Projector) Origin() (lon, lat float64) {
	return p.originLon, p.originLat
}

// ToScene converts a geographic position and elevation (meters) to scene
// coordinates. Cheap enough to call once per record per viewport refresh.
func (p *Projector) ToScene(lon, lat, elev float64) vmath.Vec3 {
	mx, my := mercator(lon, clampLat(lat))
	return vmath.Vec3{
		X: float32((mx - p.originMX) * p.metersPerUnit),
		Y: float32(elev),
		Z: float32((my - p.originMY) * p.metersPerUnit),
	}
}

// ToGeo converts scene-plane coordinates back to lon/lat.
func (p *Projector) ToGeo(x, z float32) (lon, lat float64) {
	mx := p.originMX + float64(x)/p.metersPerUnit
	my := p.originMY + float64(z)/p.metersPerUnit

	lon = mx*360.0 - 180.0
	lat = math.Atan(math.Sinh(math.Pi*(1-2*my))) * radToDeg
	return lon, lat
}

// NeedsReanchor reports whether the given map center has drifted far enough
// from the origin that the frame should be rebuilt at a new anchor.
func (p *Projector) NeedsReanchor(lon, lat float64) bool {
	return DistanceM(p.originLon, p.originLat, lon, lat) > ReanchorDistanceM
}

// MetersPerPixel returns the ground resolution of one screen pixel at the
// given latitude and fractional zoom level (256px tiles).
func MetersPerPixel(lat, zoom float64) float64 {
	return 156543.03392 * math.Cos(clampLat(lat)*degToRad) / math.Pow(2, zoom)
}

// DistanceM returns the approximate ground distance in meters between two
// geographic points. Equirectangular approximation, fine at city scale.
func DistanceM(lon1, lat1, lon2, lat2 float64) float64 {
	midLat := (lat1 + lat2) / 2 * degToRad
	dx := (lon2 - lon1) * degToRad * math.Cos(midLat)
	dy := (lat2 - lat1) * degToRad
	const earthRadius = 6371000.0
	return math.Hypot(dx, dy) * earthRadius
}

// mercator converts lon/lat to Web Mercator world coordinates in [0,1].
// x grows east, y grows south.
func mercator(lon, lat float64) (x, y float64) {
	x = (lon + 180.0) / 360.0

	if lat >= maxLat {
		return x, 0
	}
	if lat <= minLat {
		return x, 1
	}

	sinLat := math.Sin(lat * degToRad)
	y = 0.5 - 0.25*math.Log((1.0+sinLat)/(1.0-sinLat))/math.Pi
	return x, y
}

func clampLat(lat float64) float64 {
	if lat > maxLat {
		return maxLat
	}
	if lat < minLat {
		return minLat
	}
	return lat
}
