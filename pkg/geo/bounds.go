package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// BoundAround returns a geographic bounding box centered on lon/lat spanning
// halfWidthM meters east-west and halfHeightM meters north-south from the
// center.
func BoundAround(lon, lat float64, halfWidthM, halfHeightM float64) orb.Bound {
	const metersPerDegree = 111319.9 // at the equator

	dLat := halfHeightM / metersPerDegree
	cosLat := math.Cos(clampLat(lat) * degToRad)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	dLon := halfWidthM / (metersPerDegree * cosLat)

	return orb.Bound{
		Min: orb.Point{lon - dLon, clampLat(lat - dLat)},
		Max: orb.Point{lon + dLon, clampLat(lat + dLat)},
	}
}

// PadBound expands a bound by the given number of meters on every side.
func PadBound(b orb.Bound, meters float64) orb.Bound {
	center := b.Center()
	padded := BoundAround(center[0], center[1], meters, meters)
	return orb.Bound{
		Min: orb.Point{b.Min[0] - (center[0] - padded.Min[0]), b.Min[1] - (center[1] - padded.Min[1])},
		Max: orb.Point{b.Max[0] + (padded.Max[0] - center[0]), b.Max[1] + (padded.Max[1] - center[1])},
	}
}

// BoundWidthM returns the east-west extent of a bound in meters, measured at
// its center latitude.
func BoundWidthM(b orb.Bound) float64 {
	center := b.Center()
	return DistanceM(b.Min[0], center[1], b.Max[0], center[1])
}

// BoundHeightM returns the north-south extent of a bound in meters.
func BoundHeightM(b orb.Bound) float64 {
	center := b.Center()
	return DistanceM(center[0], b.Min[1], center[0], b.Max[1])
}
