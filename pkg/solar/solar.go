// Package solar computes the apparent position of the sun for a geographic
// location and instant, plus a derived light intensity and color for
// directional-light rendering.
package solar

import (
	"math"
	"time"
)

// Sun is the derived light state for one (lat, lon, time) input. It is a pure
// value: recomputed on demand, never mutated.
type Sun struct {
	// AltitudeRad is the elevation above the horizon in radians. Negative
	// below the horizon.
	AltitudeRad float64

	// AzimuthRad is measured clockwise from true north in radians.
	AzimuthRad float64

	// Intensity is the directional light strength in [NightFloor, 1]. It
	// ramps smoothly through twilight instead of stepping at the horizon.
	Intensity float32

	// Color is the light RGB, warm near the horizon and near-white high up.
	Color [3]float32
}

// NightFloor is the directional intensity kept after the sun has fully set.
// A small nonzero floor avoids a visible pop when shadows fade out.
const NightFloor = 0.04

// Twilight ramp bounds for the intensity curve, in radians of altitude.
// -6 degrees is civil twilight; by +14 degrees the sun is at full strength.
// The band is wide enough that intensity drifts gently between frames even
// when the sun crosses the horizon at its steepest.
const (
	rampLowRad  = -6.0 * math.Pi / 180.0
	rampHighRad = 14.0 * math.Pi / 180.0
)

const rad = math.Pi / 180.0

// Position returns the sun state for the given observer and UTC instant.
// Pure and deterministic; continuous in t.
func Position(lat, lon float64, t time.Time) Sun {
	d := toDays(t)
	phi := lat * rad
	lw := -lon * rad

	// Solar mean anomaly and ecliptic longitude.
	m := solarMeanAnomaly(d)
	l := eclipticLongitude(m)

	dec := declination(l)
	ra := rightAscension(l)

	h := siderealTime(d, lw) - ra

	altitude := math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h))

	// Azimuth measured from south, positive westward; shift to
	// clockwise-from-north and normalize to [0, 2π).
	azSouth := math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
	azimuth := math.Mod(azSouth+math.Pi, 2*math.Pi)
	if azimuth < 0 {
		azimuth += 2 * math.Pi
	}

	return Sun{
		AltitudeRad: altitude,
		AzimuthRad:  azimuth,
		Intensity:   intensityFor(altitude),
		Color:       colorFor(altitude),
	}
}

// intensityFor maps altitude onto [NightFloor, 1] with a smoothstep ramp
// across the twilight band.
func intensityFor(altitude float64) float32 {
	t := smoothstep(rampLowRad, rampHighRad, altitude)
	return float32(NightFloor + (1.0-NightFloor)*t)
}

// colorFor blends from a dim cool night tint through a warm horizon color to
// near-white daylight. Continuous in altitude.
func colorFor(altitude float64) [3]float32 {
	night := [3]float32{0.45, 0.52, 0.68}
	horizon := [3]float32{1.00, 0.62, 0.38}
	day := [3]float32{1.00, 0.98, 0.94}

	if altitude < 0 {
		// Night tint fades into the horizon color across twilight.
		t := float32(smoothstep(rampLowRad, 0, altitude))
		return lerp3(night, horizon, t)
	}
	// Warm horizon color whitens as the sun climbs.
	t := float32(smoothstep(0, 30*rad, altitude))
	return lerp3(horizon, day, t)
}

// --- astronomical core (J2000-day solar coordinates) ---

const (
	dayMs   = 1000 * 60 * 60 * 24
	j1970   = 2440588
	j2000   = 2451545
	obliqEc = 23.4397 * rad // obliquity of the ecliptic
)

func toDays(t time.Time) float64 {
	julian := float64(t.UnixMilli())/dayMs - 0.5 + j1970
	return julian - j2000
}

func solarMeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

func eclipticLongitude(m float64) float64 {
	// Equation of center plus perihelion of the Earth.
	c := rad * (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	p := rad * 102.9372
	return m + c + p + math.Pi
}

func declination(l float64) float64 {
	return math.Asin(math.Sin(l) * math.Sin(obliqEc))
}

func rightAscension(l float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(obliqEc), math.Cos(l))
}

func siderealTime(d, lw float64) float64 {
	return rad*(280.16+360.9856235*d) - lw
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}
