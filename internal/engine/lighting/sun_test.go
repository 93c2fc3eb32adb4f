package lighting

import (
	"math"
	"testing"

	"github.com/chewxy/math32"

	"github.com/urbancanopy/shadowcast/pkg/solar"
)

func TestSunDirectionCardinal(t *testing.T) {
	// Sun due south at 45 degrees: +z is south, so the direction leans +z.
	d := SunDirection(math.Pi/4, math.Pi)
	if d.Z < 0.5 || math32.Abs(d.X) > 1e-5 {
		t.Errorf("south sun direction = %+v", d)
	}
	if math32.Abs(d.Y-math32.Sqrt(2)/2) > 1e-5 {
		t.Errorf("45 degree sun should have y = sqrt(2)/2, got %f", d.Y)
	}

	// Sun due east on the horizon points straight +x.
	d = SunDirection(0, math.Pi/2)
	if math32.Abs(d.X-1) > 1e-5 || math32.Abs(d.Y) > 1e-5 || math32.Abs(d.Z) > 1e-5 {
		t.Errorf("east horizon sun direction = %+v", d)
	}

	// Sun due north points -z.
	d = SunDirection(0, 0)
	if math32.Abs(d.Z+1) > 1e-5 {
		t.Errorf("north sun direction = %+v", d)
	}
}

func TestSunDirectionNormalized(t *testing.T) {
	for az := 0.0; az < 2*math.Pi; az += 0.7 {
		for alt := -0.5; alt < 1.5; alt += 0.4 {
			d := SunDirection(alt, az)
			if l := d.Length(); math32.Abs(l-1) > 1e-5 {
				t.Fatalf("direction at alt=%f az=%f has length %f", alt, az, l)
			}
		}
	}
}

func TestFromSolarBelowHorizon(t *testing.T) {
	l := FromSolar(solar.Sun{AltitudeRad: -0.2, AzimuthRad: 1.0, Intensity: solar.NightFloor})
	if !l.BelowHorizon() {
		t.Error("negative altitude should report below horizon")
	}

	l = FromSolar(solar.Sun{AltitudeRad: 0.5, AzimuthRad: 1.0, Intensity: 1})
	if l.BelowHorizon() {
		t.Error("positive altitude should not report below horizon")
	}
}

func TestAmbientFollowsIntensity(t *testing.T) {
	night := Directional{Intensity: solar.NightFloor}
	noon := Directional{Intensity: 1}
	if night.Ambient() >= noon.Ambient() {
		t.Error("ambient should grow with sun intensity")
	}
	if night.Ambient() < ambientFloor {
		t.Error("ambient must never drop below the floor")
	}
}
