package geospatial

import (
	"math"
	"testing"
)

const tol = 1e-4

func TestInterpolate_Endpoints(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"LAX-JFK", 33.9425, -118.4085, 40.6413, -73.7781},
		{"LHR-SYD", 51.47, -0.4543, -33.9399, 151.1753},
		{"equator", 0, 0, 0, 90},
		{"near pole", 80, 10, 85, -170},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lon, lat := Interpolate(c.lat1, c.lon1, c.lat2, c.lon2, 0)
			if math.Abs(lon-c.lon1) > tol || math.Abs(lat-c.lat1) > tol {
				t.Errorf("fraction 0 = (%.6f, %.6f), want (%.6f, %.6f)", lon, lat, c.lon1, c.lat1)
			}
			lon, lat = Interpolate(c.lat1, c.lon1, c.lat2, c.lon2, 1)
			if math.Abs(lon-c.lon2) > tol || math.Abs(lat-c.lat2) > tol {
				t.Errorf("fraction 1 = (%.6f, %.6f), want (%.6f, %.6f)", lon, lat, c.lon2, c.lat2)
			}
		})
	}
}

func TestInterpolate_CoincidentPoints(t *testing.T) {
	for _, f := range []float64{0, 0.3, 0.5, 1, 1.7} {
		lon, lat := Interpolate(43.26, -2.93, 43.26, -2.93, f)
		if lon != -2.93 || lat != 43.26 {
			t.Errorf("fraction %.1f: got (%v, %v), want origin", f, lon, lat)
		}
	}
}

func TestInterpolate_LAXToJFKMidpoint(t *testing.T) {
	lon, lat := Interpolate(33.9425, -118.4085, 40.6413, -73.7781, 0.5)

	if lon <= -118.4085 || lon >= -73.7781 {
		t.Errorf("midpoint longitude %.4f outside endpoint range", lon)
	}
	if lat <= 33.9425 || lat >= 40.6413 {
		t.Errorf("midpoint latitude %.4f outside endpoint range", lat)
	}

	// Equal arc lengths either side of the midpoint.
	d1 := Haversine(33.9425, -118.4085, lat, lon)
	d2 := Haversine(lat, lon, 40.6413, -73.7781)
	if math.Abs(d1-d2) > 0.01 {
		t.Errorf("midpoint not equidistant: %.3f km vs %.3f km", d1, d2)
	}
}

func TestInterpolate_StaysOnArc(t *testing.T) {
	// Distances along the arc add up to the full route length.
	lat1, lon1, lat2, lon2 := 51.47, -0.4543, 40.6413, -73.7781
	total := Haversine(lat1, lon1, lat2, lon2)

	for _, f := range []float64{0.1, 0.25, 0.6, 0.9} {
		lon, lat := Interpolate(lat1, lon1, lat2, lon2, f)
		a := Haversine(lat1, lon1, lat, lon)
		b := Haversine(lat, lon, lat2, lon2)
		if math.Abs(a+b-total) > 0.01 {
			t.Errorf("fraction %.2f: %.3f + %.3f != %.3f km", f, a, b, total)
		}
		if math.Abs(a-f*total) > 0.01 {
			t.Errorf("fraction %.2f: travelled %.3f km, want %.3f", f, a, f*total)
		}
	}
}

func TestBearing_Cardinal(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"east", 0, 0, 0, 10, 90},
		{"north", 0, 0, 10, 0, 0},
		{"west", 0, 0, 0, -10, 270},
		{"south", 0, 0, -10, 0, 180},
	}
	for _, c := range cases {
		got := Bearing(c.lat1, c.lon1, c.lat2, c.lon2)
		if math.Abs(got-c.want) > 1e-6 {
			t.Errorf("%s: bearing = %.6f, want %.1f", c.name, got, c.want)
		}
	}
}

func TestBearing_Range(t *testing.T) {
	for lat1 := -80.0; lat1 <= 80; lat1 += 40 {
		for lon1 := -170.0; lon1 <= 170; lon1 += 85 {
			for lat2 := -80.0; lat2 <= 80; lat2 += 40 {
				for lon2 := -170.0; lon2 <= 170; lon2 += 85 {
					b := Bearing(lat1, lon1, lat2, lon2)
					if b < 0 || b >= 360 {
						t.Fatalf("bearing(%v,%v,%v,%v) = %v out of [0,360)", lat1, lon1, lat2, lon2, b)
					}
				}
			}
		}
	}
}

func TestBearing_WestwardWraps(t *testing.T) {
	// JFK to LAX heads west of north, which must come back above 180.
	b := Bearing(40.6413, -73.7781, 33.9425, -118.4085)
	if b < 180 || b >= 360 {
		t.Fatalf("JFK->LAX bearing = %.4f, want within [180,360)", b)
	}
	if math.Abs(b-273.84) > 0.05 {
		t.Errorf("JFK->LAX bearing = %.4f, want about 273.84", b)
	}
}

func TestEstimateAltitude_Profile(t *testing.T) {
	cruise := DefaultCruiseAltitude

	if got := EstimateAltitude(0, cruise); got != 0 {
		t.Errorf("altitude at 0 = %v, want 0", got)
	}
	if got := EstimateAltitude(1, cruise); got != 0 {
		t.Errorf("altitude at 1 = %v, want 0", got)
	}
	if got := EstimateAltitude(0.5, cruise); got != cruise {
		t.Errorf("altitude at 0.5 = %v, want %v", got, cruise)
	}

	const eps = 1e-9
	for _, edge := range []float64{0.15, 0.85} {
		below := EstimateAltitude(edge-eps, cruise)
		above := EstimateAltitude(edge+eps, cruise)
		if math.Abs(below-above) > 1e-3 {
			t.Errorf("discontinuity at %.2f: %.6f vs %.6f", edge, below, above)
		}
	}
}

func TestEstimateAltitude_CustomCruise(t *testing.T) {
	if got := EstimateAltitude(0.075, 10000); math.Abs(got-5000) > 1e-9 {
		t.Errorf("mid-climb altitude = %v, want 5000", got)
	}
	if got := EstimateAltitude(0.925, 10000); math.Abs(got-5000) > 1e-9 {
		t.Errorf("mid-descent altitude = %v, want 5000", got)
	}
}

func TestMotion(t *testing.T) {
	m := Motion(33.9425, -118.4085, 40.6413, -73.7781, 0.5, DefaultCruiseAltitude)
	if m.Progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", m.Progress)
	}
	if m.Altitude != DefaultCruiseAltitude {
		t.Errorf("altitude = %v, want cruise", m.Altitude)
	}
	want := Bearing(33.9425, -118.4085, 40.6413, -73.7781)
	if m.Bearing != want {
		t.Errorf("bearing = %v, want initial bearing %v", m.Bearing, want)
	}
	if m.Bearing < 45 || m.Bearing > 90 {
		t.Errorf("LAX->JFK bearing %.2f should point north-east", m.Bearing)
	}
}

func TestPath(t *testing.T) {
	pts := Path(0, 0, 0, 90, 4)
	if len(pts) != 5 {
		t.Fatalf("expected 5 points, got %d", len(pts))
	}
	for i, p := range pts {
		wantLon := float64(i) * 22.5
		if math.Abs(p[0]-wantLon) > tol || math.Abs(p[1]) > tol {
			t.Errorf("point %d = %v, want [%.1f 0]", i, p, wantLon)
		}
	}

	if got := Path(0, 0, 0, 90, 0); len(got) != 2 {
		t.Errorf("steps < 1 should still return both endpoints, got %d points", len(got))
	}
}

func TestHaversine(t *testing.T) {
	// One degree of longitude at the equator.
	d := Haversine(0, 0, 0, 1)
	if math.Abs(d-111.195) > 0.01 {
		t.Errorf("1 degree at equator = %.3f km, want ~111.195", d)
	}
}
