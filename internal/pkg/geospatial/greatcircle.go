package geospatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DefaultCruiseAltitude is the cruise altitude in feet used when none is given.
const DefaultCruiseAltitude = 35000.0

// Climb and descent each take this share of the route.
const climbFraction = 0.15

// MotionState is the position and attitude of an entity moving along a great circle.
type MotionState struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Bearing   float64 `json:"bearing"`  // degrees in [0,360)
	Progress  float64 `json:"progress"` // fraction of the route flown
	Altitude  float64 `json:"altitude"` // feet
}

// Interpolate returns the point at fraction along the minor great-circle arc
// from (lat1, lon1) to (lat2, lon2). Coordinates are degrees. fraction is not
// clamped; values outside [0,1] extrapolate along the same circle.
func Interpolate(lat1, lon1, lat2, lon2, fraction float64) (lon, lat float64) {
	phi1, lambda1 := toRad(lat1), toRad(lon1)
	phi2, lambda2 := toRad(lat2), toRad(lon2)

	d := centralAngle(phi1, lambda1, phi2, lambda2)
	if d == 0 {
		return lon1, lat1
	}

	a := math.Sin((1-fraction)*d) / math.Sin(d)
	b := math.Sin(fraction*d) / math.Sin(d)

	x := a*math.Cos(phi1)*math.Cos(lambda1) + b*math.Cos(phi2)*math.Cos(lambda2)
	y := a*math.Cos(phi1)*math.Sin(lambda1) + b*math.Cos(phi2)*math.Sin(lambda2)
	z := a*math.Sin(phi1) + b*math.Sin(phi2)

	lat = toDeg(math.Atan2(z, math.Sqrt(x*x+y*y)))
	lon = toDeg(math.Atan2(y, x))
	return lon, lat
}

// Bearing returns the initial compass heading from the first point toward the
// second, in degrees clockwise from north within [0,360).
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	// geo.Bearing answers in [-180,180].
	deg := math.Mod(geo.Bearing(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})+360, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// EstimateAltitude models a climb-cruise-descent profile. The result ramps
// linearly from 0 to cruiseAltitude over the first 15% of progress, holds,
// and ramps back to 0 over the last 15%.
func EstimateAltitude(progress, cruiseAltitude float64) float64 {
	switch {
	case progress < climbFraction:
		return progress / climbFraction * cruiseAltitude
	case progress > 1-climbFraction:
		return (1 - progress) / climbFraction * cruiseAltitude
	default:
		return cruiseAltitude
	}
}

// Motion computes the full motion state for progress along the route.
// Bearing is the initial bearing from origin to destination.
func Motion(lat1, lon1, lat2, lon2, progress, cruiseAltitude float64) MotionState {
	lon, lat := Interpolate(lat1, lon1, lat2, lon2, progress)
	return MotionState{
		Longitude: lon,
		Latitude:  lat,
		Bearing:   Bearing(lat1, lon1, lat2, lon2),
		Progress:  progress,
		Altitude:  EstimateAltitude(progress, cruiseAltitude),
	}
}

// Path samples the arc at steps+1 evenly spaced fractions, both endpoints
// included. Each element is a [lon, lat] pair ready for a GeoJSON LineString.
func Path(lat1, lon1, lat2, lon2 float64, steps int) [][2]float64 {
	if steps < 1 {
		steps = 1
	}
	pts := make([][2]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		lon, lat := Interpolate(lat1, lon1, lat2, lon2, float64(i)/float64(steps))
		pts = append(pts, [2]float64{lon, lat})
	}
	return pts
}
