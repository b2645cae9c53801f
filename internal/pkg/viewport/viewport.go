// Package viewport keeps map camera states inside a projectable envelope.
package viewport

import "math"

// State describes a map camera. Pitch and Bearing are carried through
// Constrain untouched.
type State struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
}

// Limits is the envelope a State is clamped to.
type Limits struct {
	MinLongitude float64 `json:"min_longitude" mapstructure:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude" mapstructure:"max_longitude"`
	MinLatitude  float64 `json:"min_latitude" mapstructure:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude" mapstructure:"max_latitude"`
	MinZoom      float64 `json:"min_zoom" mapstructure:"min_zoom"`
	MaxZoom      float64 `json:"max_zoom" mapstructure:"max_zoom"`
}

// DefaultLimits stops latitude short of the poles, where Web Mercator diverges.
var DefaultLimits = Limits{
	MinLongitude: -180,
	MaxLongitude: 180,
	MinLatitude:  -85,
	MaxLatitude:  85,
	MinZoom:      0.5,
	MaxZoom:      20,
}

// Constrain clamps s to DefaultLimits.
func Constrain(s State) State {
	return DefaultLimits.Constrain(s)
}

// Constrain clamps longitude, latitude and zoom into l.
func (l Limits) Constrain(s State) State {
	out := s
	out.Longitude = clamp(s.Longitude, l.MinLongitude, l.MaxLongitude)
	out.Latitude = clamp(s.Latitude, l.MinLatitude, l.MaxLatitude)
	out.Zoom = clamp(s.Zoom, l.MinZoom, l.MaxZoom)
	return out
}

// Contains reports whether s already lies inside l.
func (l Limits) Contains(s State) bool {
	return s.Longitude >= l.MinLongitude && s.Longitude <= l.MaxLongitude &&
		s.Latitude >= l.MinLatitude && s.Latitude <= l.MaxLatitude &&
		s.Zoom >= l.MinZoom && s.Zoom <= l.MaxZoom
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
