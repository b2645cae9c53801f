// Package colorscale maps earthquake depth to a render color through an
// ordered table of color stops.
package colorscale

import (
	"errors"
	"fmt"
	"math"
)

// MaxDepth is the deepest depth in kilometres the reference palettes cover.
const MaxDepth = 700.0

// DefaultAlpha is the fixed opacity of every color a palette produces.
const DefaultAlpha uint8 = 180

// RGB is a color without opacity.
type RGB [3]uint8

// RGBA is a color with opacity, each channel 0-255.
type RGBA [4]uint8

// Stop anchors a color at a depth.
type Stop struct {
	Depth float64 `json:"depth" mapstructure:"depth"`
	Color RGB     `json:"color" mapstructure:"color"`
}

// Gradient interpolates linearly between ascending stops. Depths outside the
// table clamp to the nearest end stop.
type Gradient struct {
	Stops []Stop
	Alpha uint8
}

var (
	// Linear runs from yellow at the surface to red at MaxDepth.
	Linear = Gradient{
		Stops: []Stop{
			{Depth: 0, Color: RGB{255, 255, 0}},
			{Depth: MaxDepth, Color: RGB{255, 0, 0}},
		},
		Alpha: DefaultAlpha,
	}

	// MultiStop bands shallow (<70 km), intermediate (70-300 km) and deep
	// (>300 km) events.
	MultiStop = Gradient{
		Stops: []Stop{
			{Depth: 0, Color: RGB{255, 255, 0}},
			{Depth: 35, Color: RGB{255, 200, 0}},
			{Depth: 70, Color: RGB{255, 140, 0}},
			{Depth: 150, Color: RGB{255, 69, 0}},
			{Depth: 300, Color: RGB{220, 20, 60}},
			{Depth: MaxDepth, Color: RGB{139, 0, 0}},
		},
		Alpha: DefaultAlpha,
	}
)

// ErrNoStops is returned when a gradient is built without any stops.
var ErrNoStops = errors.New("colorscale: gradient needs at least one stop")

// NewGradient validates stops and returns a gradient over them.
func NewGradient(stops []Stop, alpha uint8) (Gradient, error) {
	if len(stops) == 0 {
		return Gradient{}, ErrNoStops
	}
	for i := 1; i < len(stops); i++ {
		if !(stops[i].Depth > stops[i-1].Depth) {
			return Gradient{}, fmt.Errorf("colorscale: stop %d depth %.2f not above %.2f", i, stops[i].Depth, stops[i-1].Depth)
		}
	}
	cp := make([]Stop, len(stops))
	copy(cp, stops)
	return Gradient{Stops: cp, Alpha: alpha}, nil
}

// Color returns the color for depth.
func (g Gradient) Color(depth float64) RGBA {
	if len(g.Stops) == 0 {
		return RGBA{0, 0, 0, g.Alpha}
	}

	first, last := g.Stops[0], g.Stops[len(g.Stops)-1]
	if depth <= first.Depth {
		return withAlpha(first.Color, g.Alpha)
	}
	if depth >= last.Depth {
		return withAlpha(last.Color, g.Alpha)
	}

	for i := 0; i < len(g.Stops)-1; i++ {
		lo, hi := g.Stops[i], g.Stops[i+1]
		if depth >= lo.Depth && depth <= hi.Depth {
			t := (depth - lo.Depth) / (hi.Depth - lo.Depth)
			return RGBA{
				lerp(lo.Color[0], hi.Color[0], t),
				lerp(lo.Color[1], hi.Color[1], t),
				lerp(lo.Color[2], hi.Color[2], t),
				g.Alpha,
			}
		}
	}

	// NaN depth.
	return withAlpha(last.Color, g.Alpha)
}

// DepthToColor colors depth on the two-stop Linear palette.
func DepthToColor(depth float64) RGBA {
	return Linear.Color(depth)
}

// DepthToColorMultiStop colors depth on the MultiStop palette.
func DepthToColorMultiStop(depth float64) RGBA {
	return MultiStop.Color(depth)
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func withAlpha(c RGB, alpha uint8) RGBA {
	return RGBA{c[0], c[1], c[2], alpha}
}
