package colorscale

import (
	"errors"
	"math"
	"testing"
)

func TestDepthToColor_Endpoints(t *testing.T) {
	if got := DepthToColor(0); got != (RGBA{255, 255, 0, 180}) {
		t.Errorf("DepthToColor(0) = %v, want yellow", got)
	}
	if got := DepthToColor(700); got != (RGBA{255, 0, 0, 180}) {
		t.Errorf("DepthToColor(700) = %v, want red", got)
	}
	if got, want := DepthToColor(1000), DepthToColor(700); got != want {
		t.Errorf("DepthToColor(1000) = %v, want clamp to %v", got, want)
	}
}

func TestDepthToColor_GreenOnlyChannel(t *testing.T) {
	prev := DepthToColor(0)
	for d := 10.0; d <= 700; d += 10 {
		c := DepthToColor(d)
		if c[0] != 255 || c[2] != 0 || c[3] != 180 {
			t.Fatalf("depth %.0f: only green should vary, got %v", d, c)
		}
		if c[1] > prev[1] {
			t.Fatalf("depth %.0f: green increased from %d to %d", d, prev[1], c[1])
		}
		prev = c
	}

	mid := DepthToColor(350)
	if mid[1] != 128 {
		t.Errorf("midpoint green = %d, want 128", mid[1])
	}
}

func TestDepthToColorMultiStop_ExactAtStops(t *testing.T) {
	for _, s := range MultiStop.Stops {
		got := DepthToColorMultiStop(s.Depth)
		want := RGBA{s.Color[0], s.Color[1], s.Color[2], 180}
		if got != want {
			t.Errorf("depth %.0f: got %v, want %v", s.Depth, got, want)
		}
	}
}

func TestDepthToColorMultiStop_Clamps(t *testing.T) {
	if got := DepthToColorMultiStop(-5); got != (RGBA{255, 255, 0, 180}) {
		t.Errorf("below first stop = %v, want first stop color", got)
	}
	if got := DepthToColorMultiStop(5000); got != (RGBA{139, 0, 0, 180}) {
		t.Errorf("above last stop = %v, want dark red", got)
	}
}

func TestDepthToColorMultiStop_Interpolates(t *testing.T) {
	// Halfway between 300 (220,20,60) and 700 (139,0,0).
	got := DepthToColorMultiStop(500)
	want := RGBA{180, 10, 30, 180}
	if got != want {
		t.Errorf("depth 500 = %v, want %v", got, want)
	}
}

func TestGradient_AlphaFixed(t *testing.T) {
	for _, d := range []float64{-10, 0, 12.5, 70, 699, 700, 9999, math.NaN()} {
		if a := DepthToColorMultiStop(d)[3]; a != DefaultAlpha {
			t.Errorf("depth %v: alpha = %d, want %d", d, a, DefaultAlpha)
		}
	}
}

func TestNewGradient_Validation(t *testing.T) {
	if _, err := NewGradient(nil, 255); !errors.Is(err, ErrNoStops) {
		t.Errorf("expected ErrNoStops, got %v", err)
	}

	_, err := NewGradient([]Stop{{Depth: 0}, {Depth: 10}, {Depth: 10}}, 255)
	if err == nil {
		t.Error("expected error for non-increasing stops")
	}

	g, err := NewGradient([]Stop{
		{Depth: 0, Color: RGB{0, 0, 0}},
		{Depth: 100, Color: RGB{200, 100, 50}},
	}, 255)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := g.Color(50); got != (RGBA{100, 50, 25, 255}) {
		t.Errorf("custom gradient midpoint = %v", got)
	}
}

func TestNewGradient_CopiesStops(t *testing.T) {
	stops := []Stop{{Depth: 0, Color: RGB{1, 1, 1}}, {Depth: 1, Color: RGB{2, 2, 2}}}
	g, err := NewGradient(stops, 255)
	if err != nil {
		t.Fatal(err)
	}
	stops[0].Color = RGB{9, 9, 9}
	if g.Stops[0].Color != (RGB{1, 1, 1}) {
		t.Error("gradient should not alias caller's stops")
	}
}

func TestGradient_SingleStop(t *testing.T) {
	g := Gradient{Stops: []Stop{{Depth: 10, Color: RGB{5, 6, 7}}}, Alpha: 9}
	for _, d := range []float64{0, 10, 20} {
		if got := g.Color(d); got != (RGBA{5, 6, 7, 9}) {
			t.Errorf("depth %v = %v", d, got)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	g, ok := r.Get("")
	if !ok || len(g.Stops) != len(MultiStop.Stops) {
		t.Error("empty name should resolve to the multi-stop palette")
	}
	if _, ok := r.Get(PaletteLinear); !ok {
		t.Error("linear palette missing")
	}
	if _, ok := r.Get("viridis"); ok {
		t.Error("unknown palette should not resolve")
	}

	r.Register("mono", Gradient{Stops: []Stop{{Depth: 0}}, Alpha: 1})
	names := r.Names()
	if len(names) != 3 || names[0] != PaletteLinear || names[1] != "mono" {
		t.Errorf("names = %v", names)
	}
}
