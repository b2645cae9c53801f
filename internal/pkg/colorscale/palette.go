package colorscale

import "sort"

// Palette names understood by Registry.
const (
	PaletteLinear = "linear"
	PaletteMulti  = "multi"
)

// Registry resolves palette names to gradients. The zero value is empty;
// use NewRegistry for one holding the reference palettes.
type Registry struct {
	palettes map[string]Gradient
	fallback string
}

// NewRegistry returns a registry with the linear and multi-stop palettes,
// defaulting to multi-stop.
func NewRegistry() *Registry {
	return &Registry{
		palettes: map[string]Gradient{
			PaletteLinear: Linear,
			PaletteMulti:  MultiStop,
		},
		fallback: PaletteMulti,
	}
}

// Register adds or replaces a named palette.
func (r *Registry) Register(name string, g Gradient) {
	if r.palettes == nil {
		r.palettes = make(map[string]Gradient)
	}
	r.palettes[name] = g
}

// Get looks up a palette. An empty name returns the default palette.
func (r *Registry) Get(name string) (Gradient, bool) {
	if name == "" {
		name = r.fallback
	}
	g, ok := r.palettes[name]
	return g, ok
}

// Names lists the registered palettes in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.palettes))
	for n := range r.palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
