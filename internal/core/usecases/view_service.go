package usecases

import "github.com/samirrijal/geoviz/internal/pkg/viewport"

// ViewService applies the configured camera envelope to view-state changes.
type ViewService struct {
	limits viewport.Limits
}

// NewViewService creates a ViewService. A zero Limits falls back to viewport.DefaultLimits.
func NewViewService(limits viewport.Limits) *ViewService {
	if limits == (viewport.Limits{}) {
		limits = viewport.DefaultLimits
	}
	return &ViewService{limits: limits}
}

// Constrain clamps st into the envelope.
func (s *ViewService) Constrain(st viewport.State) viewport.State {
	return s.limits.Constrain(st)
}

// Limits returns the envelope in use.
func (s *ViewService) Limits() viewport.Limits {
	return s.limits
}
