package usecases_test

import (
	"testing"

	"github.com/samirrijal/geoviz/internal/core/usecases"
	"github.com/samirrijal/geoviz/internal/pkg/viewport"
)

func TestViewService_DefaultLimits(t *testing.T) {
	svc := usecases.NewViewService(viewport.Limits{})
	if svc.Limits() != viewport.DefaultLimits {
		t.Errorf("Limits() = %+v, want defaults", svc.Limits())
	}

	got := svc.Constrain(viewport.State{Longitude: -200, Latitude: 89, Zoom: 25, Pitch: 40, Bearing: 12})
	want := viewport.State{Longitude: -180, Latitude: 85, Zoom: 20, Pitch: 40, Bearing: 12}
	if got != want {
		t.Errorf("Constrain = %+v, want %+v", got, want)
	}
}

func TestViewService_CustomLimits(t *testing.T) {
	limits := viewport.Limits{
		MinLongitude: -125, MaxLongitude: -66,
		MinLatitude: 24, MaxLatitude: 50,
		MinZoom: 3, MaxZoom: 12,
	}
	svc := usecases.NewViewService(limits)

	got := svc.Constrain(viewport.State{Longitude: 0, Latitude: 0, Zoom: 1})
	if got.Longitude != -66 || got.Latitude != 24 || got.Zoom != 3 {
		t.Errorf("Constrain = %+v", got)
	}
}
