package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/geoviz/internal/adapters/memory"
	"github.com/samirrijal/geoviz/internal/core/domain"
	"github.com/samirrijal/geoviz/internal/core/usecases"
	"github.com/samirrijal/geoviz/internal/pkg/colorscale"
	"github.com/samirrijal/geoviz/internal/pkg/timefilter"
)

func sampleQuakes() []domain.Earthquake {
	return []domain.Earthquake{
		{ID: "a", Depth: 10, Timestamp: "2024-01-01T10:00:00Z"},
		{ID: "b", Depth: 350, Timestamp: "2024-01-02T23:30:00Z"},
		{ID: "c", Depth: 700, Timestamp: "2024-01-03T00:00:01Z"},
	}
}

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	ts, ok := timefilter.ParseTimestamp(s)
	if !ok {
		t.Fatalf("bad timestamp %q", s)
	}
	return &ts
}

func TestEarthquakeService_List_FiltersAndColors(t *testing.T) {
	var gotSince time.Time
	repo := &mockQuakeRepo{
		listSinceFn: func(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
			gotSince = since
			return sampleQuakes(), nil
		},
	}
	svc := usecases.NewEarthquakeService(repo, nil, nil, nil)

	r := timefilter.Range{Start: mustTime(t, "2024-01-01"), End: mustTime(t, "2024-01-02")}
	markers, err := svc.List(context.Background(), r, colorscale.PaletteLinear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotSince.Equal(*r.Start) {
		t.Errorf("repo queried since %v, want %v", gotSince, *r.Start)
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	if markers[0].ID != "a" || markers[1].ID != "b" {
		t.Errorf("unexpected order: %s, %s", markers[0].ID, markers[1].ID)
	}
	if want := [4]uint8{255, 251, 0, 180}; markers[0].Color != want {
		t.Errorf("depth 10 color = %v, want %v", markers[0].Color, want)
	}
	if want := [4]uint8{255, 128, 0, 180}; markers[1].Color != want {
		t.Errorf("depth 350 color = %v, want %v", markers[1].Color, want)
	}
}

func TestEarthquakeService_List_EndOnlyWindow(t *testing.T) {
	var gotSince time.Time
	repo := &mockQuakeRepo{
		listSinceFn: func(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
			gotSince = since
			return sampleQuakes(), nil
		},
	}
	svc := usecases.NewEarthquakeService(repo, nil, nil, nil)

	r := timefilter.Range{End: mustTime(t, "2024-01-31")}
	if _, err := svc.List(context.Background(), r, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	if !gotSince.Equal(want) {
		t.Errorf("since = %v, want %v", gotSince, want)
	}
}

func TestEarthquakeService_List_NoBoundsKeepsAll(t *testing.T) {
	repo := &mockQuakeRepo{
		listSinceFn: func(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
			return sampleQuakes(), nil
		},
	}
	svc := usecases.NewEarthquakeService(repo, nil, nil, nil)

	markers, err := svc.List(context.Background(), timefilter.Range{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(markers))
	}
	// Default palette is multi-stop; depth 700 is its last stop.
	if want := [4]uint8{139, 0, 0, 180}; markers[2].Color != want {
		t.Errorf("depth 700 color = %v, want %v", markers[2].Color, want)
	}
}

func TestEarthquakeService_List_UnknownPalette(t *testing.T) {
	svc := usecases.NewEarthquakeService(&mockQuakeRepo{}, nil, nil, nil)
	_, err := svc.List(context.Background(), timefilter.Range{}, "viridis")
	if !errors.Is(err, domain.ErrUnknownPalette) {
		t.Fatalf("expected ErrUnknownPalette, got %v", err)
	}
}

func TestEarthquakeService_List_RepoError(t *testing.T) {
	repo := &mockQuakeRepo{
		listSinceFn: func(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
			return nil, errors.New("db down")
		},
	}
	svc := usecases.NewEarthquakeService(repo, nil, nil, nil)
	if _, err := svc.List(context.Background(), timefilter.Range{}, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestEarthquakeService_List_ReadThroughCache(t *testing.T) {
	calls := 0
	repo := &mockQuakeRepo{
		listSinceFn: func(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
			calls++
			return sampleQuakes(), nil
		},
	}
	svc := usecases.NewEarthquakeService(repo, memory.New(), nil, nil)

	r := timefilter.Range{Start: mustTime(t, "2024-01-01")}
	for i := 0; i < 3; i++ {
		markers, err := svc.List(context.Background(), r, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(markers) != 3 {
			t.Fatalf("call %d: expected 3 markers, got %d", i, len(markers))
		}
	}
	if calls != 1 {
		t.Errorf("repo called %d times, want 1", calls)
	}
}

func TestEarthquakeService_Color(t *testing.T) {
	svc := usecases.NewEarthquakeService(&mockQuakeRepo{}, nil, nil, nil)

	c, err := svc.Color(500, colorscale.PaletteMulti)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (colorscale.RGBA{180, 10, 30, 180}); c != want {
		t.Errorf("Color(500) = %v, want %v", c, want)
	}

	if _, err := svc.Color(10, "nope"); !errors.Is(err, domain.ErrUnknownPalette) {
		t.Errorf("expected ErrUnknownPalette, got %v", err)
	}
}

func TestEarthquakeService_Palettes(t *testing.T) {
	svc := usecases.NewEarthquakeService(&mockQuakeRepo{}, nil, nil, nil)
	names := svc.Palettes()
	if len(names) != 2 || names[0] != colorscale.PaletteLinear || names[1] != colorscale.PaletteMulti {
		t.Errorf("Palettes() = %v", names)
	}
}

func TestEarthquakeService_Ingest(t *testing.T) {
	var stored int
	repo := &mockQuakeRepo{
		upsertBatchFn: func(ctx context.Context, quakes []domain.Earthquake) error {
			stored = len(quakes)
			return nil
		},
	}
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := usecases.NewEarthquakeService(repo, nil, pub, nil)

	n, err := svc.Ingest(context.Background(), sampleQuakes())
	if err != nil {
		t.Fatalf("publish failures must not fail ingest: %v", err)
	}
	if n != 3 || stored != 3 {
		t.Errorf("n=%d stored=%d, want 3/3", n, stored)
	}
	if len(pub.quakes) != 3 {
		t.Errorf("published %d events, want 3", len(pub.quakes))
	}
}

func TestEarthquakeService_Ingest_Empty(t *testing.T) {
	repo := &mockQuakeRepo{
		upsertBatchFn: func(ctx context.Context, quakes []domain.Earthquake) error {
			t.Error("repo must not be called for an empty batch")
			return nil
		},
	}
	svc := usecases.NewEarthquakeService(repo, nil, nil, nil)
	if n, err := svc.Ingest(context.Background(), nil); n != 0 || err != nil {
		t.Errorf("Ingest(nil) = %d, %v", n, err)
	}
}

func TestEarthquakeService_Ingest_UpsertError(t *testing.T) {
	repo := &mockQuakeRepo{
		upsertBatchFn: func(ctx context.Context, quakes []domain.Earthquake) error {
			return errors.New("constraint violation")
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewEarthquakeService(repo, nil, pub, nil)
	if _, err := svc.Ingest(context.Background(), sampleQuakes()); err == nil {
		t.Fatal("expected error")
	}
	if len(pub.quakes) != 0 {
		t.Error("nothing should be published when the upsert fails")
	}
}

func TestEarthquakeService_Nearby(t *testing.T) {
	repo := &mockQuakeRepo{
		listSinceFn: func(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
			return []domain.Earthquake{
				{ID: "far", Depth: 5, Timestamp: "2024-01-01T00:00:00Z", Location: domain.GeoPoint{Lat: 35.7, Lon: 139.7}},
				{ID: "mid", Depth: 5, Timestamp: "2024-01-01T00:00:00Z", Location: domain.GeoPoint{Lat: 34.5, Lon: -118.0}},
				{ID: "near", Depth: 5, Timestamp: "2024-01-01T00:00:00Z", Location: domain.GeoPoint{Lat: 34.06, Lon: -118.25}},
			}, nil
		},
	}
	svc := usecases.NewEarthquakeService(repo, nil, nil, nil)

	markers, err := svc.Nearby(context.Background(), 34.05, -118.25, 100, timefilter.Range{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	if markers[0].ID != "near" || markers[1].ID != "mid" {
		t.Errorf("expected nearest first, got %s, %s", markers[0].ID, markers[1].ID)
	}
}

func TestEarthquakeService_Nearby_BadCoordinates(t *testing.T) {
	svc := usecases.NewEarthquakeService(&mockQuakeRepo{}, nil, nil, nil)
	if _, err := svc.Nearby(context.Background(), 91, 0, 10, timefilter.Range{}, ""); err == nil {
		t.Fatal("expected error for latitude 91")
	}
}
