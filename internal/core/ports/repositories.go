package ports

import (
	"context"
	"time"

	"github.com/samirrijal/geoviz/internal/core/domain"
)

// EarthquakeRepository persists earthquakes.
type EarthquakeRepository interface {
	UpsertBatch(ctx context.Context, quakes []domain.Earthquake) error
	GetByID(ctx context.Context, id string) (*domain.Earthquake, error)
	// ListSince returns events at or after since, newest first.
	ListSince(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error)
}

// FlightRepository persists airports and scheduled flights.
type FlightRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	// ListActive returns flights airborne at t.
	ListActive(ctx context.Context, t time.Time) ([]domain.Flight, error)
}
