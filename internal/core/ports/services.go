package ports

import (
	"context"

	"github.com/samirrijal/geoviz/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishEarthquake(ctx context.Context, quake *domain.Earthquake) error
	PublishFlightPosition(ctx context.Context, pos *domain.FlightPosition) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EarthquakeFeed fetches the latest earthquakes from an upstream source.
type EarthquakeFeed interface {
	Fetch(ctx context.Context) ([]domain.Earthquake, error)
}

// GeometrySource fetches raw GeoJSON geometry.
type GeometrySource interface {
	Fetch(ctx context.Context) ([]byte, error)
}
