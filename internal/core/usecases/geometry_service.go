package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/geoviz/internal/core/ports"
	"github.com/samirrijal/geoviz/internal/pkg/metrics"
)

const countiesKey = "geometry:counties"

// GeometryService memoizes county boundary GeoJSON in the injected cache.
// A miss fetches from the source and overwrites the slot.
type GeometryService struct {
	source ports.GeometrySource
	cache  ports.CacheService
	ttl    int
}

// NewGeometryService creates a GeometryService. ttlSeconds <= 0 keeps entries for a day.
func NewGeometryService(source ports.GeometrySource, cache ports.CacheService, ttlSeconds int) *GeometryService {
	if ttlSeconds <= 0 {
		ttlSeconds = 86400
	}
	return &GeometryService{source: source, cache: cache, ttl: ttlSeconds}
}

// Counties returns the county FeatureCollection as raw GeoJSON.
func (s *GeometryService) Counties(ctx context.Context) ([]byte, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, countiesKey); err == nil && len(data) > 0 {
			metrics.CacheHits.WithLabelValues("counties").Inc()
			return data, nil
		}
		metrics.CacheMisses.WithLabelValues("counties").Inc()
	}

	if s.source == nil {
		return nil, fmt.Errorf("geometry source not configured")
	}
	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch county geometry: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode county geometry: %w", err)
	}
	slog.InfoContext(ctx, "county geometry loaded", "features", len(fc.Features), "bytes", len(data))

	if s.cache != nil {
		if err := s.cache.Set(ctx, countiesKey, data, s.ttl); err != nil {
			slog.WarnContext(ctx, "cache county geometry failed", "error", err)
		}
	}
	return data, nil
}

// Invalidate drops the cached geometry so the next call refetches it.
func (s *GeometryService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, countiesKey)
}
