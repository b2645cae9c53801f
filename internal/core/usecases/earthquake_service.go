package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geoviz/internal/core/domain"
	"github.com/samirrijal/geoviz/internal/core/ports"
	"github.com/samirrijal/geoviz/internal/pkg/colorscale"
	"github.com/samirrijal/geoviz/internal/pkg/geospatial"
	"github.com/samirrijal/geoviz/internal/pkg/metrics"
	"github.com/samirrijal/geoviz/internal/pkg/telemetry"
	"github.com/samirrijal/geoviz/internal/pkg/timefilter"
)

var tracer = otel.Tracer("github.com/samirrijal/geoviz/internal/core/usecases")

const (
	defaultQuakeWindow = 30 * 24 * time.Hour
	maxQuakes          = 5000
	maxNearbyKm        = 2000.0
)

// EarthquakeService handles earthquake queries and ingestion.
type EarthquakeService struct {
	quakes   ports.EarthquakeRepository
	cache    ports.CacheService
	events   ports.EventPublisher
	palettes *colorscale.Registry
	window   time.Duration
	now      func() time.Time
}

// NewEarthquakeService creates a new EarthquakeService. cache and events may be nil.
func NewEarthquakeService(quakes ports.EarthquakeRepository, cache ports.CacheService, events ports.EventPublisher, palettes *colorscale.Registry) *EarthquakeService {
	if palettes == nil {
		palettes = colorscale.NewRegistry()
	}
	return &EarthquakeService{
		quakes:   quakes,
		cache:    cache,
		events:   events,
		palettes: palettes,
		window:   defaultQuakeWindow,
		now:      time.Now,
	}
}

// List returns colored markers for the events inside r. Without a start
// bound the 30 days leading up to the end bound (or now) are searched.
func (s *EarthquakeService) List(ctx context.Context, r timefilter.Range, palette string) ([]domain.QuakeMarker, error) {
	ctx, span := tracer.Start(ctx, "EarthquakeService.List")
	defer span.End()

	gradient, ok := s.palettes.Get(palette)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPalette, palette)
	}

	var since time.Time
	switch {
	case r.Start != nil:
		since = *r.Start
	case r.End != nil:
		since = timefilter.EndOfDayUTC(*r.End).Add(-s.window).Truncate(time.Minute)
	default:
		since = s.now().Add(-s.window).Truncate(time.Minute)
	}

	quakes, err := s.recent(ctx, since)
	if err != nil {
		return nil, err
	}

	filtered := timefilter.FilterByDateRange(quakes, r, domain.Earthquake.EventTimestamp)
	span.SetAttributes(
		attribute.Int("quakes.loaded", len(quakes)),
		attribute.Int("quakes.matched", len(filtered)),
	)

	markers := make([]domain.QuakeMarker, len(filtered))
	for i, q := range filtered {
		markers[i] = domain.QuakeMarker{Earthquake: q, Color: gradient.Color(q.Depth)}
	}
	return markers, nil
}

// Nearby returns the markers from List that lie within radiusKm of (lat, lon),
// nearest first.
func (s *EarthquakeService) Nearby(ctx context.Context, lat, lon, radiusKm float64, r timefilter.Range, palette string) ([]domain.QuakeMarker, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("coordinates out of range: %v, %v", lat, lon)
	}
	if radiusKm <= 0 || radiusKm > maxNearbyKm {
		radiusKm = maxNearbyKm
	}

	markers, err := s.List(ctx, r, palette)
	if err != nil {
		return nil, err
	}

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusKm)
	type hit struct {
		m    domain.QuakeMarker
		dist float64
	}
	var hits []hit
	for _, m := range markers {
		p := m.Location
		// Box prefilter; skipped near the poles or the antimeridian where it wraps.
		if minLat > -90 && maxLat < 90 && minLon > -180 && maxLon < 180 {
			if p.Lat < minLat || p.Lat > maxLat || p.Lon < minLon || p.Lon > maxLon {
				continue
			}
		}
		if d := geospatial.Haversine(lat, lon, p.Lat, p.Lon); d <= radiusKm {
			hits = append(hits, hit{m: m, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]domain.QuakeMarker, len(hits))
	for i, h := range hits {
		out[i] = h.m
	}
	return out, nil
}

// recent loads events since the given time, read-through cached for a minute.
func (s *EarthquakeService) recent(ctx context.Context, since time.Time) ([]domain.Earthquake, error) {
	cacheKey := fmt.Sprintf("quakes:since:%d", since.Unix())
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var quakes []domain.Earthquake
			if err := json.Unmarshal(data, &quakes); err == nil {
				metrics.CacheHits.WithLabelValues("quakes").Inc()
				return quakes, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("quakes").Inc()
	}

	quakes, err := s.quakes.ListSince(ctx, since, maxQuakes)
	if err != nil {
		return nil, fmt.Errorf("list earthquakes: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(quakes); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return quakes, nil
}

// GetByID returns a single earthquake.
func (s *EarthquakeService) GetByID(ctx context.Context, id string) (*domain.Earthquake, error) {
	return s.quakes.GetByID(ctx, id)
}

// Color returns the render color of depth on the named palette.
func (s *EarthquakeService) Color(depth float64, palette string) (colorscale.RGBA, error) {
	gradient, ok := s.palettes.Get(palette)
	if !ok {
		return colorscale.RGBA{}, fmt.Errorf("%w: %q", domain.ErrUnknownPalette, palette)
	}
	return gradient.Color(depth), nil
}

// Palettes lists the available palette names.
func (s *EarthquakeService) Palettes() []string {
	return s.palettes.Names()
}

// Ingest stores quakes and announces each one. Publish failures are logged
// and do not fail the ingest.
func (s *EarthquakeService) Ingest(ctx context.Context, quakes []domain.Earthquake) (int, error) {
	ctx, span := tracer.Start(ctx, "EarthquakeService.Ingest")
	defer span.End()

	if len(quakes) == 0 {
		return 0, nil
	}
	if err := s.quakes.UpsertBatch(ctx, quakes); err != nil {
		return 0, fmt.Errorf("upsert earthquakes: %w", err)
	}
	metrics.EarthquakesIngested.Add(float64(len(quakes)))
	span.SetAttributes(attribute.Int(telemetry.AttrQuakesIngested, len(quakes)))

	if s.events != nil {
		for i := range quakes {
			if err := s.events.PublishEarthquake(ctx, &quakes[i]); err != nil {
				slog.WarnContext(ctx, "publish earthquake failed", "id", quakes[i].ID, "error", err)
			}
		}
	}
	return len(quakes), nil
}
