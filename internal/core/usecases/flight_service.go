package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/samirrijal/geoviz/internal/core/domain"
	"github.com/samirrijal/geoviz/internal/core/ports"
	"github.com/samirrijal/geoviz/internal/pkg/geospatial"
)

const (
	defaultPathSteps = 64
	maxPathSteps     = 512
)

// FlightService animates scheduled flights along great-circle routes.
type FlightService struct {
	flights ports.FlightRepository
	cache   ports.CacheService
}

// NewFlightService creates a new FlightService. cache may be nil.
func NewFlightService(flights ports.FlightRepository, cache ports.CacheService) *FlightService {
	return &FlightService{flights: flights, cache: cache}
}

// List returns all scheduled flights.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.List(ctx)
}

// GetByID returns a single flight.
func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

// Position returns the flight's motion at the given progress, clamped to [0,1].
func (s *FlightService) Position(ctx context.Context, id string, progress float64) (*domain.FlightPosition, error) {
	f, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	progress = math.Min(math.Max(progress, 0), 1)
	at := f.DepartureTime.Add(time.Duration(progress * float64(f.ArrivalTime.Sub(f.DepartureTime))))
	pos := positionOf(f, progress, at)
	return &pos, nil
}

// PositionAt returns the flight's motion at wall-clock time t.
func (s *FlightService) PositionAt(ctx context.Context, id string, t time.Time) (*domain.FlightPosition, error) {
	f, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pos := positionOf(f, f.Progress(t), t)
	return &pos, nil
}

// Active returns positions for every flight airborne at t.
func (s *FlightService) Active(ctx context.Context, t time.Time) ([]domain.FlightPosition, error) {
	ctx, span := tracer.Start(ctx, "FlightService.Active")
	defer span.End()

	flights, err := s.flights.ListActive(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("list active flights: %w", err)
	}

	positions := make([]domain.FlightPosition, 0, len(flights))
	for i := range flights {
		// Schedules can change between the query and t.
		if !flights[i].Airborne(t) {
			continue
		}
		positions = append(positions, positionOf(&flights[i], flights[i].Progress(t), t))
	}
	return positions, nil
}

// Path samples the flight's great-circle arc with steps segments.
func (s *FlightService) Path(ctx context.Context, id string, steps int) (*domain.FlightPath, error) {
	if steps <= 0 {
		steps = defaultPathSteps
	}
	if steps > maxPathSteps {
		steps = maxPathSteps
	}

	cacheKey := fmt.Sprintf("flights:path:%s:%d", id, steps)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var path domain.FlightPath
			if err := json.Unmarshal(data, &path); err == nil {
				return &path, nil
			}
		}
	}

	f, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o, d := f.Origin.Location, f.Destination.Location
	pts := geospatial.Path(o.Lat, o.Lon, d.Lat, d.Lon, steps)
	path := &domain.FlightPath{
		FlightID:   f.ID,
		DistanceKm: geospatial.Haversine(o.Lat, o.Lon, d.Lat, d.Lon),
		Bounds:     boundsOf(pts),
		Path:       pts,
	}

	// Routes never change once scheduled.
	if s.cache != nil {
		if data, err := json.Marshal(path); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}
	return path, nil
}

func positionOf(f *domain.Flight, progress float64, at time.Time) domain.FlightPosition {
	cruise := f.CruiseAltitude
	if cruise <= 0 {
		cruise = geospatial.DefaultCruiseAltitude
	}
	o, d := f.Origin.Location, f.Destination.Location
	m := geospatial.Motion(o.Lat, o.Lon, d.Lat, d.Lon, progress, cruise)
	return domain.FlightPosition{
		FlightID:  f.ID,
		Callsign:  f.Callsign,
		Time:      at,
		Longitude: m.Longitude,
		Latitude:  m.Latitude,
		Bearing:   m.Bearing,
		Progress:  m.Progress,
		Altitude:  m.Altitude,
	}
}

func boundsOf(pts [][2]float64) domain.Bounds {
	b := domain.Bounds{MinLat: 90, MinLon: 180, MaxLat: -90, MaxLon: -180}
	for _, p := range pts {
		b.MinLon = math.Min(b.MinLon, p[0])
		b.MaxLon = math.Max(b.MaxLon, p[0])
		b.MinLat = math.Min(b.MinLat, p[1])
		b.MaxLat = math.Max(b.MaxLat, p[1])
	}
	return b
}
