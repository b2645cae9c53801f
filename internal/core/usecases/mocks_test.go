package usecases_test

import (
	"context"
	"time"

	"github.com/samirrijal/geoviz/internal/core/domain"
)

// --- Mock EarthquakeRepository ---

type mockQuakeRepo struct {
	upsertBatchFn func(ctx context.Context, quakes []domain.Earthquake) error
	getByIDFn     func(ctx context.Context, id string) (*domain.Earthquake, error)
	listSinceFn   func(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error)
}

func (m *mockQuakeRepo) UpsertBatch(ctx context.Context, quakes []domain.Earthquake) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, quakes)
	}
	return nil
}

func (m *mockQuakeRepo) GetByID(ctx context.Context, id string) (*domain.Earthquake, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockQuakeRepo) ListSince(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
	if m.listSinceFn != nil {
		return m.listSinceFn(ctx, since, limit)
	}
	return nil, nil
}

// --- Mock FlightRepository ---

type mockFlightRepo struct {
	getByIDFn    func(ctx context.Context, id string) (*domain.Flight, error)
	listFn       func(ctx context.Context) ([]domain.Flight, error)
	listActiveFn func(ctx context.Context, t time.Time) ([]domain.Flight, error)
}

func (m *mockFlightRepo) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockFlightRepo) List(ctx context.Context) ([]domain.Flight, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockFlightRepo) ListActive(ctx context.Context, t time.Time) ([]domain.Flight, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, t)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	quakes    []string
	positions []string
	err       error
}

func (m *mockPublisher) PublishEarthquake(ctx context.Context, q *domain.Earthquake) error {
	m.quakes = append(m.quakes, q.ID)
	return m.err
}

func (m *mockPublisher) PublishFlightPosition(ctx context.Context, pos *domain.FlightPosition) error {
	m.positions = append(m.positions, pos.FlightID)
	return m.err
}

// --- Mock GeometrySource ---

type mockSource struct {
	calls int
	data  []byte
	err   error
}

func (m *mockSource) Fetch(ctx context.Context) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

// --- Fixtures ---

var (
	lax = domain.Airport{Code: "LAX", Name: "Los Angeles", Location: domain.GeoPoint{Lat: 34.0, Lon: -118.0}}
	jfk = domain.Airport{Code: "JFK", Name: "New York", Location: domain.GeoPoint{Lat: 40.6, Lon: -73.8}}
)

func testFlight() domain.Flight {
	dep := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Flight{
		ID:            "GV100",
		Callsign:      "GVZ100",
		Origin:        lax,
		Destination:   jfk,
		DepartureTime: dep,
		ArrivalTime:   dep.Add(5 * time.Hour),
	}
}
