package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geoviz/internal/core/domain"
)

// FlightRepo implements ports.FlightRepository with pgx.
type FlightRepo struct {
	db *DB
}

// NewFlightRepo creates a new FlightRepo.
func NewFlightRepo(db *DB) *FlightRepo {
	return &FlightRepo{db: db}
}

const selectFlightSQL = `
	SELECT f.id, f.callsign,
	       o.code, o.name, ST_Y(o.location::geometry), ST_X(o.location::geometry),
	       d.code, d.name, ST_Y(d.location::geometry), ST_X(d.location::geometry),
	       f.departure_time, f.arrival_time, COALESCE(f.cruise_altitude_ft, 0)
	FROM flights f
	JOIN airports o ON o.code = f.origin_code
	JOIN airports d ON d.code = f.destination_code
`

// GetByID returns a flight with both endpoints resolved.
func (r *FlightRepo) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	f, err := scanFlight(r.db.Pool.QueryRow(ctx, selectFlightSQL+` WHERE f.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "flight", id)
	}
	return f, nil
}

// List returns every scheduled flight ordered by departure.
func (r *FlightRepo) List(ctx context.Context) ([]domain.Flight, error) {
	return r.query(ctx, selectFlightSQL+` ORDER BY f.departure_time, f.id`)
}

// ListActive returns flights with departure <= t < arrival.
func (r *FlightRepo) ListActive(ctx context.Context, t time.Time) ([]domain.Flight, error) {
	return r.query(ctx, selectFlightSQL+`
		WHERE f.departure_time <= $1 AND f.arrival_time > $1
		ORDER BY f.departure_time, f.id
	`, t)
}

func (r *FlightRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []domain.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(
		&f.ID, &f.Callsign,
		&f.Origin.Code, &f.Origin.Name, &f.Origin.Location.Lat, &f.Origin.Location.Lon,
		&f.Destination.Code, &f.Destination.Name, &f.Destination.Location.Lat, &f.Destination.Location.Lon,
		&f.DepartureTime, &f.ArrivalTime, &f.CruiseAltitude,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
