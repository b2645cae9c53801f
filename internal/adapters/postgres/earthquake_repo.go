package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geoviz/internal/core/domain"
)

// EarthquakeRepo implements ports.EarthquakeRepository with pgx.
type EarthquakeRepo struct {
	db *DB
}

// NewEarthquakeRepo creates a new EarthquakeRepo.
func NewEarthquakeRepo(db *DB) *EarthquakeRepo {
	return &EarthquakeRepo{db: db}
}

const upsertQuakeSQL = `
	INSERT INTO earthquakes (id, place, magnitude, depth_km, location, event_time, tsunami, url)
	VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET place = EXCLUDED.place, magnitude = EXCLUDED.magnitude,
	    depth_km = EXCLUDED.depth_km, location = EXCLUDED.location,
	    event_time = EXCLUDED.event_time, tsunami = EXCLUDED.tsunami,
	    url = EXCLUDED.url, updated_at = now()
`

// UpsertBatch inserts or refreshes many events using pgx.Batch.
func (r *EarthquakeRepo) UpsertBatch(ctx context.Context, quakes []domain.Earthquake) error {
	batch := &pgx.Batch{}
	for _, q := range quakes {
		ts, err := time.Parse(time.RFC3339Nano, q.Timestamp)
		if err != nil {
			return fmt.Errorf("earthquake %s: bad timestamp %q: %w", q.ID, q.Timestamp, err)
		}
		batch.Queue(upsertQuakeSQL,
			q.ID, q.Place, q.Magnitude, q.Depth,
			q.Location.Lon, q.Location.Lat, ts, q.Tsunami, q.URL)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range quakes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

const selectQuakeSQL = `
	SELECT id, place, magnitude, depth_km,
	       ST_Y(location::geometry) as lat,
	       ST_X(location::geometry) as lon,
	       event_time, tsunami, COALESCE(url, '')
	FROM earthquakes
`

// GetByID returns an event by its feed ID.
func (r *EarthquakeRepo) GetByID(ctx context.Context, id string) (*domain.Earthquake, error) {
	q, err := scanQuake(r.db.Pool.QueryRow(ctx, selectQuakeSQL+` WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "earthquake", id)
	}
	return q, nil
}

// ListSince returns events at or after since, newest first.
func (r *EarthquakeRepo) ListSince(ctx context.Context, since time.Time, limit int) ([]domain.Earthquake, error) {
	rows, err := r.db.Pool.Query(ctx, selectQuakeSQL+`
		WHERE event_time >= $1
		ORDER BY event_time DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quakes []domain.Earthquake
	for rows.Next() {
		q, err := scanQuake(rows)
		if err != nil {
			return nil, err
		}
		quakes = append(quakes, *q)
	}
	return quakes, rows.Err()
}

func scanQuake(row pgx.Row) (*domain.Earthquake, error) {
	var (
		q  domain.Earthquake
		ts time.Time
	)
	if err := row.Scan(
		&q.ID, &q.Place, &q.Magnitude, &q.Depth,
		&q.Location.Lat, &q.Location.Lon,
		&ts, &q.Tsunami, &q.URL,
	); err != nil {
		return nil, err
	}
	q.Timestamp = ts.UTC().Format(time.RFC3339Nano)
	return &q, nil
}
