package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geoviz/internal/core/domain"
	"github.com/samirrijal/geoviz/internal/core/ports"
	"github.com/samirrijal/geoviz/internal/core/usecases"
	"github.com/samirrijal/geoviz/internal/pkg/metrics"
	"github.com/samirrijal/geoviz/internal/pkg/telemetry"
)

var tracer = otel.Tracer("github.com/samirrijal/geoviz/internal/workflows")

// IngestResult summarises one feed pull. It stays small so it can travel
// as a workflow payload; the events themselves never leave the activity.
type IngestResult struct {
	Fetched        int
	Stored         int
	Newest         string  // timestamp of the newest event, "" when the feed was empty
	FeedAgeSeconds float64 // now minus Newest
}

// IngestActivities holds the activity implementations for the ingest workflows.
type IngestActivities struct {
	Feed        ports.EarthquakeFeed
	Earthquakes *usecases.EarthquakeService
	Geometry    *usecases.GeometryService
	Now         func() time.Time
}

func (a *IngestActivities) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// IngestEarthquakes pulls the upstream feed and upserts every event.
func (a *IngestActivities) IngestEarthquakes(ctx context.Context) (IngestResult, error) {
	ctx, span := tracer.Start(ctx, "IngestEarthquakes")
	defer span.End()

	quakes, err := a.Feed.Fetch(ctx)
	if err != nil {
		return IngestResult{}, fmt.Errorf("fetch earthquakes: %w", err)
	}

	res := IngestResult{Fetched: len(quakes)}
	if newest, ok := newestEvent(quakes); ok {
		res.Newest = newest.Format(time.RFC3339Nano)
		res.FeedAgeSeconds = a.now().Sub(newest).Seconds()
		metrics.QuakeFeedAge.Set(res.FeedAgeSeconds)
		span.SetAttributes(attribute.Float64(telemetry.AttrQuakeFeedAge, res.FeedAgeSeconds))
	}

	res.Stored, err = a.Earthquakes.Ingest(ctx, quakes)
	if err != nil {
		return res, err
	}

	slog.InfoContext(ctx, "earthquakes ingested",
		"fetched", res.Fetched,
		"stored", res.Stored,
		"feed_age_s", int(res.FeedAgeSeconds),
	)
	return res, nil
}

// RefreshCountyGeometry drops the memoized boundaries and loads them again.
// It returns the size of the new document in bytes.
func (a *IngestActivities) RefreshCountyGeometry(ctx context.Context) (int, error) {
	if a.Geometry == nil {
		return 0, fmt.Errorf("geometry service not configured")
	}
	if err := a.Geometry.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "invalidate county geometry failed", "error", err)
	}
	data, err := a.Geometry.Counties(ctx)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

func newestEvent(quakes []domain.Earthquake) (time.Time, bool) {
	var newest time.Time
	found := false
	for _, q := range quakes {
		t, err := time.Parse(time.RFC3339Nano, q.Timestamp)
		if err != nil {
			continue
		}
		if !found || t.After(newest) {
			newest, found = t, true
		}
	}
	return newest, found
}
