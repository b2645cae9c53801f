package usecases

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geoviz/internal/core/ports"
	"github.com/samirrijal/geoviz/internal/pkg/metrics"
	"github.com/samirrijal/geoviz/internal/pkg/telemetry"
)

// Animator publishes a position frame for every airborne flight on each tick.
type Animator struct {
	flights *FlightService
	events  ports.EventPublisher
	now     func() time.Time
}

// NewAnimator creates an Animator publishing through events.
func NewAnimator(flights *FlightService, events ports.EventPublisher) *Animator {
	return &Animator{flights: flights, events: events, now: time.Now}
}

// Tick publishes one frame and returns how many positions went out.
// A failed publish is logged and skipped; the next tick supersedes it.
func (a *Animator) Tick(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "Animator.Tick")
	defer span.End()

	positions, err := a.flights.Active(ctx, a.now().UTC())
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range positions {
		if err := a.events.PublishFlightPosition(ctx, &positions[i]); err != nil {
			slog.WarnContext(ctx, "publish flight position failed", "flight", positions[i].FlightID, "error", err)
			continue
		}
		published++
	}

	metrics.FlightPositionsPublished.Add(float64(published))
	span.SetAttributes(attribute.Int(telemetry.AttrFramesPublished, published))
	return published, nil
}

// Run ticks every interval until ctx is cancelled. The first frame goes out
// immediately.
func (a *Animator) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := a.Tick(ctx); err != nil {
			slog.ErrorContext(ctx, "animator tick failed", "error", err)
		} else {
			slog.DebugContext(ctx, "frame published", "positions", n)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
