package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geoviz/internal/adapters/postgres"
	"github.com/samirrijal/geoviz/internal/core/usecases"
)

// Pinger reports cache connectivity for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Earthquakes *usecases.EarthquakeService
	Flights     *usecases.FlightService
	Views       *usecases.ViewService
	Geometry    *usecases.GeometryService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       Pinger
}
