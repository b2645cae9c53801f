package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geoviz/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// legacyRoutes are still served but announce their successors.
var legacyRoutes = []DeprecatedRoute{
	{
		Path:        "/v1/quakes",
		SunsetDate:  time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC),
		Alternative: "/v1/earthquakes",
	},
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Server spans
	app.Use(TracingMiddleware())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 600 requests per minute per IP; the globe polls active flights.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/ws"
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(DeprecationMiddleware(legacyRoutes))

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Earthquakes (static segments before :id)
	v1.Get("/earthquakes", withTimeout(ListEarthquakesHandler(deps)))
	v1.Get("/earthquakes/geojson", withTimeout(EarthquakesGeoJSONHandler(deps)))
	v1.Get("/earthquakes/nearby", withTimeout(NearbyEarthquakesHandler(deps)))
	v1.Get("/earthquakes/:id", withTimeout(GetEarthquakeHandler(deps)))
	v1.Get("/quakes", withTimeout(ListEarthquakesHandler(deps)))

	// Colors
	v1.Get("/colors/depth", DepthColorHandler(deps))
	v1.Get("/colors/palettes", ListPalettesHandler(deps))

	// Flights
	v1.Get("/flights", withTimeout(ListFlightsHandler(deps)))
	v1.Get("/flights/active", withTimeout(ActiveFlightsHandler(deps)))
	v1.Get("/flights/:id", withTimeout(GetFlightHandler(deps)))
	v1.Get("/flights/:id/position", withTimeout(FlightPositionHandler(deps)))
	v1.Get("/flights/:id/path", withTimeout(FlightPathHandler(deps)))

	// Camera
	v1.Post("/viewstate", ConstrainViewHandler(deps))
	v1.Get("/viewstate/limits", ViewLimitsHandler(deps))

	// Boundaries; the first fetch may be slow.
	v1.Get("/counties/geometry", timeout.NewWithContext(CountiesHandler(deps), 60*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}
