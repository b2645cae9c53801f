package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/geoviz/internal/adapters/feeds"
	"github.com/samirrijal/geoviz/internal/adapters/http"
	"github.com/samirrijal/geoviz/internal/adapters/memory"
	natsadapter "github.com/samirrijal/geoviz/internal/adapters/nats"
	"github.com/samirrijal/geoviz/internal/adapters/postgres"
	"github.com/samirrijal/geoviz/internal/adapters/valkey"
	"github.com/samirrijal/geoviz/internal/core/ports"
	"github.com/samirrijal/geoviz/internal/core/usecases"
	"github.com/samirrijal/geoviz/internal/pkg/config"
	"github.com/samirrijal/geoviz/internal/pkg/logging"
	"github.com/samirrijal/geoviz/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geoviz-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	deps := &http.Dependencies{DB: db}

	// Cache; without Valkey each replica memoizes on its own.
	var cache ports.CacheService
	vk, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, using in-process cache", "error", err)
		cache = memory.New()
	} else {
		defer vk.Close()
		cache = vk
		deps.Cache = vk
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, live feed disabled", "error", err)
	} else {
		defer natsConn.Close()
		deps.NATS = natsConn
	}

	palettes, err := cfg.Palettes()
	if err != nil {
		log.Fatalf("palette: %v", err)
	}

	// Use cases
	deps.Earthquakes = usecases.NewEarthquakeService(postgres.NewEarthquakeRepo(db), cache, nil, palettes)
	deps.Flights = usecases.NewFlightService(postgres.NewFlightRepo(db), cache)
	deps.Views = usecases.NewViewService(cfg.Viewport)
	deps.Geometry = usecases.NewGeometryService(
		feeds.NewGeometryClient(cfg.Feeds.CountiesURL, time.Duration(cfg.Feeds.TimeoutSeconds)*time.Second),
		cache,
		cfg.Feeds.GeometryTTL,
	)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024, // view states and GraphQL queries are small
		AppName:      "GeoViz API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
