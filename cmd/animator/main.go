package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/geoviz/internal/adapters/nats"
	"github.com/samirrijal/geoviz/internal/adapters/postgres"
	"github.com/samirrijal/geoviz/internal/core/usecases"
	"github.com/samirrijal/geoviz/internal/pkg/config"
	"github.com/samirrijal/geoviz/internal/pkg/logging"
	"github.com/samirrijal/geoviz/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geoviz-animator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	flights := usecases.NewFlightService(postgres.NewFlightRepo(db), nil)
	animator := usecases.NewAnimator(flights, pub)

	interval := time.Duration(cfg.Animator.IntervalSeconds) * time.Second
	slog.Info("flight animator started", "interval", interval.String())

	if err := animator.Run(ctx, interval); err != nil && ctx.Err() == nil {
		slog.Error("animator stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("flight animator stopped")
}
