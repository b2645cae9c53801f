package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/geoviz/internal/adapters/feeds"
	"github.com/samirrijal/geoviz/internal/adapters/memory"
	natsadapter "github.com/samirrijal/geoviz/internal/adapters/nats"
	"github.com/samirrijal/geoviz/internal/adapters/postgres"
	"github.com/samirrijal/geoviz/internal/adapters/valkey"
	"github.com/samirrijal/geoviz/internal/core/ports"
	"github.com/samirrijal/geoviz/internal/core/usecases"
	"github.com/samirrijal/geoviz/internal/pkg/config"
	"github.com/samirrijal/geoviz/internal/pkg/logging"
	"github.com/samirrijal/geoviz/internal/pkg/telemetry"
	"github.com/samirrijal/geoviz/internal/workflows"
)

func main() {
	once := flag.Bool("once", false, "ingest the feed a single time without Temporal and exit")
	flag.Parse()

	cfg, err := config.Load("geoviz-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx := context.Background()

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

	// New events fan out to live clients when NATS is up.
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events will not be published", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	var cache ports.CacheService
	vk, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, geometry refresh only warms this process", "error", err)
		cache = memory.New()
	} else {
		defer vk.Close()
		cache = vk
	}

	palettes, err := cfg.Palettes()
	if err != nil {
		log.Fatalf("palette: %v", err)
	}

	timeout := time.Duration(cfg.Feeds.TimeoutSeconds) * time.Second
	acts := &workflows.IngestActivities{
		Feed:        feeds.NewUSGSClient(cfg.Feeds.USGSURL, timeout),
		Earthquakes: usecases.NewEarthquakeService(postgres.NewEarthquakeRepo(db), cache, events, palettes),
		Geometry: usecases.NewGeometryService(
			feeds.NewGeometryClient(cfg.Feeds.CountiesURL, timeout),
			cache,
			cfg.Feeds.GeometryTTL,
		),
	}

	if *once {
		res, err := acts.IngestEarthquakes(ctx)
		if err != nil {
			log.Fatalf("ingest: %v", err)
		}
		slog.Info("ingest complete", "fetched", res.Fetched, "stored", res.Stored)
		return
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.IngestEarthquakesWorkflow)
	w.RegisterWorkflow(workflows.RefreshGeometryWorkflow)
	w.RegisterActivity(acts)

	schedule(ctx, c, cfg.Temporal.TaskQueue, workflows.IngestWorkflowID, cfg.Temporal.IngestCron, workflows.IngestEarthquakesWorkflow)
	schedule(ctx, c, cfg.Temporal.TaskQueue, workflows.GeometryWorkflowID, cfg.Temporal.GeometryCron, workflows.RefreshGeometryWorkflow)

	slog.Info("ingest worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// schedule starts a cron workflow under a fixed ID. A run that is already
// scheduled is left alone.
func schedule(ctx context.Context, c client.Client, queue, id, cron string, wf interface{}) {
	if cron == "" {
		slog.Info("workflow schedule disabled", "workflow", id)
		return
	}

	_, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           id,
		TaskQueue:    queue,
		CronSchedule: cron,
	}, wf)

	var started *serviceerror.WorkflowExecutionAlreadyStarted
	switch {
	case err == nil:
		slog.Info("workflow scheduled", "workflow", id, "cron", cron)
	case errors.As(err, &started):
		slog.Info("workflow already scheduled", "workflow", id)
	default:
		slog.Error("schedule workflow failed", "workflow", id, "error", err)
	}
}
