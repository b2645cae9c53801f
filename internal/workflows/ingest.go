package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// IngestWorkflowID is the fixed ID of the cron ingest run; a second
	// start while one is scheduled is rejected by Temporal.
	IngestWorkflowID = "geoviz-earthquake-ingest"

	// GeometryWorkflowID is the fixed ID of the daily boundary refresh.
	GeometryWorkflowID = "geoviz-county-geometry"
)

// IngestEarthquakesWorkflow pulls the USGS feed into the store. It runs on
// a cron schedule; each run is independent.
func IngestEarthquakesWorkflow(ctx workflow.Context) (IngestResult, error) {
	logger := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	var res IngestResult
	if err := workflow.ExecuteActivity(ctx, "IngestEarthquakes").Get(ctx, &res); err != nil {
		logger.Error("earthquake ingest failed", "error", err)
		return res, err
	}

	logger.Info("earthquake ingest complete", "fetched", res.Fetched, "stored", res.Stored, "newest", res.Newest)
	return res, nil
}

// RefreshGeometryWorkflow reloads the county boundaries. A failed refresh
// leaves nothing cached, so the next request fetches on demand.
func RefreshGeometryWorkflow(ctx workflow.Context) (int, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 30 * time.Second,
			MaximumAttempts: 3,
		},
	})

	var size int
	if err := workflow.ExecuteActivity(ctx, "RefreshCountyGeometry").Get(ctx, &size); err != nil {
		return 0, err
	}
	workflow.GetLogger(ctx).Info("county geometry refreshed", "bytes", size)
	return size, nil
}
