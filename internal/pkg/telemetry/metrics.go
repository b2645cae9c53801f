package telemetry

// Span attribute names for the data-freshness and business SLIs.
const (
	// Data freshness
	AttrQuakeFeedAge = "quakes.feed_age_seconds"

	// Business
	AttrQuakesIngested  = "business.quakes_ingested"
	AttrFramesPublished = "business.flight_frames_published"
)
