package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samirrijal/geoviz/internal/core/domain"
	"github.com/samirrijal/geoviz/internal/pkg/metrics"
)

// Feed: https://earthquake.usgs.gov/earthquakes/feed/v1.0/geojson.php
type usgsFeed struct {
	Type     string        `json:"type"`
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag     *float64 `json:"mag"`
		Place   string   `json:"place"`
		Time    int64    `json:"time"` // ms since epoch
		Tsunami int      `json:"tsunami"`
		URL     string   `json:"url"`
	} `json:"properties"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"` // lon, lat, depth km
	} `json:"geometry"`
}

// USGSClient implements ports.EarthquakeFeed against a USGS GeoJSON summary feed.
type USGSClient struct {
	httpClient *http.Client
	url        string
}

// NewUSGSClient creates a client for the given summary feed URL.
func NewUSGSClient(url string, timeout time.Duration) *USGSClient {
	return &USGSClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// Fetch downloads the feed and converts each point feature. Features
// without a magnitude or with malformed coordinates are skipped.
func (c *USGSClient) Fetch(ctx context.Context) ([]domain.Earthquake, error) {
	start := time.Now()
	quakes, err := c.fetch(ctx)
	metrics.FeedFetchDuration.WithLabelValues("usgs").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeedFetchErrors.WithLabelValues("usgs").Inc()
		return nil, err
	}
	return quakes, nil
}

func (c *USGSClient) fetch(ctx context.Context) ([]domain.Earthquake, error) {
	body, err := get(ctx, c.httpClient, c.url)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(body)

	var feed usgsFeed
	if err := json.NewDecoder(body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode usgs feed: %w", err)
	}
	if feed.Type != "FeatureCollection" {
		return nil, fmt.Errorf("usgs feed: unexpected type %q", feed.Type)
	}

	quakes := make([]domain.Earthquake, 0, len(feed.Features))
	for _, f := range feed.Features {
		q, ok := toEarthquake(f)
		if !ok {
			continue
		}
		quakes = append(quakes, q)
	}
	return quakes, nil
}

func toEarthquake(f usgsFeature) (domain.Earthquake, bool) {
	g := f.Geometry
	if f.ID == "" || g.Type != "Point" || len(g.Coordinates) < 3 || f.Properties.Mag == nil {
		return domain.Earthquake{}, false
	}
	return domain.Earthquake{
		ID:        f.ID,
		Place:     f.Properties.Place,
		Magnitude: *f.Properties.Mag,
		Depth:     g.Coordinates[2],
		Location:  domain.GeoPoint{Lat: g.Coordinates[1], Lon: g.Coordinates[0]},
		Timestamp: time.UnixMilli(f.Properties.Time).UTC().Format(time.RFC3339Nano),
		Tsunami:   f.Properties.Tsunami != 0,
		URL:       f.Properties.URL,
	}, true
}

// get issues a GET and returns the body of a 200 response.
func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp.Body, nil
}
