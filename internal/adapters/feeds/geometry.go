package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samirrijal/geoviz/internal/pkg/metrics"
)

// maxGeometryBytes caps the county boundary download.
const maxGeometryBytes = 64 << 20

// GeometryClient implements ports.GeometrySource for a static GeoJSON URL.
type GeometryClient struct {
	httpClient *http.Client
	url        string
}

// NewGeometryClient creates a client for the given GeoJSON URL.
func NewGeometryClient(url string, timeout time.Duration) *GeometryClient {
	return &GeometryClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// Fetch downloads the raw document.
func (c *GeometryClient) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := c.fetch(ctx)
	metrics.FeedFetchDuration.WithLabelValues("counties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeedFetchErrors.WithLabelValues("counties").Inc()
		return nil, err
	}
	return data, nil
}

func (c *GeometryClient) fetch(ctx context.Context) ([]byte, error) {
	body, err := get(ctx, c.httpClient, c.url)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(body)

	data, err := io.ReadAll(io.LimitReader(body, maxGeometryBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry: %w", err)
	}
	if len(data) > maxGeometryBytes {
		return nil, fmt.Errorf("geometry document exceeds %d bytes", maxGeometryBytes)
	}
	return data, nil
}
