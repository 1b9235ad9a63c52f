// Package opendata fetches the Nantes Métropole parking datasets from the
// open-data explore API. All four datasets are public and unauthenticated.
package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Client queries the explore API records endpoint.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

// NewClient creates a Client for the given explore API root, e.g.
// "https://data.nantesmetropole.fr/api/explore/v2.1".
func NewClient(baseURL string, limit int, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		baseURL:    baseURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
	}
}

// envelope is the explore API response wrapper.
type envelope struct {
	TotalCount int             `json:"total_count"`
	Results    json.RawMessage `json:"results"`
}

// fetch retrieves one dataset and decodes its results array into out.
func (c *Client) fetch(ctx context.Context, dataset string, out any) error {
	ctx, span := c.tracer.Start(ctx, "opendata_fetch",
		trace.WithAttributes(attribute.String("dataset", dataset)))
	defer span.End()

	start := time.Now()

	url := fmt.Sprintf("%s/catalog/datasets/%s/records?limit=%d", c.baseURL, dataset, c.limit)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.Results == nil {
		return fmt.Errorf("unexpected response structure for %s", dataset)
	}
	if err := json.Unmarshal(env.Results, out); err != nil {
		return fmt.Errorf("failed to unmarshal results: %w", err)
	}

	duration := time.Since(start)
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(duration.Milliseconds()))
	}

	return nil
}

// FetchAll fetches the four parking datasets. Individual dataset failures
// are logged and leave an empty slice; an error is returned only when every
// dataset fails, so callers can keep serving a previous snapshot.
func (c *Client) FetchAll(ctx context.Context) (Feeds, error) {
	var feeds Feeds
	fetched := 0

	if err := c.fetch(ctx, DatasetLotAvailability, &feeds.LotAvailability); err != nil {
		c.logger.Warn("failed to fetch dataset", "dataset", DatasetLotAvailability, "error", err)
	} else {
		fetched++
	}

	if err := c.fetch(ctx, DatasetParkRideAvailability, &feeds.ParkRideAvailability); err != nil {
		c.logger.Warn("failed to fetch dataset", "dataset", DatasetParkRideAvailability, "error", err)
	} else {
		fetched++
	}

	if err := c.fetch(ctx, DatasetLotInfo, &feeds.LotInfo); err != nil {
		c.logger.Warn("failed to fetch dataset", "dataset", DatasetLotInfo, "error", err)
	} else {
		fetched++
	}

	if err := c.fetch(ctx, DatasetParkRideInfo, &feeds.ParkRideInfo); err != nil {
		c.logger.Warn("failed to fetch dataset", "dataset", DatasetParkRideInfo, "error", err)
	} else {
		fetched++
	}

	if fetched == 0 {
		return Feeds{}, fmt.Errorf("all parking datasets failed to fetch")
	}

	c.logger.Info("fetched parking data",
		"datasets", fetched,
		"lots", len(feeds.LotInfo),
		"park_and_rides", len(feeds.ParkRideInfo))

	return feeds, nil
}
