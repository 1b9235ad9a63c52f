// Package assistant calls the Anthropic messages API with the parking
// snapshot embedded in a French system prompt.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/sheet4riders/DataNantes/internal/session"
)

// ErrNoAPIKey is returned when no API key is configured; callers answer
// through the local keyword search instead.
var ErrNoAPIKey = errors.New("anthropic API key not configured")

// historyWindow caps how many past messages are sent with each question.
const historyWindow = 10

const (
	maxTokens   = 1000
	temperature = 0.7
)

// Client is an Anthropic messages API client.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter

	now func() time.Time
}

// NewClient creates a Client. baseURL is the API root, normally
// "https://api.anthropic.com".
func NewClient(baseURL, apiKey, model string, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
		now:        time.Now,
	}
}

// Ask sends the user question with the conversation history and the
// current parking payload, and returns the model's text reply. history
// must not include the question itself; only its last messages inside the
// history window are forwarded.
func (c *Client) Ask(ctx context.Context, query, parkingData string, history []session.Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	ctx, span := c.tracer.Start(ctx, "anthropic_api_call")
	defer span.End()

	start := time.Now()

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]Message, 0, len(history)+1)
	for _, msg := range history {
		role := session.RoleAssistant
		if msg.Role == session.RoleUser {
			role = session.RoleUser
		}
		messages = append(messages, Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, Message{Role: session.RoleUser, Content: query})

	reqBody := Request{
		Model:       c.model,
		System:      systemPrompt(c.now(), parkingData),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	var apiResp Response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	duration := time.Since(start)
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(duration.Milliseconds()))
	}

	c.recordUsage(ctx, apiResp.Usage)

	if len(apiResp.Content) > 0 {
		return apiResp.Content[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Anthropic")
}

// recordUsage records token usage counters from the API response.
func (c *Client) recordUsage(ctx context.Context, usage map[string]interface{}) {
	if usage == nil {
		return
	}

	for key, value := range usage {
		if intVal, ok := value.(float64); ok {
			counter, err := c.meter.Int64Counter(
				fmt.Sprintf("llm.usage.%s", key),
				metric.WithDescription(fmt.Sprintf("LLM usage metric: %s", key)),
			)
			if err != nil {
				c.logger.Warn("failed to create counter", "key", key, "error", err)
				continue
			}
			counter.Add(ctx, int64(intVal))
		}
	}
}
