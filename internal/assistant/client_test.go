package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/sheet4riders/DataNantes/internal/session"
)

func newTestClient(baseURL, apiKey string) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(baseURL, apiKey, "claude-3-haiku-20240307", logger, otel.Tracer("test"), otel.Meter("test"))
}

func TestAskNoAPIKey(t *testing.T) {
	_, err := newTestClient("http://unused", "").Ask(context.Background(), "où me garer ?", "{}", nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestAsk(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("content-type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		fmt.Fprint(w, `{
			"id": "msg_1",
			"content": [{"type": "text", "text": "Le parking Gare a 50 places libres."}],
			"usage": {"input_tokens": 120, "output_tokens": 30}
		}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "test-key")
	c.now = func() time.Time {
		return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	}

	history := []session.Message{
		{Role: session.RoleAssistant, Content: session.Greeting},
		{Role: session.RoleUser, Content: "bonjour"},
	}

	answer, err := c.Ask(context.Background(), "où me garer près de la gare ?", `[{"nom":"Parking Gare"}]`, history)
	require.NoError(t, err)
	assert.Equal(t, "Le parking Gare a 50 places libres.", answer)

	assert.Equal(t, "claude-3-haiku-20240307", got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)

	assert.Contains(t, got.System, "parkings de Nantes Métropole")
	assert.Contains(t, got.System, "01/05/2024 à 10:30")
	assert.Contains(t, got.System, `"nom":"Parking Gare"`)

	require.Len(t, got.Messages, 3)
	assert.Equal(t, session.RoleAssistant, got.Messages[0].Role)
	assert.Equal(t, session.RoleUser, got.Messages[1].Role)
	assert.Equal(t, "où me garer près de la gare ?", got.Messages[2].Content)
}

func TestAskTruncatesHistory(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "ok"}]}`)
	}))
	defer srv.Close()

	var history []session.Message
	for i := 0; i < 15; i++ {
		history = append(history, session.Message{
			Role:    session.RoleUser,
			Content: fmt.Sprintf("question %d", i),
		})
	}

	_, err := newTestClient(srv.URL, "test-key").Ask(context.Background(), "dernière question", "{}", history)
	require.NoError(t, err)

	// 10 history messages plus the new question.
	require.Len(t, got.Messages, 11)
	assert.Equal(t, "question 5", got.Messages[0].Content)
	assert.Equal(t, "dernière question", got.Messages[10].Content)
}

func TestAskAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "test-key").Ask(context.Background(), "où me garer ?", "{}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error")
}

func TestAskEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": []}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "test-key").Ask(context.Background(), "où me garer ?", "{}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
