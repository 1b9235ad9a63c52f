package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheet4riders/DataNantes/internal/opendata"
	"github.com/sheet4riders/DataNantes/internal/parking"
	"github.com/sheet4riders/DataNantes/internal/session"
)

type fakeFetcher struct {
	calls int
}

func (f *fakeFetcher) FetchAll(ctx context.Context) (opendata.Feeds, error) {
	f.calls++
	return opendata.Feeds{
		LotAvailability: []opendata.LotAvailability{
			{Name: "Parking Gare", Available: 50, Total: 100, LastUpdate: "2024-05-01T10:00:00+02:00"},
		},
		LotInfo: []opendata.LotInfo{
			{Name: "Parking Gare", Address: "5 rue de la Gare"},
			{Name: "Parking Commerce", Address: "rue du Commerce"},
		},
	}, nil
}

type fakeAssistant struct {
	answer string
	err    error
}

func (f *fakeAssistant) Ask(ctx context.Context, query, parkingData string, history []session.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestRouter(t *testing.T, a Assistant) (*chi.Mux, *session.Manager) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := parking.NewStore(&fakeFetcher{}, 5*time.Minute, logger)
	sessions := session.NewManager(logger)

	r := chi.NewRouter()
	NewHandler(store, a, sessions, logger).RegisterRoutes(r)
	return r, sessions
}

func postChat(t *testing.T, r http.Handler, req ChatRequest) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body)))

	var resp ChatResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	}
	return w, resp
}

func TestChatWithAssistant(t *testing.T) {
	r, sessions := newTestRouter(t, &fakeAssistant{answer: "Le parking Gare a 50 places libres."})

	w, resp := postChat(t, r, ChatRequest{Message: "où me garer près de la gare ?"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotEmpty(t, resp.SessionID)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "Le parking Gare a 50 places libres.", resp.Message)

	messages, ok := sessions.History(resp.SessionID)
	require.True(t, ok)
	// greeting + user + assistant
	require.Len(t, messages, 3)
	assert.Equal(t, "où me garer près de la gare ?", messages[1].Content)
}

func TestChatFallsBackOnAssistantError(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAssistant{err: fmt.Errorf("api down")})

	w, resp := postChat(t, r, ChatRequest{Message: "gare"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, resp.Fallback)
	assert.Contains(t, resp.Message, "Parking Gare")
	assert.NotContains(t, resp.Message, "Parking Commerce")
}

func TestChatKeepsSession(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAssistant{answer: "ok"})

	_, first := postChat(t, r, ChatRequest{Message: "bonjour"})
	_, second := postChat(t, r, ChatRequest{SessionID: first.SessionID, Message: "et ensuite ?"})

	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAssistant{answer: "ok"})

	w, _ := postChat(t, r, ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte("not json"))))
	assert.Equal(t, http.StatusBadRequest, w2.Code)
}

func TestParkingsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAssistant{answer: "ok"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/parkings", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var records []parking.Record
	require.NoError(t, json.NewDecoder(w.Body).Decode(&records))
	require.Len(t, records, 2)
	assert.Equal(t, "Parking Gare", records[0].Name)
	require.NotNil(t, records[0].Availability)
	assert.Equal(t, 50, records[0].Availability.AvailableSpaces)
}

func TestStatsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAssistant{answer: "ok"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Facilities)
	assert.Equal(t, 50, stats.AvailableSpaces)
	assert.InDelta(t, 50.0, stats.OccupancyRate, 0.001)
	assert.False(t, stats.LastUpdate.IsZero())
}

func TestRefreshEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := &fakeFetcher{}
	store := parking.NewStore(fetcher, time.Hour, logger)
	sessions := session.NewManager(logger)

	r := chi.NewRouter()
	NewHandler(store, &fakeAssistant{answer: "ok"}, sessions, logger).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/refresh", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, fetcher.calls)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/refresh", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, fetcher.calls, "refresh must bypass the TTL")
}

func TestSessionEndpoints(t *testing.T) {
	r, sessions := newTestRouter(t, &fakeAssistant{answer: "ok"})
	id, _ := sessions.Open("")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, session.Greeting, resp.Messages[0].Content)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+id+"/clear", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, session.ClearedGreeting, resp.Messages[0].Content)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
