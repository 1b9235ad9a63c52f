// Package server provides the HTTP handlers for the chat API.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sheet4riders/DataNantes/internal/parking"
	"github.com/sheet4riders/DataNantes/internal/session"
)

// Assistant answers a user question given the parking payload and the
// prior conversation.
type Assistant interface {
	Ask(ctx context.Context, query, parkingData string, history []session.Message) (string, error)
}

// Handler wires the store, the assistant and the session manager into
// HTTP handlers.
type Handler struct {
	store     *parking.Store
	assistant Assistant
	sessions  *session.Manager
	logger    *slog.Logger
}

// NewHandler creates a Handler with its dependencies.
func NewHandler(store *parking.Store, assistant Assistant, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		assistant: assistant,
		sessions:  sessions,
		logger:    logger,
	}
}

// RegisterRoutes mounts the API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.handleChat)
	r.Get("/api/parkings", h.handleParkings)
	r.Get("/api/stats", h.handleStats)
	r.Post("/api/refresh", h.handleRefresh)
	r.Get("/api/sessions/{id}", h.handleSession)
	r.Post("/api/sessions/{id}/clear", h.handleClearSession)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
