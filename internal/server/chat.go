package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sheet4riders/DataNantes/internal/assistant"
	"github.com/sheet4riders/DataNantes/internal/parking"
	"github.com/sheet4riders/DataNantes/internal/session"
)

// ChatRequest is an incoming chat message. An empty session_id starts a
// new conversation.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the assistant's answer. Fallback is true when the local
// keyword search answered instead of the LLM.
type ChatResponse struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Fallback  bool      `json:"fallback"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionResponse is a conversation history.
type SessionResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []session.Message `json:"messages"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	ctx := r.Context()

	sessionID, history := h.sessions.Open(req.SessionID)

	records, payload, err := h.store.Snapshot(ctx)
	if err != nil {
		h.logger.Warn("no parking data for chat", "error", err)
	}

	h.sessions.Append(sessionID, session.RoleUser, req.Message)

	answer, askErr := h.assistant.Ask(ctx, req.Message, payload, history)
	fallback := false
	if askErr != nil {
		if !errors.Is(askErr, assistant.ErrNoAPIKey) {
			h.logger.Error("assistant call failed, falling back to keyword search", "error", askErr)
		}
		answer = parking.FallbackAnswer(req.Message, records)
		fallback = true
	}

	h.sessions.Append(sessionID, session.RoleAssistant, answer)

	JSON(w, http.StatusOK, ChatResponse{
		SessionID: sessionID,
		Message:   answer,
		Fallback:  fallback,
		Timestamp: time.Now(),
	})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	messages, ok := h.sessions.History(id)
	if !ok {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, SessionResponse{SessionID: id, Messages: messages})
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	messages, ok := h.sessions.Clear(id)
	if !ok {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, SessionResponse{SessionID: id, Messages: messages})
}
