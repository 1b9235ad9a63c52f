package server

import (
	"net/http"
	"time"

	"github.com/sheet4riders/DataNantes/internal/parking"
)

// StatsResponse is the sidebar summary.
type StatsResponse struct {
	parking.Stats
	LastUpdate time.Time `json:"last_update"`
}

func (h *Handler) handleParkings(w http.ResponseWriter, r *http.Request) {
	records, _, err := h.store.Snapshot(r.Context())
	if err != nil {
		Error(w, http.StatusServiceUnavailable, "parking data unavailable")
		return
	}
	JSON(w, http.StatusOK, records)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	// Opportunistic refresh so the sidebar never shows data older than
	// the TTL.
	if _, _, err := h.store.Snapshot(r.Context()); err != nil {
		Error(w, http.StatusServiceUnavailable, "parking data unavailable")
		return
	}
	JSON(w, http.StatusOK, StatsResponse{
		Stats:      h.store.Stats(),
		LastUpdate: h.store.LastUpdate(),
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Refresh(r.Context())
	if err != nil {
		Error(w, http.StatusServiceUnavailable, "failed to refresh parking data")
		return
	}
	JSON(w, http.StatusOK, StatsResponse{
		Stats:      stats,
		LastUpdate: h.store.LastUpdate(),
	})
}
