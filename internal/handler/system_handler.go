package handler

import (
	"net/http"
	"time"

	"meetings-api/internal/httpx"
)

type helloResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "World"
	}
	httpx.JSON(w, http.StatusOK, helloResponse{Message: "Hello, " + name})
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}

// Health probes the store with a trivial query.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	err := h.store.Ping(r.Context())
	now := h.now().UTC().Format(time.RFC3339Nano)
	if err != nil {
		h.log.Warn("health probe failed", "error", err)
		httpx.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "error",
			Timestamp: now,
			Database:  "disconnected",
			Error:     err.Error(),
		})
		return
	}
	httpx.JSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: now,
		Database:  "connected",
	})
}
