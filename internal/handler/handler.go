package handler

import (
	"log/slog"
	"net/http"
	"time"

	"meetings-api/internal/httpx"
	"meetings-api/internal/store"
)

// Handler serves the HTTP API on top of a shared Store.
type Handler struct {
	store store.Store
	log   *slog.Logger
	now   func() time.Time
}

func New(st store.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: st, log: log, now: time.Now}
}

// storeError reports a failed store call to the client verbatim.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.log.Error("store call failed", "method", r.Method, "path", r.URL.Path, "error", err)
	httpx.Error(w, status, err.Error())
}
