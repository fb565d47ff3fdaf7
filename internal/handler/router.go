package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"meetings-api/internal/httpx"
	"meetings-api/internal/middleware"
)

type RouterOptions struct {
	Logger *slog.Logger
	// applied to the create endpoints; nil disables limiting
	WriteLimiter *middleware.RateLimiter
}

// NewRouter wires every route of the API onto a chi mux.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = h.log
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/hello", h.Hello)
	r.Get("/health", h.Health)

	limited := middleware.RateLimit(opts.WriteLimiter)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.With(limited).Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
	})
	r.Route("/meetings", func(r chi.Router) {
		r.Get("/", h.ListMeetings)
		r.With(limited).Post("/", h.CreateMeeting)
		r.Get("/{id}", h.GetMeeting)
	})
	return r
}
