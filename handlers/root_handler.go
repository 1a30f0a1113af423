package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const welcomeMessage = "Welcome to StreakTracker API"

type Pinger interface {
	Ping(ctx context.Context) error
}

type RootHandler struct {
	db Pinger
}

func NewRootHandler(db Pinger) *RootHandler {
	return &RootHandler{db: db}
}

func (h *RootHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Welcome).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
}

func (h *RootHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(welcomeMessage))
}

func (h *RootHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := h.db.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "streak-tracker-api"}`))
}
