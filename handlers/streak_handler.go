package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"streakTrackerAPI/internal/streak"
	"streakTrackerAPI/middleware"
	"streakTrackerAPI/services"
)

type StreakHandler struct {
	streakService *services.StreakService
}

func NewStreakHandler(streakService *services.StreakService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
	}
}

func (h *StreakHandler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/streaks", h.GetAllStreaks).Methods("GET")
	protected.HandleFunc("/streaks", h.CreateStreak).Methods("POST")
	protected.HandleFunc("/streaks/{id}", h.UpdateStreak).Methods("PUT")
	protected.HandleFunc("/streaks/{id}", h.DeleteStreak).Methods("DELETE")
	protected.HandleFunc("/streaks/{id}/complete", h.CompleteStreak).Methods("POST")
}

func (h *StreakHandler) GetAllStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streaks, err := h.streakService.GetAllStreaks(ctx, userID)
	if err != nil {
		respondWithServerError(w, "GetAllStreaks", err)
		return
	}

	respondWithJSON(w, http.StatusOK, streaks)
}

func (h *StreakHandler) CreateStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req streak.CreateStreakRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.streakService.CreateStreak(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, streak.ErrInvalidRequest) {
			respondWithError(w, http.StatusBadRequest, capitalize(err.Error()))
			return
		}
		respondWithServerError(w, "CreateStreak", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, st)
}

func (h *StreakHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid streak id")
		return
	}

	var req streak.UpdateStreakRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.streakService.UpdateStreak(ctx, userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrStreakNotFound) {
			respondWithError(w, http.StatusNotFound, "Streak not found")
			return
		}
		respondWithServerError(w, "UpdateStreak", err)
		return
	}

	respondWithJSON(w, http.StatusOK, st)
}

func (h *StreakHandler) DeleteStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid streak id")
		return
	}

	if err := h.streakService.DeleteStreak(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrStreakNotFound) {
			respondWithError(w, http.StatusNotFound, "Streak not found")
			return
		}
		respondWithServerError(w, "DeleteStreak", err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Streak deleted successfully")
}

// CompleteStreak answers an already-completed day with 400 so clients can
// show it as a no-op.
func (h *StreakHandler) CompleteStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid streak id")
		return
	}

	st, err := h.streakService.CompleteStreak(ctx, userID, id)
	if err != nil {
		switch {
		case errors.Is(err, streak.ErrAlreadyCompleted):
			middleware.RecordStreakCompletion("already_completed")
			respondWithError(w, http.StatusBadRequest, "Streak already completed today")
		case errors.Is(err, services.ErrStreakNotFound):
			middleware.RecordStreakCompletion("not_found")
			respondWithError(w, http.StatusNotFound, "Streak not found")
		default:
			middleware.RecordStreakCompletion("error")
			respondWithServerError(w, "CompleteStreak", err)
		}
		return
	}

	middleware.RecordStreakCompletion("completed")
	respondWithJSON(w, http.StatusOK, st)
}
