package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"streakTrackerAPI/internal/user"
	"streakTrackerAPI/middleware"
	"streakTrackerAPI/services"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// RegisterRoutes mounts the public routes on public and the token-gated ones on protected.
func (h *AuthHandler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/auth/register", h.Register).Methods("POST")
	public.HandleFunc("/auth/login", h.Login).Methods("POST")
	protected.HandleFunc("/auth/me", h.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/auth/profile", h.UpdateProfile).Methods("PUT")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req user.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.Register(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserExists):
			respondWithError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, user.ErrMissingFields), errors.Is(err, user.ErrInvalidEmail):
			respondWithError(w, http.StatusBadRequest, capitalize(err.Error()))
		default:
			respondWithServerError(w, "Register", err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, user.RegisterResponse{User: u.Public()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req user.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.userService.Login(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusUnauthorized, "User not found")
		case errors.Is(err, services.ErrInvalidPassword):
			respondWithError(w, http.StatusUnauthorized, "Invalid password")
		default:
			respondWithServerError(w, "Login", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithServerError(w, "GetCurrentUser", err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.userService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCurrentPasswordRequired),
			errors.Is(err, services.ErrEmailInUse),
			errors.Is(err, user.ErrInvalidEmail):
			respondWithError(w, http.StatusBadRequest, capitalize(err.Error()))
		case errors.Is(err, services.ErrCurrentPasswordWrong):
			respondWithError(w, http.StatusUnauthorized, capitalize(err.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithServerError(w, "UpdateProfile", err)
		}
		return
	}

	log.Info().Str("user_id", userID.String()).Msg("Profile updated")
	respondWithJSON(w, http.StatusOK, resp)
}
