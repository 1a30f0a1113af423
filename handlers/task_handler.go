package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"streakTrackerAPI/internal/task"
	"streakTrackerAPI/middleware"
	"streakTrackerAPI/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/tasks", h.GetAllTasks).Methods("GET")
	protected.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	protected.HandleFunc("/tasks/{id}", h.UpdateTask).Methods("PUT")
	protected.HandleFunc("/tasks/{id}", h.DeleteTask).Methods("DELETE")
	protected.HandleFunc("/tasks/{id}/toggle", h.ToggleTask).Methods("POST")
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	tasks, err := h.taskService.GetAllTasks(ctx, userID)
	if err != nil {
		respondWithServerError(w, "GetAllTasks", err)
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req task.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.taskService.CreateTask(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, task.ErrEmptyTask) {
			respondWithError(w, http.StatusBadRequest, "Task is required")
			return
		}
		respondWithServerError(w, "CreateTask", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req task.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.taskService.UpdateTask(ctx, userID, id, &req)
	if err != nil {
		h.respondWithTaskError(w, "UpdateTask", err)
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	t, err := h.taskService.ToggleTask(ctx, userID, id)
	if err != nil {
		h.respondWithTaskError(w, "ToggleTask", err)
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := h.taskService.DeleteTask(ctx, userID, id); err != nil {
		h.respondWithTaskError(w, "DeleteTask", err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Task deleted successfully")
}

func (h *TaskHandler) respondWithTaskError(w http.ResponseWriter, handler string, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		respondWithError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, task.ErrEmptyTask):
		respondWithError(w, http.StatusBadRequest, "Task is required")
	default:
		respondWithServerError(w, handler, err)
	}
}
