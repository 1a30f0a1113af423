package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"streakTrackerAPI/internal/store"
	"streakTrackerAPI/internal/task"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	store store.TaskStore
	now   func() time.Time
}

func NewTaskService(s store.TaskStore) *TaskService {
	return &TaskService{store: s, now: time.Now}
}

func mapTaskErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

func (s *TaskService) GetAllTasks(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return s.store.ListTasks(ctx, userID)
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *task.CreateTaskRequest) (*task.Task, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	t := &task.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Task:      req.Task,
		Completed: req.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, id uuid.UUID, req *task.UpdateTaskRequest) (*task.Task, error) {
	now := s.now()
	t, err := s.store.UpdateTask(ctx, userID, id, func(t *task.Task) error {
		if err := req.Apply(t); err != nil {
			return err
		}
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(err)
	}
	return t, nil
}

func (s *TaskService) ToggleTask(ctx context.Context, userID, id uuid.UUID) (*task.Task, error) {
	now := s.now()
	t, err := s.store.UpdateTask(ctx, userID, id, func(t *task.Task) error {
		t.Completed = !t.Completed
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(err)
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	return mapTaskErr(s.store.DeleteTask(ctx, userID, id))
}
