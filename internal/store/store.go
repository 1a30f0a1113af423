package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"streakTrackerAPI/internal/streak"
	"streakTrackerAPI/internal/task"
	"streakTrackerAPI/internal/user"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error
}

// StreakStore scopes every lookup to the owning user. UpdateStreak runs fn
// against the current record under a per-record lock and persists the result
// only when fn returns nil.
type StreakStore interface {
	ListStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.Streak, error)
	GetStreak(ctx context.Context, userID, id uuid.UUID) (*streak.Streak, error)
	CreateStreak(ctx context.Context, s *streak.Streak) error
	UpdateStreak(ctx context.Context, userID, id uuid.UUID, fn func(*streak.Streak) error) (*streak.Streak, error)
	DeleteStreak(ctx context.Context, userID, id uuid.UUID) error
}

type TaskStore interface {
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*task.Task, error)
	CreateTask(ctx context.Context, t *task.Task) error
	UpdateTask(ctx context.Context, userID, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error)
	DeleteTask(ctx context.Context, userID, id uuid.UUID) error
}

type Store interface {
	UserStore
	StreakStore
	TaskStore
	Ping(ctx context.Context) error
}
