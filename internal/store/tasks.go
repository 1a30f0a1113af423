package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"streakTrackerAPI/internal/task"
)

const taskColumns = `id, user_id, task, completed, created_at, updated_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(&t.ID, &t.UserID, &t.Task, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *PostgresStore) CreateTask(ctx context.Context, t *task.Task) error {
	query := `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, query, t.ID, t.UserID, t.Task, t.Completed, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateTask(ctx context.Context, userID, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	t, err := scanTask(tx.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := fn(t); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE tasks SET task = $2, completed = $3, updated_at = $4 WHERE id = $1`,
		t.ID, t.Task, t.Completed, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return t, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
