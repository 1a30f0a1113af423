package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"streakTrackerAPI/internal/streak"
)

const streakColumns = `id, user_id, name, description, current_streak, best_streak, history, last_completed, created_at, updated_at`

func scanStreak(row pgx.Row) (*streak.Streak, error) {
	st := &streak.Streak{}
	err := row.Scan(
		&st.ID,
		&st.UserID,
		&st.Name,
		&st.Description,
		&st.CurrentStreak,
		&st.BestStreak,
		&st.History,
		&st.LastCompleted,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if st.History == nil {
		st.History = []time.Time{}
	}
	return st, nil
}

func (s *PostgresStore) ListStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list streaks: %w", err)
	}
	defer rows.Close()

	streaks := []*streak.Streak{}
	for rows.Next() {
		st, err := scanStreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan streak: %w", err)
		}
		streaks = append(streaks, st)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return streaks, nil
}

func (s *PostgresStore) GetStreak(ctx context.Context, userID, id uuid.UUID) (*streak.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE id = $1 AND user_id = $2`
	st, err := scanStreak(s.db.QueryRow(ctx, query, id, userID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return st, err
}

func (s *PostgresStore) CreateStreak(ctx context.Context, st *streak.Streak) error {
	if st.History == nil {
		st.History = []time.Time{}
	}

	query := `
	INSERT INTO streaks (` + streakColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.Exec(ctx, query,
		st.ID,
		st.UserID,
		st.Name,
		st.Description,
		st.CurrentStreak,
		st.BestStreak,
		st.History,
		st.LastCompleted,
		st.CreatedAt,
		st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create streak: %w", err)
	}
	return nil
}

// UpdateStreak locks the row for the duration of fn so concurrent updates of
// the same streak are applied one after another.
func (s *PostgresStore) UpdateStreak(ctx context.Context, userID, id uuid.UUID, fn func(*streak.Streak) error) (*streak.Streak, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + streakColumns + ` FROM streaks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	st, err := scanStreak(tx.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	if err := fn(st); err != nil {
		return nil, err
	}

	updateQuery := `
	UPDATE streaks
	SET name = $2,
		description = $3,
		current_streak = $4,
		best_streak = $5,
		history = $6,
		last_completed = $7,
		updated_at = $8
	WHERE id = $1
	`
	_, err = tx.Exec(ctx, updateQuery,
		st.ID,
		st.Name,
		st.Description,
		st.CurrentStreak,
		st.BestStreak,
		st.History,
		st.LastCompleted,
		st.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return st, nil
}

func (s *PostgresStore) DeleteStreak(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM streaks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete streak: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
