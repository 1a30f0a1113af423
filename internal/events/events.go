package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Type string

const (
	TypeStreakCompleted Type = "streak.completed"
	TypeStreakMilestone Type = "streak.milestone"
)

// Milestones are the current-streak lengths that raise a milestone event.
var Milestones = []int{7, 30, 100, 365}

func IsMilestone(n int) bool {
	for _, m := range Milestones {
		if n == m {
			return true
		}
	}
	return false
}

type Event struct {
	ID            uuid.UUID `json:"id"`
	Type          Type      `json:"type"`
	UserID        uuid.UUID `json:"userId"`
	StreakID      uuid.UUID `json:"streakId"`
	StreakName    string    `json:"streakName"`
	Day           string    `json:"day"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e *Event) error
	Close() error
}

// LogPublisher writes events to the application log. Used when no broker
// is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, e *Event) error {
	log.Info().
		Str("type", string(e.Type)).
		Str("user_id", e.UserID.String()).
		Str("streak_id", e.StreakID.String()).
		Str("day", e.Day).
		Int("current_streak", e.CurrentStreak).
		Int("best_streak", e.BestStreak).
		Msg("streak event")
	return nil
}

func (LogPublisher) Close() error { return nil }
