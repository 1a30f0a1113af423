package streak

import (
	"time"

	"github.com/google/uuid"
)

type Streak struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	UserID        uuid.UUID   `json:"userId" db:"user_id"`
	Name          string      `json:"name" db:"name"`
	Description   string      `json:"description" db:"description"`
	CurrentStreak int         `json:"currentStreak" db:"current_streak"`
	BestStreak    int         `json:"bestStreak" db:"best_streak"`
	History       []time.Time `json:"history" db:"history"`
	LastCompleted string      `json:"lastCompleted" db:"last_completed"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy so callers can mutate the result without
// touching the receiver's history slice.
func (s *Streak) Clone() *Streak {
	c := *s
	c.History = append([]time.Time(nil), s.History...)
	return &c
}
