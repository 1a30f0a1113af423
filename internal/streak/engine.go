package streak

import (
	"errors"
	"fmt"
	"time"
)

var ErrAlreadyCompleted = errors.New("streak already completed today")

// LastCompletedLayout is the format of the lastCompleted day marker.
const LastCompletedLayout = "02/01/2006"

const DefaultTimezone = "Asia/Kolkata"

// GapPolicy decides what a missed day does to the current streak.
type GapPolicy string

const (
	// GapTolerant never resets: every completion on a new day counts.
	GapTolerant GapPolicy = "tolerant"
	// GapReset restarts the streak at 1 when more than one day passed
	// since the previous completion.
	GapReset GapPolicy = "reset"
)

func ParseGapPolicy(s string) (GapPolicy, error) {
	switch GapPolicy(s) {
	case "", GapTolerant:
		return GapTolerant, nil
	case GapReset:
		return GapReset, nil
	default:
		return "", fmt.Errorf("unknown gap policy %q", s)
	}
}

// Engine advances a streak's progress at most once per calendar day. Days
// are resolved in a single reference timezone; history entries are stored
// as 00:00 UTC of that calendar date.
type Engine struct {
	loc    *time.Location
	policy GapPolicy
}

func NewEngine(loc *time.Location, policy GapPolicy) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if policy == "" {
		policy = GapTolerant
	}
	return &Engine{loc: loc, policy: policy}
}

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) Policy() GapPolicy { return e.policy }

// Today returns the canonical day key for now.
func (e *Engine) Today(now time.Time) time.Time {
	y, m, d := now.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completedOn(s *Streak, day time.Time) bool {
	for _, h := range s.History {
		if dayOf(h).Equal(day) {
			return true
		}
	}
	return false
}

func lastDay(s *Streak) (time.Time, bool) {
	var last time.Time
	for _, h := range s.History {
		if d := dayOf(h); d.After(last) {
			last = d
		}
	}
	return last, !last.IsZero()
}

// CompletedToday reports whether s already has a completion for the day of now.
func (e *Engine) CompletedToday(s *Streak, now time.Time) bool {
	return completedOn(s, e.Today(now))
}

// Complete records a completion for the day of now. It mutates s only on
// success; a second call on the same day returns ErrAlreadyCompleted.
func (e *Engine) Complete(s *Streak, now time.Time) error {
	today := e.Today(now)
	if completedOn(s, today) {
		return ErrAlreadyCompleted
	}

	if e.policy == GapReset {
		if last, ok := lastDay(s); ok && today.Sub(last) > 24*time.Hour {
			s.CurrentStreak = 0
		}
	}

	s.History = append(s.History, today)
	s.LastCompleted = today.Format(LastCompletedLayout)
	s.CurrentStreak++
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}
	s.UpdatedAt = now
	return nil
}

func (e *Engine) Respond(s *Streak, now time.Time) *StreakResponse {
	return &StreakResponse{Streak: s, CompletedToday: e.CompletedToday(s, now)}
}
