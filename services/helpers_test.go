package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"streakTrackerAPI/internal/events"
	"streakTrackerAPI/internal/streak"
)

// clock is a settable time source for services under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
	closed bool
}

func (p *recordingPublisher) Publish(ctx context.Context, e *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *recordingPublisher) snapshot() []*events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.Event(nil), p.events...)
}

// countingCache records invalidations and serves whatever was last set
// under the current generation.
type countingCache struct {
	mu            sync.Mutex
	entries       map[uuid.UUID][]*streak.Streak
	generations   map[uuid.UUID]int64
	invalidations int
}

func newCountingCache() *countingCache {
	return &countingCache{
		entries:     make(map[uuid.UUID][]*streak.Streak),
		generations: make(map[uuid.UUID]int64),
	}
}

func (c *countingCache) GetStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.Streak, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[userID]
	return s, ok, nil
}

func (c *countingCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID], nil
}

func (c *countingCache) SetStreaks(ctx context.Context, userID uuid.UUID, gen int64, streaks []*streak.Streak) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[userID] != gen {
		return nil
	}
	c.entries[userID] = streaks
	return nil
}

func (c *countingCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.generations[userID]++
	c.invalidations++
	return nil
}

func kolkataEngine(t *testing.T, policy streak.GapPolicy) *streak.Engine {
	t.Helper()
	loc, err := time.LoadLocation(streak.DefaultTimezone)
	require.NoError(t, err)
	return streak.NewEngine(loc, policy)
}
