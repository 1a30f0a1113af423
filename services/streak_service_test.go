package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streakTrackerAPI/internal/events"
	"streakTrackerAPI/internal/store"
	"streakTrackerAPI/internal/streak"
)

type streakFixture struct {
	svc       *StreakService
	store     *store.MemoryStore
	clock     *clock
	cache     *countingCache
	publisher *recordingPublisher
	userID    uuid.UUID
}

func newStreakFixture(t *testing.T, policy streak.GapPolicy) *streakFixture {
	t.Helper()

	f := &streakFixture{
		store:     store.NewMemoryStore(),
		clock:     newClock(time.Date(2025, time.March, 1, 6, 30, 0, 0, time.UTC)),
		cache:     newCountingCache(),
		publisher: &recordingPublisher{},
		userID:    uuid.New(),
	}
	dispatcher := NewEventDispatcher(f.publisher, 1, 16)
	t.Cleanup(func() { dispatcher.Close() })

	f.svc = NewStreakService(f.store, kolkataEngine(t, policy), f.cache, dispatcher)
	f.svc.now = f.clock.Now
	return f
}

func (f *streakFixture) create(t *testing.T) *streak.StreakResponse {
	t.Helper()
	st, err := f.svc.CreateStreak(context.Background(), f.userID, &streak.CreateStreakRequest{
		Name:        "  Meditate ",
		Description: "10 minutes",
	})
	require.NoError(t, err)
	return st
}

func TestCreateStreak_FreshRecord(t *testing.T) {
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	assert.Equal(t, "Meditate", st.Name)
	assert.Equal(t, f.userID, st.UserID)
	assert.Zero(t, st.CurrentStreak)
	assert.Zero(t, st.BestStreak)
	assert.Empty(t, st.History)
	assert.Empty(t, st.LastCompleted)
	assert.False(t, st.CompletedToday)
}

func TestCreateStreak_Validation(t *testing.T) {
	f := newStreakFixture(t, streak.GapTolerant)

	_, err := f.svc.CreateStreak(context.Background(), f.userID, &streak.CreateStreakRequest{Name: "  "})
	assert.ErrorIs(t, err, streak.ErrInvalidRequest)
}

func TestCompleteStreak_Scenarios(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	// day 1
	got, err := f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.BestStreak)
	assert.Len(t, got.History, 1)
	assert.True(t, got.CompletedToday)

	// day 1 again
	_, err = f.svc.CompleteStreak(ctx, f.userID, st.ID)
	assert.ErrorIs(t, err, streak.ErrAlreadyCompleted)

	stored, err := f.store.GetStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)
	assert.Len(t, stored.History, 1)

	// day 2
	f.clock.Advance(24 * time.Hour)
	got, err = f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.BestStreak)
	assert.Len(t, got.History, 2)
	assert.Equal(t, "02/03/2025", got.LastCompleted)
}

func TestCompleteStreak_BestStreakCarried(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	_, err := f.store.UpdateStreak(ctx, f.userID, st.ID, func(s *streak.Streak) error {
		s.CurrentStreak = 5
		s.BestStreak = 14
		return nil
	})
	require.NoError(t, err)

	got, err := f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.CurrentStreak)
	assert.Equal(t, 14, got.BestStreak)
}

func TestCompleteStreak_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	_, err := f.svc.CompleteStreak(ctx, f.userID, uuid.New())
	assert.ErrorIs(t, err, ErrStreakNotFound)

	// someone else's streak is invisible
	_, err = f.svc.CompleteStreak(ctx, uuid.New(), st.ID)
	assert.ErrorIs(t, err, ErrStreakNotFound)
}

func TestCompleteStreak_ConcurrentSameDay(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	var succeeded, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CompleteStreak(ctx, f.userID, st.ID)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, streak.ErrAlreadyCompleted):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(19), rejected.Load())

	stored, err := f.store.GetStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)
	assert.Len(t, stored.History, 1)
}

func TestCompleteStreak_GapResetPolicy(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapReset)
	st := f.create(t)

	_, err := f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)

	f.clock.Advance(3 * 24 * time.Hour)
	got, err := f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 2, got.BestStreak)
}

func TestCompleteStreak_EmitsEvents(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	_, err := f.store.UpdateStreak(ctx, f.userID, st.ID, func(s *streak.Streak) error {
		s.CurrentStreak = 6
		s.BestStreak = 6
		return nil
	})
	require.NoError(t, err)

	_, err = f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(f.publisher.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)

	types := map[events.Type]*events.Event{}
	for _, e := range f.publisher.snapshot() {
		types[e.Type] = e
	}
	require.Contains(t, types, events.TypeStreakCompleted)
	require.Contains(t, types, events.TypeStreakMilestone)
	assert.Equal(t, 7, types[events.TypeStreakMilestone].CurrentStreak)
	assert.Equal(t, "2025-03-01", types[events.TypeStreakCompleted].Day)
	assert.Equal(t, st.ID, types[events.TypeStreakCompleted].StreakID)
}

func TestGetAllStreaks_UsesCacheUntilWrite(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	list, err := f.svc.GetAllStreaks(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	cached, ok, _ := f.cache.GetStreaks(ctx, f.userID)
	require.True(t, ok)
	require.Len(t, cached, 1)

	before := f.cache.invalidations
	_, err = f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.cache.invalidations)

	list, err = f.svc.GetAllStreaks(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].CurrentStreak)
	assert.True(t, list[0].CompletedToday)
}

// listHookStore runs afterList once, between reading the streak list and
// returning it, to simulate a write committing mid-read.
type listHookStore struct {
	*store.MemoryStore
	afterList func()
}

func (s *listHookStore) ListStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.Streak, error) {
	streaks, err := s.MemoryStore.ListStreaks(ctx, userID)
	if hook := s.afterList; hook != nil {
		s.afterList = nil
		hook()
	}
	return streaks, err
}

func TestGetAllStreaks_CompletionDuringReadIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	hooked := &listHookStore{MemoryStore: f.store}
	hooked.afterList = func() {
		_, err := f.svc.CompleteStreak(ctx, f.userID, st.ID)
		require.NoError(t, err)
	}
	f.svc.store = hooked

	stale, err := f.svc.GetAllStreaks(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, 0, stale[0].CurrentStreak)

	_, ok, _ := f.cache.GetStreaks(ctx, f.userID)
	assert.False(t, ok, "list read before the completion must not be cached")

	list, err := f.svc.GetAllStreaks(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].CurrentStreak)
	assert.True(t, list[0].CompletedToday)

	_, err = f.svc.CompleteStreak(ctx, f.userID, st.ID)
	assert.ErrorIs(t, err, streak.ErrAlreadyCompleted)

	_, ok, _ = f.cache.GetStreaks(ctx, f.userID)
	assert.True(t, ok)
}

func TestUpdateStreak_OnlyDescriptiveFields(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	_, err := f.svc.CompleteStreak(ctx, f.userID, st.ID)
	require.NoError(t, err)

	got, err := f.svc.UpdateStreak(ctx, f.userID, st.ID, &streak.UpdateStreakRequest{Name: "Breathe"})
	require.NoError(t, err)
	assert.Equal(t, "Breathe", got.Name)
	assert.Equal(t, "10 minutes", got.Description)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Len(t, got.History, 1)

	_, err = f.svc.UpdateStreak(ctx, f.userID, uuid.New(), &streak.UpdateStreakRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrStreakNotFound)
}

func TestDeleteStreak(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture(t, streak.GapTolerant)
	st := f.create(t)

	require.NoError(t, f.svc.DeleteStreak(ctx, f.userID, st.ID))
	assert.ErrorIs(t, f.svc.DeleteStreak(ctx, f.userID, st.ID), ErrStreakNotFound)

	list, err := f.svc.GetAllStreaks(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
