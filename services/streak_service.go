package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"streakTrackerAPI/internal/cache"
	"streakTrackerAPI/internal/events"
	"streakTrackerAPI/internal/store"
	"streakTrackerAPI/internal/streak"
)

var ErrStreakNotFound = errors.New("streak not found")

type StreakService struct {
	store      store.StreakStore
	engine     *streak.Engine
	cache      cache.StreakCache
	dispatcher *EventDispatcher
	now        func() time.Time
}

func NewStreakService(s store.StreakStore, engine *streak.Engine, c cache.StreakCache, dispatcher *EventDispatcher) *StreakService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &StreakService{
		store:      s,
		engine:     engine,
		cache:      c,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func mapStreakErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrStreakNotFound
	}
	return err
}

func (s *StreakService) respondAll(streaks []*streak.Streak) []*streak.StreakResponse {
	now := s.now()
	out := make([]*streak.StreakResponse, 0, len(streaks))
	for _, st := range streaks {
		out = append(out, s.engine.Respond(st, now))
	}
	return out
}

func (s *StreakService) GetAllStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.StreakResponse, error) {
	cached, ok, err := s.cache.GetStreaks(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Streak cache read failed")
	}
	if ok {
		return s.respondAll(cached), nil
	}

	// The generation is read before the store so a write committing during
	// ListStreaks makes the cache skip this (possibly stale) list.
	gen, genErr := s.cache.Generation(ctx, userID)

	streaks, err := s.store.ListStreaks(ctx, userID)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		log.Warn().Err(genErr).Str("user_id", userID.String()).Msg("Streak cache generation read failed")
	} else if err := s.cache.SetStreaks(ctx, userID, gen, streaks); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Streak cache write failed")
	}
	return s.respondAll(streaks), nil
}

func (s *StreakService) CreateStreak(ctx context.Context, userID uuid.UUID, req *streak.CreateStreakRequest) (*streak.StreakResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	st := &streak.Streak{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		History:     []time.Time{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateStreak(ctx, st); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	return s.engine.Respond(st, now), nil
}

// UpdateStreak edits name and description; progress fields are untouched.
func (s *StreakService) UpdateStreak(ctx context.Context, userID, id uuid.UUID, req *streak.UpdateStreakRequest) (*streak.StreakResponse, error) {
	req.Normalize()
	now := s.now()

	st, err := s.store.UpdateStreak(ctx, userID, id, func(st *streak.Streak) error {
		if req.Name != "" {
			st.Name = req.Name
		}
		if req.Description != "" {
			st.Description = req.Description
		}
		st.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapStreakErr(err)
	}
	s.invalidate(ctx, userID)

	return s.engine.Respond(st, now), nil
}

func (s *StreakService) DeleteStreak(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.DeleteStreak(ctx, userID, id); err != nil {
		return mapStreakErr(err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// CompleteStreak marks today's completion. The store serializes concurrent
// calls for the same streak, so two same-day requests yield one history entry.
func (s *StreakService) CompleteStreak(ctx context.Context, userID, id uuid.UUID) (*streak.StreakResponse, error) {
	now := s.now()

	st, err := s.store.UpdateStreak(ctx, userID, id, func(st *streak.Streak) error {
		return s.engine.Complete(st, now)
	})
	if err != nil {
		return nil, mapStreakErr(err)
	}
	s.invalidate(ctx, userID)

	log.Info().
		Str("user_id", userID.String()).
		Str("streak_id", id.String()).
		Int("current_streak", st.CurrentStreak).
		Msg("Streak completed")

	s.emit(st, now)
	return s.engine.Respond(st, now), nil
}

func (s *StreakService) emit(st *streak.Streak, now time.Time) {
	if s.dispatcher == nil {
		return
	}

	base := events.Event{
		UserID:        st.UserID,
		StreakID:      st.ID,
		StreakName:    st.Name,
		Day:           s.engine.Today(now).Format(time.DateOnly),
		CurrentStreak: st.CurrentStreak,
		BestStreak:    st.BestStreak,
		OccurredAt:    now,
	}

	completed := base
	completed.ID = uuid.New()
	completed.Type = events.TypeStreakCompleted
	s.dispatcher.Enqueue(&completed)

	if events.IsMilestone(st.CurrentStreak) {
		milestone := base
		milestone.ID = uuid.New()
		milestone.Type = events.TypeStreakMilestone
		s.dispatcher.Enqueue(&milestone)
	}
}

func (s *StreakService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Streak cache invalidation failed")
	}
}
