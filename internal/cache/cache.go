package cache

import (
	"context"

	"github.com/google/uuid"

	"streakTrackerAPI/internal/streak"
)

// StreakCache holds each user's streak list between writes. Every
// Invalidate advances the user's generation; SetStreaks only stores a list
// read under the generation that is still current, so a read that raced a
// write never repopulates the cache with the pre-write list.
type StreakCache interface {
	GetStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.Streak, bool, error)
	Generation(ctx context.Context, userID uuid.UUID) (int64, error)
	SetStreaks(ctx context.Context, userID uuid.UUID, gen int64, streaks []*streak.Streak) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

func streaksKey(userID uuid.UUID) string {
	return "streaks:" + userID.String()
}

func generationKey(userID uuid.UUID) string {
	return "streaks:gen:" + userID.String()
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) GetStreaks(context.Context, uuid.UUID) ([]*streak.Streak, bool, error) {
	return nil, false, nil
}

func (NoopCache) Generation(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (NoopCache) SetStreaks(context.Context, uuid.UUID, int64, []*streak.Streak) error { return nil }

func (NoopCache) Invalidate(context.Context, uuid.UUID) error { return nil }
