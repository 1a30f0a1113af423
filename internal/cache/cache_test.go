package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streakTrackerAPI/internal/streak"
)

func TestNoopCache(t *testing.T) {
	var c StreakCache = NoopCache{}
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, c.SetStreaks(ctx, userID, 0, []*streak.Streak{{ID: uuid.New()}}))
	got, ok, err := c.GetStreaks(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStreaksKey(t *testing.T) {
	id := uuid.MustParse("6f1c1b9e-2b9a-4c55-9a7e-0c3e5c0e8d11")
	assert.Equal(t, "streaks:6f1c1b9e-2b9a-4c55-9a7e-0c3e5c0e8d11", streaksKey(id))
}

func TestRedisCache(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, redisURL, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	userID := uuid.New()
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	in := []*streak.Streak{{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "Run",
		CurrentStreak: 1,
		BestStreak:    1,
		History:       []time.Time{day},
		LastCompleted: "01/03/2025",
	}}

	_, ok, err := c.GetStreaks(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.SetStreaks(ctx, userID, gen, in))
	out, ok, err := c.GetStreaks(ctx, userID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.True(t, day.Equal(out[0].History[0]))

	require.NoError(t, c.Invalidate(ctx, userID))
	_, ok, err = c.GetStreaks(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	// A list read under the old generation is dropped.
	require.NoError(t, c.SetStreaks(ctx, userID, gen, in))
	_, ok, err = c.GetStreaks(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	next, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	require.NoError(t, c.SetStreaks(ctx, userID, next, in))
	_, ok, err = c.GetStreaks(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerationKey(t *testing.T) {
	id := uuid.MustParse("6f1c1b9e-2b9a-4c55-9a7e-0c3e5c0e8d11")
	assert.Equal(t, "streaks:gen:6f1c1b9e-2b9a-4c55-9a7e-0c3e5c0e8d11", generationKey(id))
}
