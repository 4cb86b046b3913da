package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRateLimiter(mr.Addr(), "", 0, limit, window, zerolog.Nop()), mr
}

func TestAllow_UnderLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "9876543210")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}
}

func TestAllow_OverLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "9876543210")
	_, _ = l.Allow(ctx, "9876543210")

	ok, err := l.Allow(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, ok)

	// A different phone has its own window.
	ok, err = l.Allow(ctx, "9123456789")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_WindowResets(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "9876543210")
	ok, _ := l.Allow(ctx, "9876543210")
	require.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err := l.Allow(ctx, "9876543210")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_FailsOpenWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	ok, err := l.Allow(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.True(t, ok)
}
