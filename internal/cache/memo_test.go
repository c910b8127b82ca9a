package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStale(t *testing.T) {
	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	ttl := 300 * time.Second

	assert.False(t, IsStale(base, base, ttl))
	assert.False(t, IsStale(base.Add(299*time.Second), base, ttl))
	assert.True(t, IsStale(base.Add(300*time.Second), base, ttl))
	assert.True(t, IsStale(base.Add(time.Hour), base, ttl))
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestMemo_RecomputesOncePerWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	memo := NewMemo[int](300 * time.Second).WithClock(clock.Now)

	calls := 0
	compute := func(context.Context) (int, time.Time, error) {
		calls++
		return calls, time.Time{}, nil
	}

	v, err := memo.Get(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.now = clock.now.Add(299 * time.Second)
	v, err = memo.Get(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.now = clock.now.Add(time.Second)
	v, err = memo.Get(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestMemo_KeepsBuildTimeOfSharedValue(t *testing.T) {
	built := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: built.Add(299 * time.Second)}
	memo := NewMemo[string](300 * time.Second).WithClock(clock.Now)

	calls := 0
	compute := func(context.Context) (string, time.Time, error) {
		calls++
		return "snapshot", built, nil
	}

	_, err := memo.Get(context.Background(), compute)
	require.NoError(t, err)

	// one second later the inherited build time has reached the ttl
	clock.now = clock.now.Add(time.Second)
	_, err = memo.Get(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemo_Invalidate(t *testing.T) {
	memo := NewMemo[string](time.Hour)
	calls := 0
	compute := func(context.Context) (string, time.Time, error) {
		calls++
		return "records", time.Time{}, nil
	}

	_, err := memo.Get(context.Background(), compute)
	require.NoError(t, err)
	memo.Invalidate()

	_, err = memo.Get(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemo_InvalidateIf(t *testing.T) {
	memo := NewMemo[int](time.Hour)
	calls := 0
	compute := func(context.Context) (int, time.Time, error) {
		calls++
		return 3, time.Time{}, nil
	}

	_, err := memo.Get(context.Background(), compute)
	require.NoError(t, err)

	memo.InvalidateIf(func(v int) bool { return v != 3 })
	_, err = memo.Get(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	memo.InvalidateIf(func(v int) bool { return v == 3 })
	_, err = memo.Get(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemo_ErrorIsNotCached(t *testing.T) {
	memo := NewMemo[int](time.Hour)
	boom := errors.New("store unavailable")

	_, err := memo.Get(context.Background(), func(context.Context) (int, time.Time, error) { return 0, time.Time{}, boom })
	assert.ErrorIs(t, err, boom)

	v, err := memo.Get(context.Background(), func(context.Context) (int, time.Time, error) { return 7, time.Time{}, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
