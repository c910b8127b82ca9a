package cache

import (
	"contenteval/internal/model"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRecordCache_SnapshotAndGeneration(t *testing.T) {
	ctx := context.Background()
	c := NewRecordCache(newTestRedis(t), "evaluations", 300*time.Second)

	missing, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	built := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.Set(ctx, &model.RecordSnapshot{
		Records:    []model.FlatRecord{{ID: "r1", Score: 60}},
		ComputedAt: built,
		Generation: 0,
	}))

	stored, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, built.Equal(stored.ComputedAt))
	assert.Equal(t, "r1", stored.Records[0].ID)

	require.NoError(t, c.Invalidate(ctx))
	gen, err = c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	gone, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSessionCache_UpdateRetriesOnConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	c := NewSessionCache(newTestRedis(t), time.Hour)
	require.NoError(t, c.Set(ctx, &model.Session{ID: "s1"}))

	attempts := 0
	updated, err := c.Update(ctx, "s1", func(current *model.Session) (*model.Session, error) {
		attempts++
		if attempts == 1 {
			// another tab commits between this read and our write
			require.NoError(t, c.Set(ctx, &model.Session{
				ID:      "s1",
				History: []model.HistoryEntry{{Score: 10}},
			}))
		}
		current.AppendHistory(model.HistoryEntry{Score: 20})
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.Len(t, updated.History, 2)

	stored, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored.History, 2)
	assert.Equal(t, 10.0, stored.History[0].Score)
	assert.Equal(t, 20.0, stored.History[1].Score)
}

func TestSessionCache_UpdateGivesUp(t *testing.T) {
	ctx := context.Background()
	c := NewSessionCache(newTestRedis(t), time.Hour)
	require.NoError(t, c.Set(ctx, &model.Session{ID: "s1"}))

	attempts := 0
	_, err := c.Update(ctx, "s1", func(current *model.Session) (*model.Session, error) {
		attempts++
		require.NoError(t, c.Set(ctx, &model.Session{ID: "s1", OperatorID: "other"}))
		return current, nil
	})
	require.Error(t, err)
	assert.Equal(t, maxUpdateAttempts, attempts)
}

func TestSessionCache_UpdateMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewSessionCache(newTestRedis(t), time.Hour)

	_, err := c.Update(ctx, "s2", func(current *model.Session) (*model.Session, error) {
		assert.Nil(t, current)
		return &model.Session{ID: "s2", OperatorID: "operator_b"}, nil
	})
	require.NoError(t, err)

	stored, err := c.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "operator_b", stored.OperatorID)

	require.NoError(t, c.Delete(ctx, "s2"))
	gone, err := c.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
