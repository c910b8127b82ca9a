package cache

import (
	"contenteval/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecordCache shares one normalized record snapshot between server replicas.
// A generation counter lets a refresh on one replica reach all of them.
type RecordCache interface {
	// Get returns nil, nil when no snapshot is cached
	Get(ctx context.Context) (*model.RecordSnapshot, error)
	Set(ctx context.Context, snapshot *model.RecordSnapshot) error
	// Generation returns the refresh counter, 0 before the first refresh
	Generation(ctx context.Context) (int64, error)
	// Invalidate drops the snapshot and bumps the generation
	Invalidate(ctx context.Context) error
}

type recordCache struct {
	client     *redis.Client
	collection string
	ttl        time.Duration
}

// NewRecordCache creates a record snapshot cache for one collection
func NewRecordCache(client *redis.Client, collection string, ttl time.Duration) RecordCache {
	return &recordCache{
		client:     client,
		collection: collection,
		ttl:        ttl,
	}
}

func (c *recordCache) key() string {
	return fmt.Sprintf("records:%s:flat", c.collection)
}

func (c *recordCache) generationKey() string {
	return fmt.Sprintf("records:%s:generation", c.collection)
}

func (c *recordCache) Get(ctx context.Context) (*model.RecordSnapshot, error) {
	data, err := c.client.Get(ctx, c.key()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot model.RecordSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, err
	}
	if snapshot.Records == nil {
		snapshot.Records = []model.FlatRecord{}
	}
	return &snapshot, nil
}

// Set stores the snapshot. Readers judge staleness by its ComputedAt; the key
// ttl only bounds how long an abandoned snapshot lingers.
func (c *recordCache) Set(ctx context.Context, snapshot *model.RecordSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(), data, c.ttl).Err()
}

func (c *recordCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *recordCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey())
		pipe.Del(ctx, c.key())
		return nil
	})
	return err
}
