package cache

import (
	"contenteval/internal/model"
	"context"
	"encoding/json"
	"sync"
)

type memorySessionCache struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

// NewMemorySessionCache creates a process-local SessionCache for one-shot tools.
// Sessions are stored encoded so callers never share mutable state with the cache.
func NewMemorySessionCache() SessionCache {
	return &memorySessionCache{sessions: make(map[string][]byte)}
}

func (c *memorySessionCache) Set(_ context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = data
	return nil
}

func (c *memorySessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	data, ok := c.sessions[id]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memorySessionCache) Update(_ context.Context, id string, fn func(current *model.Session) (*model.Session, error)) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current *model.Session
	if data, ok := c.sessions[id]; ok {
		current = &model.Session{}
		if err := json.Unmarshal(data, current); err != nil {
			return nil, err
		}
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	c.sessions[id] = data
	return next, nil
}

func (c *memorySessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}
