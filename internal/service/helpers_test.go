package service

import (
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const scenarioJSON = `{
  "final_result": {
    "score": 75,
    "score_out_of_90": 68,
    "is_template": false,
    "final_feedback": "Good coverage of the scene.",
    "repetition_analysis": {
      "severity": "low",
      "phrase_repetition": [{"phrase": "in the park", "count": 2}],
      "structure_repetition": [],
      "connector_overuse": [{"connector": "and", "count": 4}]
    }
  },
  "agent_1_content_scorer": {
    "output": {"evidence": {"conclusion_marker_present": true}}
  },
  "agent_2_template_detector": {
    "output": {
      "content_score_90": 80,
      "template_detected": false,
      "feedback": "",
      "evidence": {
        "grounded_elements_found": ["man", "dog", "park"],
        "generic_template_signals": []
      }
    }
  }
}`

func parseTree(t *testing.T, raw string) doctree.Tree {
	t.Helper()
	var tree doctree.Tree
	require.NoError(t, json.Unmarshal([]byte(raw), &tree))
	return tree
}

// memSessionCache implements cache.SessionCache for testing.
type memSessionCache struct {
	mu       sync.Mutex
	sessions map[string][]byte
	setErr   error
	sets     int
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{sessions: make(map[string][]byte)}
}

func (c *memSessionCache) Set(_ context.Context, session *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.sessions[session.ID] = data
	return nil
}

func (c *memSessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memSessionCache) Update(_ context.Context, id string, fn func(current *model.Session) (*model.Session, error)) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++

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
	if c.setErr != nil {
		return nil, c.setErr
	}
	data, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	c.sessions[id] = data
	return next, nil
}

func (c *memSessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

// recordingBroadcaster implements Broadcaster for testing.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID string, msgType string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sessionID+":"+msgType)
}

func (b *recordingBroadcaster) BroadcastToAll(msgType string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, "*:"+msgType)
}
