package service

import (
	"contenteval/internal/cache"
	"contenteval/internal/config"
	"contenteval/internal/model"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// SessionService owns per-operator evaluator state
type SessionService struct {
	cache    cache.SessionCache
	defaults model.Settings
}

// NewSessionService creates a session service. New sessions start with the
// configured scoring settings.
func NewSessionService(sessionCache cache.SessionCache, scoring *config.ScoringConfig) *SessionService {
	return &SessionService{
		cache: sessionCache,
		defaults: model.Settings{
			APIURL:   scoring.BaseURL,
			APIToken: scoring.Token,
		},
	}
}

// Create starts a new, empty session for an operator
func (s *SessionService) Create(ctx context.Context, operatorID string) (*model.Session, error) {
	session := s.fresh(uuid.New().String(), operatorID)
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Load returns the session, or a fresh one under the same id if it expired
func (s *SessionService) Load(ctx context.Context, id, operatorID string) (*model.Session, error) {
	session, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return s.fresh(id, operatorID), nil
	}
	return session, nil
}

// Update applies change to the latest stored copy of the session and copies
// the result into session. Concurrent actions on one session each see the
// other's writes. An expired session restarts from a fresh one.
func (s *SessionService) Update(ctx context.Context, session *model.Session, change func(*model.Session) error) error {
	updated, err := s.cache.Update(ctx, session.ID, func(current *model.Session) (*model.Session, error) {
		if current == nil {
			current = s.fresh(session.ID, session.OperatorID)
		}
		if err := change(current); err != nil {
			return nil, err
		}
		return current, nil
	})
	if err != nil {
		return err
	}
	*session = *updated
	return nil
}

// End deletes the session
func (s *SessionService) End(ctx context.Context, session *model.Session) error {
	if err := s.cache.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// UpdateSettings replaces the session's scoring settings. An empty token keeps the current one.
func (s *SessionService) UpdateSettings(ctx context.Context, session *model.Session, settings model.Settings) error {
	if settings.APIURL != "" {
		u, err := url.ParseRequestURI(settings.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError(fmt.Sprintf("API URL must be an absolute http(s) URL, got %q", settings.APIURL))
		}
	}
	return s.Update(ctx, session, func(current *model.Session) error {
		next := settings
		if next.APIToken == "" {
			next.APIToken = current.Settings.APIToken
		}
		current.Settings = next
		return nil
	})
}

func (s *SessionService) fresh(id, operatorID string) *model.Session {
	return &model.Session{
		ID:         id,
		OperatorID: operatorID,
		CreatedAt:  time.Now(),
		Settings:   s.defaults,
	}
}
