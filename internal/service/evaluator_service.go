package service

import (
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"context"
	"log"
	"time"
)

// EvaluatorService runs one evaluation per call and keeps the session history
type EvaluatorService struct {
	scorer      Scorer
	sessions    *SessionService
	broadcaster Broadcaster
	now         func() time.Time
}

// NewEvaluatorService creates a new evaluator service
func NewEvaluatorService(scorer Scorer, sessions *SessionService) *EvaluatorService {
	return &EvaluatorService{
		scorer:   scorer,
		sessions: sessions,
		now:      time.Now,
	}
}

// SetBroadcaster sets the broadcaster for session events
func (s *EvaluatorService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Evaluate validates the input, calls the scoring API and appends a history
// entry on success. On any failure the session is left untouched.
func (s *EvaluatorService) Evaluate(ctx context.Context, session *model.Session, req model.EvaluateRequest) (*model.EvaluationResult, error) {
	if req.Description == "" || req.Transcription == "" {
		return nil, ValidationError("Please provide both description and transcription.")
	}
	if session.Settings.APIURL == "" || session.Settings.APIToken == "" {
		return nil, ValidationError("Please configure the API URL and API token.")
	}

	resp, err := s.scorer.Evaluate(ctx, session.Settings, req.Description, req.Transcription)
	if err != nil {
		log.Printf("[Evaluator] session %s: evaluation failed: %v", session.ID, err)
		return nil, err
	}

	breakdown := DeriveBreakdown(resp)
	entry := model.HistoryEntry{
		Timestamp: s.now(),
		Score:     breakdown.Score,
		Template:  breakdown.IsTemplate,
	}
	err = s.sessions.Update(ctx, session, func(current *model.Session) error {
		current.AppendHistory(entry)
		return nil
	})
	if err != nil {
		// The evaluation itself succeeded; only the history write is lost.
		log.Printf("[Evaluator] session %s: failed to save history: %v", session.ID, err)
		session.AppendHistory(entry)
	}

	raw, _ := doctree.Plain(resp).(map[string]interface{})
	result := &model.EvaluationResult{
		Breakdown: breakdown,
		Entry:     entry,
		Raw:       raw,
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(session.ID, EventEvaluationResult, map[string]interface{}{
			"entry":   entry,
			"ordinal": len(session.History),
		})
	}
	return result, nil
}

// History returns the sidebar view of the session history
func (s *EvaluatorService) History(session *model.Session) model.HistoryView {
	return session.RecentHistory(model.HistoryDisplayLimit)
}

// ClearHistory drops the whole session history
func (s *EvaluatorService) ClearHistory(ctx context.Context, session *model.Session) error {
	err := s.sessions.Update(ctx, session, func(current *model.Session) error {
		current.ClearHistory()
		return nil
	})
	if err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(session.ID, EventHistoryCleared, map[string]int{"total": 0})
	}
	return nil
}
