package service

import (
	"contenteval/internal/config"
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScorer struct {
	calls int
	resp  doctree.Tree
	err   error
}

func (f *fakeScorer) Evaluate(_ context.Context, _ model.Settings, _, _ string) (doctree.Tree, error) {
	f.calls++
	return f.resp, f.err
}

func newEvaluatorFixture(t *testing.T, scorer Scorer) (*EvaluatorService, *memSessionCache, *model.Session) {
	t.Helper()
	sessionCache := newMemSessionCache()
	scoring := config.DefaultScoringConfig()
	scoring.BaseURL = "http://scoring.local"
	scoring.Token = "tok"
	sessions := NewSessionService(sessionCache, scoring)

	session, err := sessions.Create(context.Background(), "operator_test")
	require.NoError(t, err)

	svc := NewEvaluatorService(scorer, sessions)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC) }
	return svc, sessionCache, session
}

func TestEvaluate_ValidationSkipsScorer(t *testing.T) {
	scorer := &fakeScorer{}
	svc, _, session := newEvaluatorFixture(t, scorer)

	cases := []model.EvaluateRequest{
		{Description: "", Transcription: "I see a man"},
		{Description: "a man", Transcription: ""},
		{},
	}
	for _, req := range cases {
		_, err := svc.Evaluate(context.Background(), session, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Please provide both description and transcription.", UserMessage(err))
	}
	assert.Equal(t, 0, scorer.calls)
	assert.Empty(t, session.History)
}

func TestEvaluate_MissingSettings(t *testing.T) {
	scorer := &fakeScorer{}
	svc, _, session := newEvaluatorFixture(t, scorer)
	session.Settings.APIToken = ""

	_, err := svc.Evaluate(context.Background(), session, model.EvaluateRequest{Description: "d", Transcription: "t"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, scorer.calls)
}

func TestEvaluate_FailureLeavesHistoryUnchanged(t *testing.T) {
	scorer := &fakeScorer{err: &Error{Kind: KindAuth, Status: 401}}
	svc, sessionCache, session := newEvaluatorFixture(t, scorer)
	setsBefore := sessionCache.sets

	_, err := svc.Evaluate(context.Background(), session, model.EvaluateRequest{Description: "d", Transcription: "t"})

	require.Error(t, err)
	assert.Equal(t, "Authentication failed. Please check your API token.", UserMessage(err))
	assert.Equal(t, 1, scorer.calls)
	assert.Empty(t, session.History)
	assert.Equal(t, setsBefore, sessionCache.sets)
}

func TestEvaluate_SuccessAppendsHistory(t *testing.T) {
	scorer := &fakeScorer{resp: parseTree(t, scenarioJSON)}
	svc, sessionCache, session := newEvaluatorFixture(t, scorer)
	broadcaster := &recordingBroadcaster{}
	svc.SetBroadcaster(broadcaster)

	result, err := svc.Evaluate(context.Background(), session, model.EvaluateRequest{Description: "d", Transcription: "t"})
	require.NoError(t, err)

	assert.Equal(t, 75.0, result.Breakdown.Score)
	assert.Equal(t, "80% (content) - 5% (penalty) + 5% (bonus) = 75%", result.Breakdown.Explanation)
	assert.Contains(t, result.Raw, "final_result")

	require.Len(t, session.History, 1)
	assert.Equal(t, 75.0, session.History[0].Score)
	assert.False(t, session.History[0].Template)
	assert.Equal(t, "14:05:09", session.History[0].Clock())

	stored, err := sessionCache.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, stored.History, 1)

	assert.Equal(t, []string{session.ID + ":" + EventEvaluationResult}, broadcaster.events)
}

func TestEvaluate_SaveFailureStillReturnsResult(t *testing.T) {
	scorer := &fakeScorer{resp: parseTree(t, scenarioJSON)}
	svc, sessionCache, session := newEvaluatorFixture(t, scorer)
	sessionCache.setErr = errors.New("redis down")

	result, err := svc.Evaluate(context.Background(), session, model.EvaluateRequest{Description: "d", Transcription: "t"})
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.Entry.Score)
	assert.Len(t, session.History, 1)
}

func TestEvaluate_TwoTabsKeepBothEntries(t *testing.T) {
	scorer := &fakeScorer{resp: parseTree(t, scenarioJSON)}
	svc, sessionCache, session := newEvaluatorFixture(t, scorer)
	ctx := context.Background()

	tabA, err := sessionCache.Get(ctx, session.ID)
	require.NoError(t, err)
	tabB, err := sessionCache.Get(ctx, session.ID)
	require.NoError(t, err)

	_, err = svc.Evaluate(ctx, tabA, model.EvaluateRequest{Description: "d", Transcription: "t"})
	require.NoError(t, err)
	_, err = svc.Evaluate(ctx, tabB, model.EvaluateRequest{Description: "d", Transcription: "t"})
	require.NoError(t, err)

	stored, err := sessionCache.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.History, 2)
	assert.Equal(t, 2, svc.History(tabB).Total)
}

func TestHistory_RecentAndClear(t *testing.T) {
	scorer := &fakeScorer{resp: parseTree(t, scenarioJSON)}
	svc, _, session := newEvaluatorFixture(t, scorer)
	broadcaster := &recordingBroadcaster{}
	svc.SetBroadcaster(broadcaster)

	for i := 0; i < 7; i++ {
		_, err := svc.Evaluate(context.Background(), session, model.EvaluateRequest{Description: "d", Transcription: "t"})
		require.NoError(t, err)
	}

	view := svc.History(session)
	assert.Equal(t, 7, view.Total)
	require.Len(t, view.Recent, 5)
	assert.Equal(t, 7, view.Recent[0].Ordinal)
	assert.Equal(t, 3, view.Recent[4].Ordinal)

	require.NoError(t, svc.ClearHistory(context.Background(), session))
	view = svc.History(session)
	assert.Equal(t, 0, view.Total)
	assert.Empty(t, view.Recent)
	assert.Equal(t, session.ID+":"+EventHistoryCleared, broadcaster.events[len(broadcaster.events)-1])
}
