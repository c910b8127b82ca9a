package service

import (
	"contenteval/internal/cache"
	"contenteval/internal/model"
	"contenteval/internal/repository"
	"context"
	"log"
	"math"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

const detailFetchConcurrency = 4

// DashboardService serves the filterable record table over stored evaluations
type DashboardService struct {
	repo        repository.EvaluationRepo
	shared      cache.RecordCache
	memo        *cache.Memo[model.RecordSnapshot]
	ttl         time.Duration
	now         func() time.Time
	details     *DetailFetcher
	sessions    *SessionService
	broadcaster Broadcaster
}

// NewDashboardService creates a dashboard service. shared may be nil when no
// Redis tier is available.
func NewDashboardService(repo repository.EvaluationRepo, shared cache.RecordCache, sessions *SessionService, ttl time.Duration) *DashboardService {
	return &DashboardService{
		repo:     repo,
		shared:   shared,
		memo:     cache.NewMemo[model.RecordSnapshot](ttl),
		ttl:      ttl,
		now:      time.Now,
		details:  NewDetailFetcher(repo),
		sessions: sessions,
	}
}

// SetBroadcaster sets the broadcaster for refresh events
func (s *DashboardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock replaces the wall clock, for tests
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
	s.memo.WithClock(now)
}

// Records returns the normalized record set
func (s *DashboardService) Records(ctx context.Context) ([]model.FlatRecord, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Records, nil
}

// Snapshot returns the normalized record set with its build time. It is rebuilt
// at most once per ttl window counted from that build time, and as soon as any
// replica has refreshed since.
func (s *DashboardService) Snapshot(ctx context.Context) (model.RecordSnapshot, error) {
	shared, generation := s.shared, int64(0)
	if shared != nil {
		gen, err := shared.Generation(ctx)
		if err != nil {
			log.Printf("[Records] WARNING: shared cache unavailable: %v", err)
			shared = nil
		} else {
			generation = gen
			s.memo.InvalidateIf(func(snapshot model.RecordSnapshot) bool {
				return snapshot.Generation != gen
			})
		}
	}

	return s.memo.Get(ctx, func(ctx context.Context) (model.RecordSnapshot, time.Time, error) {
		snapshot, err := s.load(ctx, shared, generation)
		return snapshot, snapshot.ComputedAt, err
	})
}

func (s *DashboardService) load(ctx context.Context, shared cache.RecordCache, generation int64) (model.RecordSnapshot, error) {
	now := s.now()
	if shared != nil {
		snapshot, err := shared.Get(ctx)
		switch {
		case err != nil:
			log.Printf("[Records] WARNING: shared cache read failed: %v", err)
		case snapshot != nil && snapshot.Generation == generation && !cache.IsStale(now, snapshot.ComputedAt, s.ttl):
			log.Printf("[Records] Loaded %d records from shared cache (built %s)", len(snapshot.Records), snapshot.ComputedAt.Format(time.RFC3339))
			return *snapshot, nil
		}
	}

	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return model.RecordSnapshot{}, err
	}
	snapshot := model.RecordSnapshot{
		Records:    Normalize(docs),
		ComputedAt: now,
		Generation: generation,
	}
	log.Printf("[Records] Normalized %d documents", len(snapshot.Records))

	if shared != nil {
		if err := shared.Set(ctx, &snapshot); err != nil {
			log.Printf("[Records] WARNING: shared cache write failed: %v", err)
		}
	}
	return snapshot, nil
}

// Refresh drops every cached record set on every replica; the next read
// rebuilds from the store
func (s *DashboardService) Refresh(ctx context.Context) error {
	s.memo.Invalidate()
	if s.shared != nil {
		if err := s.shared.Invalidate(ctx); err != nil {
			return err
		}
	}
	log.Println("[Records] Cache invalidated")
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAll(EventRecordsRefreshed, map[string]string{"status": "invalidated"})
	}
	return nil
}

// View builds the dashboard page: summary over all records, filtered rows, chart
// series, and the details of every group the session has open.
func (s *DashboardService) View(ctx context.Context, q url.Values, session *model.Session) (*model.DashboardView, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	records := snapshot.Records
	if len(records) == 0 {
		return &model.DashboardView{
			Empty:           true,
			ComputedAt:      snapshot.ComputedAt,
			Message:         "No data found in the database",
			SeverityOptions: []string{},
			Records:         []model.FlatRecord{},
			Chart:           []model.ChartPoint{},
		}, nil
	}

	spec, err := ParseFilter(q, records)
	if err != nil {
		return nil, err
	}

	matcher := NewMatcher(spec)
	view := &model.DashboardView{
		ComputedAt:      snapshot.ComputedAt,
		Summary:         Summarize(records),
		SeverityOptions: SeverityOptions(records),
		Filter:          spec,
		Records:         []model.FlatRecord{},
		Chart:           []model.ChartPoint{},
	}
	for i, r := range records {
		if !matcher.Matches(r) {
			continue
		}
		view.Records = append(view.Records, r)
		view.Chart = append(view.Chart, model.ChartPoint{Index: i, Score: r.Score, Expected: r.ExpectedScore})
	}
	view.FilteredCount = len(view.Records)

	if session != nil {
		view.Details, err = s.ExpandedDetails(ctx, session, view.Records)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Summarize aggregates the full record set; averages are rounded to one decimal
func Summarize(records []model.FlatRecord) model.DashboardSummary {
	summary := model.DashboardSummary{Total: len(records)}
	if len(records) == 0 {
		return summary
	}
	var score, expected, diff float64
	for _, r := range records {
		score += r.Score
		expected += r.ExpectedScore
		diff += r.ScoreDiff
		if r.IsTemplate {
			summary.Templates++
		}
	}
	n := float64(len(records))
	summary.AvgScore = round1(score / n)
	summary.AvgExpected = round1(expected / n)
	summary.AvgDiff = round1(diff / n)
	return summary
}

// FetchDetail loads one group of one record
func (s *DashboardService) FetchDetail(ctx context.Context, id string, group model.DetailGroup) (*model.DetailPayload, error) {
	return s.details.FetchDetail(ctx, id, group)
}

// ToggleDetail flips a row's group in the session and returns the detail when it
// opens. The template-signals group only opens on rows that offer it.
func (s *DashboardService) ToggleDetail(ctx context.Context, session *model.Session, id string, group model.DetailGroup) (bool, *model.DetailPayload, error) {
	if _, ok := model.ParseDetailGroup(string(group)); !ok {
		return false, nil, ValidationError("unknown detail group " + string(group))
	}
	if group == model.DetailTemplateSignals && !session.IsExpanded(id, group) {
		if err := s.requireTemplateSignals(ctx, id); err != nil {
			return false, nil, err
		}
	}

	var expanded bool
	err := s.sessions.Update(ctx, session, func(current *model.Session) error {
		expanded = current.Toggle(id, group)
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	if !expanded {
		return false, nil, nil
	}

	payload, err := s.details.FetchDetail(ctx, id, group)
	if err != nil {
		return true, nil, err
	}
	return true, payload, nil
}

// requireTemplateSignals rejects rows of the table that carry no template signals.
// Ids outside the table fall through to the fetch, which reports them missing.
func (s *DashboardService) requireTemplateSignals(ctx context.Context, id string) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.ID == id && !r.TemplateSignalsAvailable {
			return ValidationError("Record " + id + " has no template signals")
		}
	}
	return nil
}

// ExpandedDetails fetches every open group of the visible rows. Reads are
// independent, so they run in parallel; results keep table order.
func (s *DashboardService) ExpandedDetails(ctx context.Context, session *model.Session, visible []model.FlatRecord) ([]model.DetailPayload, error) {
	type key struct {
		id    string
		group model.DetailGroup
	}
	var keys []key
	for _, r := range visible {
		for _, g := range model.DetailGroups {
			if session.IsExpanded(r.ID, g) {
				keys = append(keys, key{id: r.ID, group: g})
			}
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	results := make([]model.DetailPayload, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchConcurrency)
	for i, k := range keys {
		g.Go(func() error {
			payload, err := s.details.FetchDetail(gctx, k.id, k.group)
			if err != nil {
				return err
			}
			results[i] = *payload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
