package service

import (
	"contenteval/internal/model"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []model.FlatRecord {
	return []model.FlatRecord{
		{ID: "a", ScoreDiff: 5, IsTemplate: false, RepetitionSeverity: "low", GroundedCount: 4},
		{ID: "b", ScoreDiff: 40, IsTemplate: true, RepetitionSeverity: "high", GroundedCount: 1},
		{ID: "c", ScoreDiff: 12, IsTemplate: false, RepetitionSeverity: "", GroundedCount: 9},
		{ID: "d", ScoreDiff: 90, IsTemplate: true, RepetitionSeverity: "low", GroundedCount: 20},
	}
}

func ids(records []model.FlatRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestSeverityOptions_FirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"low", "high", ""}, SeverityOptions(sampleRecords()))
	assert.Equal(t, []string{}, SeverityOptions(nil))
}

func TestFilter_DefaultIsIdentity(t *testing.T) {
	records := sampleRecords()
	assert.Equal(t, records, Filter(records, DefaultFilter(records)))
}

func TestFilter_DefaultKeepsRecordsBeyondSliderLimits(t *testing.T) {
	records := append(sampleRecords(),
		model.FlatRecord{ID: "e", ScoreDiff: 94.5, RepetitionSeverity: "low", GroundedCount: 25})

	spec := DefaultFilter(records)
	assert.Equal(t, 95, spec.ScoreDiffMax)
	assert.Equal(t, 25, spec.GroundedMax)
	assert.Equal(t, records, Filter(records, spec))

	parsed, err := ParseFilter(url.Values{"diff_min": {"91"}, "grounded_min": {"21"}}, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, ids(Filter(records, parsed)))

	_, err = ParseFilter(url.Values{"diff_max": {"96"}}, records)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFilter_Conjunction(t *testing.T) {
	records := sampleRecords()
	spec := DefaultFilter(records)
	spec.ScoreDiffMax = 40
	spec.SeveritySet = []string{"low", "high"}

	got := Filter(records, spec)

	assert.Equal(t, []string{"a", "b"}, ids(got))
	for _, r := range records {
		inRange := r.ScoreDiff <= 40
		inSet := r.RepetitionSeverity == "low" || r.RepetitionSeverity == "high"
		assert.Equal(t, inRange && inSet, NewMatcher(spec).Matches(r), r.ID)
	}
}

func TestFilter_InclusiveBounds(t *testing.T) {
	records := sampleRecords()
	spec := DefaultFilter(records)
	spec.ScoreDiffMin = 12
	spec.ScoreDiffMax = 12

	assert.Equal(t, []string{"c"}, ids(Filter(records, spec)))

	spec = DefaultFilter(records)
	spec.GroundedMin = 20
	assert.Equal(t, []string{"d"}, ids(Filter(records, spec)))
}

func TestFilter_EmptySetsMatchNothing(t *testing.T) {
	records := sampleRecords()

	spec := DefaultFilter(records)
	spec.TemplateSet = nil
	got := Filter(records, spec)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	spec = DefaultFilter(records)
	spec.SeveritySet = []string{}
	assert.Empty(t, Filter(records, spec))
}

func TestFilter_TemplateOnly(t *testing.T) {
	records := sampleRecords()
	spec := DefaultFilter(records)
	spec.TemplateSet = []bool{true}

	assert.Equal(t, []string{"b", "d"}, ids(Filter(records, spec)))
}

func TestParseFilter_Defaults(t *testing.T) {
	records := sampleRecords()
	spec, err := ParseFilter(url.Values{}, records)
	require.NoError(t, err)
	assert.Equal(t, DefaultFilter(records), spec)
}

func TestParseFilter_Values(t *testing.T) {
	q := url.Values{
		"diff_min":     {"3"},
		"diff_max":     {"45"},
		"template":     {"false"},
		"severity":     {"low", ""},
		"grounded_min": {"2"},
		"grounded_max": {"10"},
	}

	spec, err := ParseFilter(q, sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, model.FilterSpec{
		ScoreDiffMin: 3,
		ScoreDiffMax: 45,
		TemplateSet:  []bool{false},
		SeveritySet:  []string{"low", ""},
		GroundedMin:  2,
		GroundedMax:  10,
	}, spec)
	assert.Equal(t, []string{"a", "c"}, ids(Filter(sampleRecords(), spec)))
}

func TestParseFilter_SeverityAll(t *testing.T) {
	records := sampleRecords()
	spec, err := ParseFilter(url.Values{"severity": {"All"}}, records)
	require.NoError(t, err)
	assert.Equal(t, SeverityOptions(records), spec.SeveritySet)
}

func TestParseFilter_Invalid(t *testing.T) {
	cases := map[string]url.Values{
		"non-numeric":      {"diff_min": {"abc"}},
		"above limit":      {"diff_max": {"91"}},
		"negative":         {"grounded_min": {"-1"}},
		"grounded limit":   {"grounded_max": {"21"}},
		"unknown template": {"template": {"maybe"}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFilter(q, sampleRecords())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
