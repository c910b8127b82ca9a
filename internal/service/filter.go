package service

import (
	"contenteval/internal/model"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SeverityOptions lists the repetition severities present in records, in first-seen order
func SeverityOptions(records []model.FlatRecord) []string {
	seen := make(map[string]bool)
	options := []string{}
	for _, r := range records {
		if !seen[r.RepetitionSeverity] {
			seen[r.RepetitionSeverity] = true
			options = append(options, r.RepetitionSeverity)
		}
	}
	return options
}

// DefaultFilter is the widest filter: full ranges and every observed value.
// Ranges stretch past the slider limits when a record lies beyond them.
func DefaultFilter(records []model.FlatRecord) model.FilterSpec {
	diffBound, groundedBound := rangeBounds(records)
	return model.FilterSpec{
		ScoreDiffMin: 0,
		ScoreDiffMax: diffBound,
		TemplateSet:  []bool{true, false},
		SeveritySet:  SeverityOptions(records),
		GroundedMin:  0,
		GroundedMax:  groundedBound,
	}
}

// rangeBounds returns the upper ends of the score diff and grounded ranges:
// the slider limits, or the largest observed value when that is higher.
func rangeBounds(records []model.FlatRecord) (diff, grounded int) {
	diff, grounded = model.ScoreDiffLimit, model.GroundedLimit
	for _, r := range records {
		if d := int(math.Ceil(r.ScoreDiff)); d > diff {
			diff = d
		}
		if r.GroundedCount > grounded {
			grounded = r.GroundedCount
		}
	}
	return diff, grounded
}

// Matcher evaluates one FilterSpec against records
type Matcher struct {
	spec       model.FilterSpec
	templates  map[bool]bool
	severities map[string]bool
}

// NewMatcher prepares a FilterSpec for repeated use
func NewMatcher(spec model.FilterSpec) *Matcher {
	m := &Matcher{
		spec:       spec,
		templates:  make(map[bool]bool, len(spec.TemplateSet)),
		severities: make(map[string]bool, len(spec.SeveritySet)),
	}
	for _, t := range spec.TemplateSet {
		m.templates[t] = true
	}
	for _, s := range spec.SeveritySet {
		m.severities[s] = true
	}
	return m
}

// Matches reports whether r passes every predicate
func (m *Matcher) Matches(r model.FlatRecord) bool {
	return r.ScoreDiff >= float64(m.spec.ScoreDiffMin) &&
		r.ScoreDiff <= float64(m.spec.ScoreDiffMax) &&
		m.templates[r.IsTemplate] &&
		m.severities[r.RepetitionSeverity] &&
		r.GroundedCount >= m.spec.GroundedMin &&
		r.GroundedCount <= m.spec.GroundedMax
}

// Filter returns the records passing spec, preserving order. The result is never nil.
func Filter(records []model.FlatRecord, spec model.FilterSpec) []model.FlatRecord {
	m := NewMatcher(spec)
	out := []model.FlatRecord{}
	for _, r := range records {
		if m.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// ParseFilter reads dashboard query parameters. Absent parameters take the
// widest setting; severity choices default to those present in records.
//
//	diff_min, diff_max        0..90 (or the largest diff in records)
//	template                  all | true | false
//	severity                  all | <value> (repeatable)
//	grounded_min, grounded_max 0..20 (or the largest count in records)
func ParseFilter(q url.Values, records []model.FlatRecord) (model.FilterSpec, error) {
	spec := DefaultFilter(records)
	diffBound, groundedBound := spec.ScoreDiffMax, spec.GroundedMax

	var err error
	if spec.ScoreDiffMin, err = rangeParam(q, "diff_min", spec.ScoreDiffMin, diffBound); err != nil {
		return spec, err
	}
	if spec.ScoreDiffMax, err = rangeParam(q, "diff_max", spec.ScoreDiffMax, diffBound); err != nil {
		return spec, err
	}
	if spec.GroundedMin, err = rangeParam(q, "grounded_min", spec.GroundedMin, groundedBound); err != nil {
		return spec, err
	}
	if spec.GroundedMax, err = rangeParam(q, "grounded_max", spec.GroundedMax, groundedBound); err != nil {
		return spec, err
	}

	switch strings.ToLower(q.Get("template")) {
	case "", "all":
	case "true":
		spec.TemplateSet = []bool{true}
	case "false":
		spec.TemplateSet = []bool{false}
	default:
		return spec, ValidationError(fmt.Sprintf("template must be all, true or false, got %q", q.Get("template")))
	}

	if severities, ok := q["severity"]; ok && !containsFold(severities, "all") {
		spec.SeveritySet = severities
	}
	return spec, nil
}

func rangeParam(q url.Values, key string, def, limit int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > limit {
		return 0, ValidationError(fmt.Sprintf("%s must be an integer between 0 and %d, got %q", key, limit, raw))
	}
	return v, nil
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
