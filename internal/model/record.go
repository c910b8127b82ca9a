package model

import "time"

// FlatRecord is the dashboard projection of one stored evaluation document
type FlatRecord struct {
	ID                      string  `json:"id"`
	Score                   float64 `json:"score"`
	ExpectedScore           float64 `json:"expectedScore"`
	ScoreDiff               float64 `json:"scoreDiff"`
	Remark                  string  `json:"remark"`
	IsTemplate              bool    `json:"isTemplate"`
	RepetitionSeverity      string  `json:"repetitionSeverity"`
	Feedback                string  `json:"feedback"`
	TranscriptionPreview    string  `json:"transcriptionPreview"`
	GroundedElementsPreview string  `json:"groundedElementsPreview"`
	GroundedCount           int     `json:"groundedCount"`
	TemplateSignalsCount    int     `json:"templateSignalsCount"`

	// TemplateSignalsAvailable is set when the row offers the template-signals
	// detail: the response is a template and at least one signal was recorded
	TemplateSignalsAvailable bool `json:"templateSignalsAvailable"`
}

// RecordSnapshot is one normalized record set, the time it was built and the
// refresh generation it was built under
type RecordSnapshot struct {
	Records    []FlatRecord `json:"records"`
	ComputedAt time.Time    `json:"computedAt"`
	Generation int64        `json:"generation"`
}

// FilterSpec is a conjunction of range and set predicates over FlatRecords.
// Ranges are inclusive. An empty set matches nothing.
type FilterSpec struct {
	ScoreDiffMin int      `json:"scoreDiffMin"`
	ScoreDiffMax int      `json:"scoreDiffMax"`
	TemplateSet  []bool   `json:"templateSet"`
	SeveritySet  []string `json:"severitySet"`
	GroundedMin  int      `json:"groundedMin"`
	GroundedMax  int      `json:"groundedMax"`
}

// Slider bounds used by the dashboard
const (
	ScoreDiffLimit = 90
	GroundedLimit  = 20
)

// DetailGroup names a field group excluded from the flat projection
type DetailGroup string

const (
	DetailGroundedElements DetailGroup = "grounded_elements"
	DetailTemplateSignals  DetailGroup = "template_signals"
	DetailTranscription    DetailGroup = "transcription"
	DetailFullDocument     DetailGroup = "full_document"
)

// DetailGroups lists every group in display order
var DetailGroups = []DetailGroup{
	DetailTranscription,
	DetailGroundedElements,
	DetailTemplateSignals,
	DetailFullDocument,
}

// ParseDetailGroup validates a group name
func ParseDetailGroup(s string) (DetailGroup, bool) {
	for _, g := range DetailGroups {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// DetailPayload is the on-demand content of one field group for one record
type DetailPayload struct {
	ID       string                 `json:"id"`
	Group    DetailGroup            `json:"group"`
	Found    bool                   `json:"found"`
	Items    []string               `json:"items,omitempty"`
	Text     string                 `json:"text,omitempty"`
	Document map[string]interface{} `json:"document,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

// DashboardSummary aggregates the full record set
type DashboardSummary struct {
	Total       int     `json:"total"`
	AvgScore    float64 `json:"avgScore"`
	AvgExpected float64 `json:"avgExpected"`
	AvgDiff     float64 `json:"avgDiff"`
	Templates   int     `json:"templates"`
}

// ChartPoint is one row of the score vs expected chart
type ChartPoint struct {
	Index    int     `json:"index"`
	Score    float64 `json:"score"`
	Expected float64 `json:"expected"`
}

// DashboardView is everything the records page renders
type DashboardView struct {
	Empty           bool             `json:"empty"`
	Message         string           `json:"message,omitempty"`
	ComputedAt      time.Time        `json:"computedAt"`
	Summary         DashboardSummary `json:"summary"`
	SeverityOptions []string         `json:"severityOptions"`
	Filter          FilterSpec       `json:"filter"`
	FilteredCount   int              `json:"filteredCount"`
	Records         []FlatRecord     `json:"records"`
	Chart           []ChartPoint     `json:"chart"`
	Details         []DetailPayload  `json:"details,omitempty"`
}
