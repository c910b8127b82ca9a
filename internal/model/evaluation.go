package model

import "time"

// Severity levels reported by the upstream repetition analysis
const (
	SeverityNone     = "none"
	SeverityLow      = "low"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
)

// PhraseCount is a repeated phrase and how often it occurred
type PhraseCount struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// PatternCount is a repeated sentence structure
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// ConnectorCount is an overused connector word
type ConnectorCount struct {
	Connector string `json:"connector"`
	Count     int    `json:"count"`
}

// RepetitionAnalysis mirrors final_result.repetition_analysis. Absent lists are empty.
type RepetitionAnalysis struct {
	Severity            string           `json:"severity"`
	PhraseRepetition    []PhraseCount    `json:"phraseRepetition"`
	StructureRepetition []PatternCount   `json:"structureRepetition"`
	ConnectorOveruse    []ConnectorCount `json:"connectorOveruse"`
}

// HasRepetition reports whether any repetition list is non-empty
func (r RepetitionAnalysis) HasRepetition() bool {
	return len(r.PhraseRepetition) > 0 || len(r.StructureRepetition) > 0 || len(r.ConnectorOveruse) > 0
}

// PerformanceLevel buckets the final score for the result banner
type PerformanceLevel string

const (
	PerformanceExcellent PerformanceLevel = "excellent"
	PerformanceFair      PerformanceLevel = "fair"
	PerformanceNeedsWork PerformanceLevel = "needs_work"
)

// Performance is the banner shown above a result
type Performance struct {
	Level   PerformanceLevel `json:"level"`
	Label   string           `json:"label"`
	Message string           `json:"message"`
}

// Breakdown holds the display values derived from a scoring response.
// Score is always the server's value; the formula in Explanation is narrative only.
type Breakdown struct {
	Score             float64 `json:"score"`
	PTEScore          float64 `json:"pteScore"`
	ContentScore      float64 `json:"contentScore"`
	Severity          string  `json:"severity"`
	SeverityLabel     string  `json:"severityLabel"`
	Penalty           int     `json:"penalty"`
	ConclusionPresent bool    `json:"conclusionPresent"`
	ConclusionBonus   int     `json:"conclusionBonus"`

	IsTemplate       bool `json:"isTemplate"`       // final_result.is_template
	TemplateDetected bool `json:"templateDetected"` // template detector verdict

	Performance      Performance        `json:"performance"`
	Explanation      string             `json:"explanation"`
	Feedback         string             `json:"feedback"`
	TemplateFeedback string             `json:"templateFeedback,omitempty"`
	Repetition       RepetitionAnalysis `json:"repetition"`

	ContentScorer    map[string]interface{} `json:"contentScorer"`
	TemplateDetector map[string]interface{} `json:"templateDetector"`
}

// EvaluationResult is returned for a successful evaluation
type EvaluationResult struct {
	Breakdown Breakdown              `json:"breakdown"`
	Entry     HistoryEntry           `json:"historyEntry"`
	Raw       map[string]interface{} `json:"raw"`
}

// EvaluateRequest is the body of POST /v1/evaluations
type EvaluateRequest struct {
	Description   string `json:"description"`
	Transcription string `json:"transcription"`
}

// HistoryEntry is a compact record of one successful evaluation in a session
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
	Template  bool      `json:"template"`
}

// Clock renders the entry time the way the history sidebar shows it
func (e HistoryEntry) Clock() string {
	return e.Timestamp.Format("15:04:05")
}
