package service

import (
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// severityPenalties is the penalty, in percentage points, narrated for each repetition severity
var severityPenalties = map[string]int{
	model.SeverityNone:     0,
	model.SeverityLow:      5,
	model.SeverityModerate: 12,
	model.SeverityHigh:     20,
}

const conclusionBonusPoints = 5

// PenaltyFor returns the penalty for a severity; unknown severities cost nothing
func PenaltyFor(severity string) int {
	return severityPenalties[severity]
}

// ConclusionBonus returns the bonus for a detected conclusion marker
func ConclusionBonus(present bool) int {
	if present {
		return conclusionBonusPoints
	}
	return 0
}

// DeriveBreakdown computes the display values for a scoring response without
// modifying it. The server's score is reported as-is.
func DeriveBreakdown(resp doctree.Tree) model.Breakdown {
	final := resp.Get("final_result")
	contentScorer := resp.Get("agent_1_content_scorer", "output")
	templateDetector := resp.Get("agent_2_template_detector", "output")

	repetition := ParseRepetition(final.Get("repetition_analysis"))
	severity := repetition.Severity
	if severity == "" {
		severity = model.SeverityNone
	}

	b := model.Breakdown{
		Score:             final.Get("score").Float(),
		PTEScore:          final.Get("score_out_of_90").Float(),
		ContentScore:      templateDetector.Get("content_score_90").Float(),
		Severity:          severity,
		SeverityLabel:     cases.Title(language.English).String(severity),
		Penalty:           PenaltyFor(severity),
		ConclusionPresent: contentScorer.Get("evidence", "conclusion_marker_present").Bool(),
		IsTemplate:        final.Get("is_template").Bool(),
		TemplateDetected:  templateDetector.Get("template_detected").Bool(),
		Feedback:          final.Get("final_feedback").StringOr("No feedback available"),
		Repetition:        repetition,
		ContentScorer:     plainMap(contentScorer),
		TemplateDetector:  plainMap(templateDetector),
	}
	b.ConclusionBonus = ConclusionBonus(b.ConclusionPresent)
	b.Performance = PerformanceFor(b.Score)
	if b.TemplateDetected {
		b.TemplateFeedback = templateDetector.Get("feedback").String()
	}

	if b.IsTemplate {
		b.Explanation = fmt.Sprintf("Template detected → Final score set to %s%% (original content score: %s%%)",
			FormatScore(b.Score), FormatScore(b.ContentScore))
	} else {
		b.Explanation = fmt.Sprintf("%s%% (content) - %d%% (penalty) + %d%% (bonus) = %s%%",
			FormatScore(b.ContentScore), b.Penalty, b.ConclusionBonus, FormatScore(b.Score))
	}
	return b
}

// PerformanceFor buckets a final score into the result banner
func PerformanceFor(score float64) model.Performance {
	s := FormatScore(score)
	switch {
	case score >= 70:
		return model.Performance{
			Level:   model.PerformanceExcellent,
			Label:   "Excellent",
			Message: fmt.Sprintf("Excellent! Score: %s%% - Strong performance", s),
		}
	case score >= 40:
		return model.Performance{
			Level:   model.PerformanceFair,
			Label:   "Fair",
			Message: fmt.Sprintf("Fair. Score: %s%% - Room for improvement", s),
		}
	}
	return model.Performance{
		Level:   model.PerformanceNeedsWork,
		Label:   "Needs Work",
		Message: fmt.Sprintf("Needs Work. Score: %s%% - Significant improvement needed", s),
	}
}

// ParseRepetition reads a repetition_analysis node; null or absent yields an empty analysis
func ParseRepetition(n doctree.Node) model.RepetitionAnalysis {
	r := model.RepetitionAnalysis{
		Severity: n.Get("severity").String(),
	}
	for _, item := range n.Get("phrase_repetition").Nodes() {
		r.PhraseRepetition = append(r.PhraseRepetition, model.PhraseCount{
			Phrase: item.Get("phrase").String(),
			Count:  item.Get("count").Int(),
		})
	}
	for _, item := range n.Get("structure_repetition").Nodes() {
		r.StructureRepetition = append(r.StructureRepetition, model.PatternCount{
			Pattern: item.Get("pattern").String(),
			Count:   item.Get("count").Int(),
		})
	}
	for _, item := range n.Get("connector_overuse").Nodes() {
		r.ConnectorOveruse = append(r.ConnectorOveruse, model.ConnectorCount{
			Connector: item.Get("connector").String(),
			Count:     item.Get("count").Int(),
		})
	}
	return r
}

// FormatScore prints whole scores without a fractional part
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plainMap(n doctree.Node) map[string]interface{} {
	m, _ := doctree.Plain(n.Map()).(map[string]interface{})
	return m
}
