package render

import (
	"contenteval/internal/model"
	"contenteval/internal/service"
	"fmt"
	"strconv"
	"strings"
)

func performanceColor(level model.PerformanceLevel) string {
	switch level {
	case model.PerformanceExcellent:
		return ansiGreen
	case model.PerformanceFair:
		return ansiYellow
	case model.PerformanceNeedsWork:
		return ansiRed
	}
	return ""
}

func section(title string, colorize bool) string {
	return paint("== "+title+" ==", ansiBlue, colorize)
}

// Breakdown renders an evaluation result the way the evaluator page lays it out
func Breakdown(b model.Breakdown, colorize bool) string {
	var sb strings.Builder

	sb.WriteString(paint(b.Performance.Message, performanceColor(b.Performance.Level), colorize))
	sb.WriteString("\n\n")

	sb.WriteString(Table(
		[]string{"Metric", "Value"},
		[][]string{
			{"Final Score", service.FormatScore(b.Score) + "%"},
			{"PTE Score", service.FormatScore(b.PTEScore) + "/90"},
			{"Content Score", service.FormatScore(b.ContentScore) + "%"},
			{"Repetition Penalty", fmt.Sprintf("-%d%% (%s)", b.Penalty, b.SeverityLabel)},
			{"Conclusion Bonus", fmt.Sprintf("+%d%%", b.ConclusionBonus)},
			{"Template", yesNo(b.IsTemplate)},
		},
		[]Alignment{AlignLeft, AlignRight},
	))
	sb.WriteString("\n\n")

	sb.WriteString(section("Score Breakdown", colorize))
	sb.WriteString("\n")
	sb.WriteString(b.Explanation)
	sb.WriteString("\n\n")

	sb.WriteString(section("Feedback", colorize))
	sb.WriteString("\n")
	sb.WriteString(b.Feedback)
	sb.WriteString("\n")
	if b.TemplateDetected {
		sb.WriteString("\n")
		sb.WriteString(paint("Template detected: "+b.TemplateFeedback, ansiRed, colorize))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(section("Repetition Analysis", colorize))
	sb.WriteString("\n")
	sb.WriteString(Repetition(b.Repetition))
	return sb.String()
}

// Repetition renders the three repetition lists, or a notice when all are empty
func Repetition(r model.RepetitionAnalysis) string {
	if !r.HasRepetition() {
		return "No significant repetition detected\n"
	}

	var rows [][]string
	for _, p := range r.PhraseRepetition {
		rows = append(rows, []string{"Phrase", p.Phrase, strconv.Itoa(p.Count)})
	}
	for _, p := range r.StructureRepetition {
		rows = append(rows, []string{"Structure", p.Pattern, strconv.Itoa(p.Count)})
	}
	for _, c := range r.ConnectorOveruse {
		rows = append(rows, []string{"Connector", c.Connector, strconv.Itoa(c.Count)})
	}
	return Table([]string{"Kind", "Text", "Count"}, rows, []Alignment{AlignLeft, AlignLeft, AlignRight}) + "\n"
}

// History renders the sidebar list, newest first
func History(v model.HistoryView) string {
	if len(v.Recent) == 0 {
		return "No evaluations yet\n"
	}

	rows := make([][]string, 0, len(v.Recent))
	for _, item := range v.Recent {
		template := ""
		if item.Template {
			template = "Template"
		}
		rows = append(rows, []string{
			"#" + strconv.Itoa(item.Ordinal),
			item.Clock(),
			service.FormatScore(item.Score) + "%",
			template,
		})
	}
	out := Table([]string{"#", "Time", "Score", ""}, rows, []Alignment{AlignRight, AlignLeft, AlignRight, AlignLeft})
	return fmt.Sprintf("%s\nTotal evaluations: %d\n", out, v.Total)
}
