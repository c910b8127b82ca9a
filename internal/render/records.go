package render

import (
	"contenteval/internal/model"
	"fmt"
	"strconv"
	"strings"
)

// Records renders the dashboard: summary, then the filtered table
func Records(view *model.DashboardView) string {
	if view.Empty {
		return view.Message + "\n"
	}

	var sb strings.Builder
	s := view.Summary
	sb.WriteString(Table(
		[]string{"Total", "Avg Score", "Avg Expected", "Avg Diff", "Templates"},
		[][]string{{
			strconv.Itoa(s.Total),
			formatFloat(s.AvgScore),
			formatFloat(s.AvgExpected),
			formatFloat(s.AvgDiff),
			strconv.Itoa(s.Templates),
		}},
		[]Alignment{AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Showing %d of %d records", view.FilteredCount, s.Total)
	if !view.ComputedAt.IsZero() {
		fmt.Fprintf(&sb, " (loaded %s)", view.ComputedAt.Local().Format("15:04:05"))
	}
	sb.WriteString("\n")
	if len(view.Records) == 0 {
		return sb.String()
	}

	rows := make([][]string, 0, len(view.Records))
	for _, r := range view.Records {
		rows = append(rows, []string{
			r.ID,
			formatFloat(r.Score),
			formatFloat(r.ExpectedScore),
			formatFloat(r.ScoreDiff),
			r.Remark,
			yesNo(r.IsTemplate),
			templateSignals(r),
			r.RepetitionSeverity,
			strconv.Itoa(r.GroundedCount),
			r.GroundedElementsPreview,
			r.TranscriptionPreview,
		})
	}
	sb.WriteString(Table(
		[]string{"ID", "Score", "Expected", "Diff", "Remark", "Template", "Signals", "Repetition", "Grounded", "Elements", "Transcription"},
		rows,
		[]Alignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignRight},
	))
	sb.WriteString("\n")
	return sb.String()
}

// Detail renders one field group of one record
func Detail(p *model.DetailPayload) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s: %s ==\n", p.ID, p.Group)
	if !p.Found || p.Message != "" {
		sb.WriteString(p.Message)
		sb.WriteString("\n")
		return sb.String()
	}

	switch p.Group {
	case model.DetailGroundedElements, model.DetailTemplateSignals:
		for _, item := range p.Items {
			sb.WriteString("  - ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
	case model.DetailTranscription:
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	case model.DetailFullDocument:
		sb.WriteString(indentJSON(p.Document))
		sb.WriteString("\n")
	}
	return sb.String()
}

// templateSignals shows the signal count only where the detail can be opened
func templateSignals(r model.FlatRecord) string {
	if !r.TemplateSignalsAvailable {
		return "-"
	}
	return strconv.Itoa(r.TemplateSignalsCount)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
