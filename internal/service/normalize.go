package service

import (
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"math"
	"strings"
)

const (
	transcriptionPreviewRunes = 100
	groundedPreviewItems      = 3
	ellipsis                  = "..."
)

// Normalize projects stored evaluation documents into flat dashboard records.
// It never fails: absent fields take their zero defaults.
func Normalize(docs []doctree.Tree) []model.FlatRecord {
	records := make([]model.FlatRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, NormalizeDocument(doc))
	}
	return records
}

// NormalizeDocument projects one stored document
func NormalizeDocument(doc doctree.Tree) model.FlatRecord {
	response := doc.Get("evaluation_response")
	final := response.Get("final_result")
	evidence := response.Get("agent_2_template_detector", "output", "evidence")

	score := final.Get("score_out_of_90").Float()
	expected := doc.Get("expected_score").Float()
	grounded := evidence.Get("grounded_elements_found").Strings()
	isTemplate := final.Get("is_template").Bool()
	signals := evidence.Get("generic_template_signals").Len()

	return model.FlatRecord{
		ID:                       doc.Get("_id").ID(),
		Score:                    score,
		ExpectedScore:            expected,
		ScoreDiff:                math.Abs(score - expected),
		Remark:                   doc.Get("student_remark").String(),
		IsTemplate:               isTemplate,
		RepetitionSeverity:       final.Get("repetition_analysis", "severity").String(),
		Feedback:                 final.Get("final_feedback").String(),
		TranscriptionPreview:     TranscriptionPreview(response.Get("transcription").String()),
		GroundedElementsPreview:  GroundedPreview(grounded),
		GroundedCount:            len(grounded),
		TemplateSignalsCount:     signals,
		TemplateSignalsAvailable: isTemplate && signals > 0,
	}
}

// TranscriptionPreview keeps the first 100 characters and always appends the
// ellipsis, even when nothing was cut.
func TranscriptionPreview(s string) string {
	runes := []rune(s)
	if len(runes) > transcriptionPreviewRunes {
		runes = runes[:transcriptionPreviewRunes]
	}
	return string(runes) + ellipsis
}

// GroundedPreview joins the first three elements; the ellipsis marks omitted ones
func GroundedPreview(items []string) string {
	if len(items) <= groundedPreviewItems {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:groundedPreviewItems], ", ") + ellipsis
}
