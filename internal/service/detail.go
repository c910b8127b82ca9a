package service

import (
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"contenteval/internal/repository"
	"context"
	"fmt"
)

// DetailFetcher loads the fields left out of FlatRecord, one record and group at a time.
// Nothing is cached: every call reads the store.
type DetailFetcher struct {
	repo repository.EvaluationRepo
}

// NewDetailFetcher creates a detail fetcher
func NewDetailFetcher(repo repository.EvaluationRepo) *DetailFetcher {
	return &DetailFetcher{repo: repo}
}

// FetchDetail returns the group's content for record id. A missing record is
// reported through DetailPayload.Found, not as an error.
func (f *DetailFetcher) FetchDetail(ctx context.Context, id string, group model.DetailGroup) (*model.DetailPayload, error) {
	if _, ok := model.ParseDetailGroup(string(group)); !ok {
		return nil, ValidationError(fmt.Sprintf("unknown detail group %q", group))
	}

	doc, err := f.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", id, err)
	}

	payload := &model.DetailPayload{ID: id, Group: group}
	if doc == nil {
		payload.Message = "Record not found"
		return payload, nil
	}
	payload.Found = true

	response := doc.Get("evaluation_response")
	evidence := response.Get("agent_2_template_detector", "output", "evidence")

	switch group {
	case model.DetailGroundedElements:
		payload.Items = evidence.Get("grounded_elements_found").Strings()
		if len(payload.Items) == 0 {
			payload.Message = "No grounded elements found"
		}
	case model.DetailTemplateSignals:
		payload.Items = evidence.Get("generic_template_signals").Strings()
		if len(payload.Items) == 0 {
			payload.Message = "No template signals found"
		}
	case model.DetailTranscription:
		payload.Text = response.Get("transcription").String()
	case model.DetailFullDocument:
		payload.Document, _ = doctree.Plain(doc).(map[string]interface{})
	}
	return payload, nil
}
