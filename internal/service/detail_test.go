package service

import (
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"contenteval/internal/repository/mocks"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/mock/gomock"
)

func TestFetchDetail_Groups(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepo(ctrl)
	doc := storedDocument("rec-1", 60, 70, "low", []interface{}{"man", "dog"})
	repo.EXPECT().FindByID(gomock.Any(), "rec-1").Return(doc, nil).Times(4)

	fetcher := NewDetailFetcher(repo)
	ctx := context.Background()

	grounded, err := fetcher.FetchDetail(ctx, "rec-1", model.DetailGroundedElements)
	require.NoError(t, err)
	assert.True(t, grounded.Found)
	assert.Equal(t, []string{"man", "dog"}, grounded.Items)
	assert.Empty(t, grounded.Message)

	signals, err := fetcher.FetchDetail(ctx, "rec-1", model.DetailTemplateSignals)
	require.NoError(t, err)
	assert.Equal(t, []string{"this image shows"}, signals.Items)

	text, err := fetcher.FetchDetail(ctx, "rec-1", model.DetailTranscription)
	require.NoError(t, err)
	assert.Equal(t, "the man walks the dog", text.Text)

	full, err := fetcher.FetchDetail(ctx, "rec-1", model.DetailFullDocument)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", full.Document["_id"])
	assert.Contains(t, full.Document, "evaluation_response")
}

func TestFetchDetail_EmptyLists(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepo(ctrl)
	doc := doctree.Tree{"_id": "rec-2", "evaluation_response": bson.M{}}
	repo.EXPECT().FindByID(gomock.Any(), "rec-2").Return(doc, nil).Times(2)

	fetcher := NewDetailFetcher(repo)

	grounded, err := fetcher.FetchDetail(context.Background(), "rec-2", model.DetailGroundedElements)
	require.NoError(t, err)
	assert.Empty(t, grounded.Items)
	assert.Equal(t, "No grounded elements found", grounded.Message)

	signals, err := fetcher.FetchDetail(context.Background(), "rec-2", model.DetailTemplateSignals)
	require.NoError(t, err)
	assert.Equal(t, "No template signals found", signals.Message)
}

func TestFetchDetail_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepo(ctrl)
	repo.EXPECT().FindByID(gomock.Any(), "missing").Return(nil, nil)

	payload, err := NewDetailFetcher(repo).FetchDetail(context.Background(), "missing", model.DetailTranscription)
	require.NoError(t, err)
	assert.False(t, payload.Found)
	assert.Equal(t, "Record not found", payload.Message)
}

func TestFetchDetail_UnknownGroupSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepo(ctrl)

	_, err := NewDetailFetcher(repo).FetchDetail(context.Background(), "rec-1", model.DetailGroup("scores"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFetchDetail_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepo(ctrl)
	repo.EXPECT().FindByID(gomock.Any(), "rec-1").Return(nil, errors.New("mongo down"))

	_, err := NewDetailFetcher(repo).FetchDetail(context.Background(), "rec-1", model.DetailTranscription)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo down")
}
