package service

import (
	"bytes"
	"contenteval/internal/config"
	"contenteval/internal/doctree"
	"contenteval/internal/model"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// Scorer submits a description and transcription to the scoring API
type Scorer interface {
	Evaluate(ctx context.Context, settings model.Settings, description, transcription string) (doctree.Tree, error)
}

// ScoringClient wraps the remote content scoring API
type ScoringClient struct {
	httpClient *http.Client
}

type scoringRequest struct {
	ImageDescription string `json:"image_description"`
	Transcription    string `json:"transcription"`
	Token            string `json:"token"`
}

// NewScoringClient creates a scoring client. TLS verification stays on unless
// the configuration explicitly opts out.
func NewScoringClient(cfg *config.ScoringConfig) *ScoringClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		log.Println("[Scoring] WARNING: TLS certificate verification is disabled")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in
	}

	return &ScoringClient{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
	}
}

// Evaluate posts one evaluation request. Failures are classified *Error values; nothing is retried.
func (c *ScoringClient) Evaluate(ctx context.Context, settings model.Settings, description, transcription string) (doctree.Tree, error) {
	jsonBody, err := json.Marshal(scoringRequest{
		ImageDescription: description,
		Transcription:    transcription,
		Token:            settings.APIToken,
	})
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}

	endpoint := config.Endpoint(settings.APIURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[Scoring] POST %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classifyTransportError(err)
		log.Printf("[Scoring] ERROR: request failed (%s): %v", classified.Kind, err)
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	log.Printf("[Scoring] Response status: %d, body length: %d bytes", resp.StatusCode, len(body))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, &Error{Kind: KindAuth, Status: resp.StatusCode}
	case http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Status: resp.StatusCode}
	default:
		return nil, &Error{Kind: KindServer, Status: resp.StatusCode, Body: string(body)}
	}

	var result doctree.Tree
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to parse scoring response: %w", err)}
	}
	if result == nil {
		result = doctree.Tree{}
	}
	return result, nil
}
