package handler

import (
	"contenteval/internal/model"
	"contenteval/internal/service"
	"contenteval/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
)

// EvaluationHandler handles evaluation and history endpoints
type EvaluationHandler struct {
	evaluatorSvc *service.EvaluatorService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluatorSvc *service.EvaluatorService) *EvaluationHandler {
	return &EvaluationHandler{evaluatorSvc: evaluatorSvc}
}

// Evaluate handles POST /v1/evaluations
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.evaluatorSvc.Evaluate(r.Context(), session, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// History handles GET /v1/history
func (h *EvaluationHandler) History(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, h.evaluatorSvc.History(session))
}

// ClearHistory handles DELETE /v1/history
func (h *EvaluationHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.evaluatorSvc.ClearHistory(r.Context(), session); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.evaluatorSvc.History(session))
}
