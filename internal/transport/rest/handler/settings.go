package handler

import (
	"contenteval/internal/model"
	"contenteval/internal/service"
	"contenteval/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
)

// SettingsHandler handles the per-session scoring API settings
type SettingsHandler struct {
	sessionSvc *service.SessionService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(sessionSvc *service.SessionService) *SettingsHandler {
	return &SettingsHandler{sessionSvc: sessionSvc}
}

// Get handles GET /v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, session.Settings.View())
}

// Update handles PUT /v1/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessionSvc.UpdateSettings(r.Context(), session, req); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session.Settings.View())
}
