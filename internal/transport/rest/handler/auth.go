package handler

import (
	"contenteval/internal/model"
	"contenteval/internal/service"
	"contenteval/internal/transport/rest/middleware"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc    *service.AuthService
	sessionSvc *service.SessionService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, sessionSvc *service.SessionService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessionSvc: sessionSvc}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, service.ErrLoginDisabled):
		writeError(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /v1/auth/logout. The session's history and settings are
// dropped; a token still in use afterwards starts from an empty session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.sessionSvc.End(r.Context(), session); err != nil {
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	log.Printf("Operator %s logged out of session %s", middleware.GetOperatorID(r.Context()), session.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
