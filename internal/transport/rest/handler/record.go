package handler

import (
	"contenteval/internal/model"
	"contenteval/internal/service"
	"contenteval/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// RecordHandler handles the evaluation records dashboard
type RecordHandler struct {
	dashboardSvc *service.DashboardService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(dashboardSvc *service.DashboardService) *RecordHandler {
	return &RecordHandler{dashboardSvc: dashboardSvc}
}

// List handles GET /v1/records
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	view, err := h.dashboardSvc.View(r.Context(), r.URL.Query(), session)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Refresh handles POST /v1/records/refresh
func (h *RecordHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardSvc.Refresh(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// Detail handles GET /v1/records/{id}/{group}
func (h *RecordHandler) Detail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	payload, err := h.dashboardSvc.FetchDetail(r.Context(), vars["id"], model.DetailGroup(vars["group"]))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !payload.Found {
		writeJSON(w, http.StatusNotFound, payload)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// ToggleResponse reports the new state of a detail group
type ToggleResponse struct {
	Expanded bool                 `json:"expanded"`
	Detail   *model.DetailPayload `json:"detail,omitempty"`
}

// Toggle handles POST /v1/records/{id}/{group}/toggle
func (h *RecordHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	vars := mux.Vars(r)

	expanded, payload, err := h.dashboardSvc.ToggleDetail(r.Context(), session, vars["id"], model.DetailGroup(vars["group"]))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ToggleResponse{Expanded: expanded, Detail: payload})
}
