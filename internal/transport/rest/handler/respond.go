package handler

import (
	"contenteval/internal/service"
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError reports a classified failure with the operator-facing message
func writeServiceError(w http.ResponseWriter, err error) {
	kind := service.KindOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(kind))
	json.NewEncoder(w).Encode(map[string]string{
		"error": service.UserMessage(err),
		"kind":  string(kind),
	})
}

// statusFor maps an error kind to the HTTP status returned to our own clients.
// Failures of the scoring API are gateway errors, not client errors.
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuth, service.KindNotFound, service.KindServer, service.KindConnection:
		return http.StatusBadGateway
	case service.KindTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
