package rest

import (
	"contenteval/internal/service"
	"contenteval/internal/transport/rest/handler"
	"contenteval/internal/transport/rest/middleware"
	"contenteval/internal/transport/ws"
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	SessionService   *service.SessionService
	EvaluatorService *service.EvaluatorService
	DashboardService *service.DashboardService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.SessionService)
	settingsHandler := handler.NewSettingsHandler(c.SessionService)
	evaluationHandler := handler.NewEvaluationHandler(c.EvaluatorService)
	recordHandler := handler.NewRecordHandler(c.DashboardService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService, c.SessionService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/session", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Operator routes (require operator auth)
	operatorRoutes := v1.NewRoute().Subrouter()
	operatorRoutes.Use(authMW.RequireOperator)

	operatorRoutes.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	operatorRoutes.HandleFunc("/settings", settingsHandler.Get).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/settings", settingsHandler.Update).Methods("PUT", "OPTIONS")
	operatorRoutes.HandleFunc("/evaluations", evaluationHandler.Evaluate).Methods("POST", "OPTIONS")
	operatorRoutes.HandleFunc("/history", evaluationHandler.History).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/history", evaluationHandler.ClearHistory).Methods("DELETE", "OPTIONS")

	// Dashboard routes
	operatorRoutes.HandleFunc("/records", recordHandler.List).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/records/refresh", recordHandler.Refresh).Methods("POST", "OPTIONS")
	operatorRoutes.HandleFunc("/records/{id}/{group}", recordHandler.Detail).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/records/{id}/{group}/toggle", recordHandler.Toggle).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
