package main

import (
	"contenteval/internal/app"
	"contenteval/internal/config"
	"contenteval/internal/transport/rest"
	"contenteval/internal/transport/ws"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	log.Printf("Scoring Config:")
	log.Printf("  Endpoint:  %s", config.Endpoint(cfg.Scoring.BaseURL))
	log.Printf("  Timeout:   %s", cfg.Scoring.Timeout())
	if cfg.Scoring.IsEnabled() {
		log.Println("  API Token: configured ✓")
	} else {
		log.Println("  API Token: NOT SET (operators must configure settings per session)")
	}
	log.Printf("Records: %s/%s (cache ttl %s)", cfg.MongoDatabase, cfg.MongoCollection, cfg.RecordCacheTTL)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(ctx)

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:      a.Auth,
		SessionService:   a.Sessions,
		EvaluatorService: a.Evaluator,
		DashboardService: a.Dashboard,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Operator auth: username=%s", cfg.Auth.Username)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/auth/logout")
		log.Println("  GET/PUT /v1/settings")
		log.Println("  POST /v1/evaluations")
		log.Println("  GET/DELETE /v1/history")
		log.Println("  GET  /v1/records")
		log.Println("  POST /v1/records/refresh")
		log.Println("  GET  /v1/records/{id}/{group}")
		log.Println("  POST /v1/records/{id}/{group}/toggle")
		log.Println("  WS  /v1/ws/session")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
