package app

import (
	"contenteval/internal/cache"
	"contenteval/internal/config"
	"contenteval/internal/repository"
	"contenteval/internal/service"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pingTimeout = 5 * time.Second

// App holds the store connections and the services wired on top of them
type App struct {
	Config *config.Config
	Mongo  *mongo.Client
	Redis  *redis.Client

	EvaluationRepo repository.EvaluationRepo
	SessionCache   cache.SessionCache
	RecordCache    cache.RecordCache

	Sessions  *service.SessionService
	Auth      *service.AuthService
	Evaluator *service.EvaluatorService
	Dashboard *service.DashboardService
}

// New connects to MongoDB and Redis and builds every service
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	mongoClient, err := ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to MongoDB")

	rdb, err := ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	log.Println("Connected to Redis")

	a := &App{
		Config:         cfg,
		Mongo:          mongoClient,
		Redis:          rdb,
		EvaluationRepo: repository.NewEvaluationRepo(mongoClient.Database(cfg.MongoDatabase), cfg.MongoCollection),
		SessionCache:   cache.NewSessionCache(rdb, cfg.SessionTTL),
		RecordCache:    cache.NewRecordCache(rdb, cfg.MongoCollection, cfg.RecordCacheTTL),
	}

	a.Sessions = service.NewSessionService(a.SessionCache, &cfg.Scoring)
	a.Auth = service.NewAuthService(cfg.Auth, a.Sessions, cfg.SessionTTL)
	a.Evaluator = service.NewEvaluatorService(service.NewScoringClient(&cfg.Scoring), a.Sessions)
	a.Dashboard = service.NewDashboardService(a.EvaluationRepo, a.RecordCache, a.Sessions, cfg.RecordCacheTTL)
	return a, nil
}

// SetBroadcaster injects the broadcaster into every service that emits events
func (a *App) SetBroadcaster(b service.Broadcaster) {
	a.Evaluator.SetBroadcaster(b)
	a.Dashboard.SetBroadcaster(b)
}

// Close releases both store connections
func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		log.Printf("Failed to close Redis: %v", err)
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		log.Printf("Failed to disconnect MongoDB: %v", err)
	}
}

// ConnectMongo opens a client and verifies the server answers
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// ConnectRedis opens a client and verifies the server answers
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return rdb, nil
}
