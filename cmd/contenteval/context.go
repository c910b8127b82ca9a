package main

import (
	"contenteval/internal/app"
	"contenteval/internal/cache"
	"contenteval/internal/config"
	"contenteval/internal/repository"
	"contenteval/internal/service"
	"context"
	"strings"
	"sync"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withDashboard runs fn against a dashboard backed directly by MongoDB.
// The CLI keeps no shared cache tier and no session.
func (c *commandContext) withDashboard(ctx context.Context, fn func(*service.DashboardService) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	client, err := app.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewEvaluationRepo(client.Database(cfg.MongoDatabase), cfg.MongoCollection)
	return fn(service.NewDashboardService(repo, nil, nil, cfg.RecordCacheTTL))
}

// withRecordCache runs fn against the shared Redis record snapshot
func (c *commandContext) withRecordCache(ctx context.Context, fn func(cache.RecordCache) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	rdb, err := app.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer rdb.Close()

	return fn(cache.NewRecordCache(rdb, cfg.MongoCollection, cfg.RecordCacheTTL))
}
