package main

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/FizzahNasir/FYP-Synkro/internal/app"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
)

type commandContext struct {
	logLevel *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(logLevel *string) *commandContext {
	return &commandContext{logLevel: logLevel}
}

// rawConfig reads the environment without checking provider credentials
func (c *commandContext) rawConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Read()
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if c.logLevel != nil && strings.TrimSpace(*c.logLevel) != "" {
		level = *c.logLevel
	}
	return logger.New(cfg.Server.Environment, level)
}

// openDB connects to the configured database only
func (c *commandContext) openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := c.rawConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.Database, cfg.Server.Environment, nil)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// openApp builds the full dependency graph, which requires a valid config
func (c *commandContext) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := c.rawConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := c.logger(cfg)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}
