package main

import (
	"fmt"

	"github.com/kofadam/asahi-x-family/internal/config"
	"github.com/kofadam/asahi-x-family/internal/domain/achievement"
	"github.com/kofadam/asahi-x-family/internal/domain/progression"
	"github.com/kofadam/asahi-x-family/internal/domain/srs"
	"github.com/kofadam/asahi-x-family/internal/engine"
)

// buildEngine assembles the engine from configuration. An empty lesson list
// keeps the built-in catalog.
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	scheduler, err := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		RequestRetention: cfg.Scheduler.RequestRetention,
		MaximumInterval:  cfg.Scheduler.MaximumInterval,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create review scheduler: %w", err)
	}

	catalog := progression.DefaultCatalog()
	if len(cfg.Progression.Lessons) > 0 {
		catalog, err = progression.NewCatalog(cfg.Progression.Lessons)
		if err != nil {
			return nil, fmt.Errorf("failed to load lesson catalog: %w", err)
		}
	}

	return engine.New(
		scheduler,
		progression.NewGate(catalog),
		achievement.DefaultEvaluator(),
		cfg.Progression.XP,
	), nil
}
