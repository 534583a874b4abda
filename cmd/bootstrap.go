package cmd

import (
	"context"
	"fmt"

	"data-integrity/core/config"
	"data-integrity/core/dataset"
	"data-integrity/core/logger"
	"data-integrity/core/runner"

	"go.uber.org/zap"
)

// deps bundles the dependencies shared by the commands.
type deps struct {
	cfg    *config.Config
	log    *zap.Logger
	store  dataset.Store
	runner runner.Runner
}

// bootstrap loads the configuration, creates the logger and opens the dataset backend.
func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := dataset.Open(ctx, cfg.Dataset, cfg.Storage, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset backend %q: %w", cfg.Dataset.Driver, err)
	}
	logg.Debug("Opened dataset backend", zap.String("driver", cfg.Dataset.Driver))

	return &deps{
		cfg:    cfg,
		log:    logg,
		store:  store,
		runner: runner.NewHTTPRunner(cfg.Runner, logg),
	}, nil
}
