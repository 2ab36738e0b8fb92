// cmd/ballpit/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/logging"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), "")

	configPath := flag.String("config", config.ConfigPath("ballpit.json"), "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	ticks := flag.Int("ticks", -1, "Number of ticks to run, 0 runs until interrupted (overrides config)")
	seed := flag.Uint64("seed", 0, "Random seed for the population (overrides config)")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	simConfig, err := loadConfig(*configPath, *ticks, *seed)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, simConfig, logger); err != nil {
		logger.Error(ctx, "Simulation failed", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads path, falling back to defaults when it is missing, then
// layers environment overrides and flags on top. Negative ticks and a zero
// seed leave the config untouched.
func loadConfig(path string, ticks int, seed uint64) (*config.SimConfig, error) {
	simConfig, err := config.LoadConfigOrDefault(path)
	if err != nil {
		return nil, err
	}
	simConfig.ApplyEnvironmentOverrides()
	if ticks >= 0 {
		simConfig.Run.Ticks = ticks
	}
	if seed != 0 {
		simConfig.Bodies.Seed = seed
	}
	if err := simConfig.Validate(); err != nil {
		return nil, err
	}
	return simConfig, nil
}
