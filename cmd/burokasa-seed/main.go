// Command burokasa-seed fills the configured backend with a demo office so
// the dashboard has something to show on a fresh install.
package main

import (
	"context"
	"os"

	"burokasa/internal/backend"
	"burokasa/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	n, err := cli.SeedDemoRecords(context.Background(), store)
	if err != nil {
		logger.Error("Seeding failed", "error", err, "inserted", n)
		os.Exit(1)
	}
	logger.Info("Demo records seeded", "count", n, "backend", cfg.DataBackend)
}
