// Package main provides the ontology registry CLI, the front end for
// creating ontologies, uploading submissions, and triggering parses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/martin/ontology-registry/internal/config"
	"github.com/martin/ontology-registry/internal/db"
	"github.com/martin/ontology-registry/internal/filerepo"
	"github.com/martin/ontology-registry/internal/lifecycle"
	"github.com/martin/ontology-registry/internal/parsejob"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ontology_registry",
	Short: "Ontology submission lifecycle manager",
	Long:  "Manages versioned ontology submissions: upload staging, validation, and asynchronous parsing with per-run logs.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the optional config file with environment variables and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}
	cfg.Merge(config.FromEnv())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newManager wires the lifecycle manager from configuration. The returned
// cleanup drains running parse jobs and closes the database pool.
func newManager(ctx context.Context) (*lifecycle.Manager, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}

	files := filerepo.New(cfg.RepositoryRoot)
	parser := &parsejob.ExecParser{Command: cfg.ParserCommand}
	runner := parsejob.NewRunner(database, parser, parsejob.Config{
		LogDir:    cfg.ParseLogDir,
		Workers:   cfg.ParseWorkers,
		QueueSize: cfg.ParseQueueSize,
	}, nil)

	cleanup := func() {
		runner.Close()
		database.Close()
	}
	return lifecycle.New(database, files, runner), cleanup, nil
}
