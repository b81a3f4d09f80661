package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/server"
)

var (
	serveConfigPath string
	servePort       int
	serveThreshold  float64
	serveWorkers    int
	serveJSONLogs   bool
	serveDebug      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for computing, listing, and acknowledging candidate matches.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file (optional)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().Float64Var(&serveThreshold, "threshold", 0, "Deterministic score accepted without LLM escalation (overrides config)")
	serveCmd.Flags().IntVar(&serveWorkers, "max-concurrent", 0, "Cap on parallel per-job scoring (overrides config)")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Emit JSON-encoded logs")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig builds the effective configuration from file, environment, and
// flags, with later sources winning.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()

	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveThreshold != 0 {
		cfg.AcceptanceThreshold = serveThreshold
	}
	if serveWorkers != 0 {
		cfg.MaxConcurrentScores = serveWorkers
	}
	cfg.LogJSON = cfg.LogJSON || serveJSONLogs
	cfg.Debug = cfg.Debug || serveDebug

	merged := cfg.MergeWithDefaults(config.Config{Port: 8080})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
