// Command statesd scrapes country facts from the encyclopedia site, loads
// them into sqlite, and serves the query API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PetruGlt/StatesOfTheWorld/internal/api"
	"github.com/PetruGlt/StatesOfTheWorld/internal/config"
	"github.com/PetruGlt/StatesOfTheWorld/internal/export"
	"github.com/PetruGlt/StatesOfTheWorld/internal/fetch"
	"github.com/PetruGlt/StatesOfTheWorld/internal/logging"
	"github.com/PetruGlt/StatesOfTheWorld/internal/monitoring"
	"github.com/PetruGlt/StatesOfTheWorld/internal/scrape"
	"github.com/PetruGlt/StatesOfTheWorld/internal/store"
	"github.com/PetruGlt/StatesOfTheWorld/internal/validate"
)

var version = "0.1.0"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "statesd",
		Short: "States of the World scraper and API",
		Long: `statesd extracts structured country facts from encyclopedia
infobox pages, normalizes them into typed records, persists them to
sqlite, and exposes them over an HTTP API.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration from environment plus optional file.
func loadConfig() (*config.Config, error) {
	cfg := config.LoadOrDefault()
	if configPath != "" {
		if err := cfg.ApplyFile(configPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	if cfg.Logging.Development {
		return logging.NewDevelopment()
	}
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return logging.NewDefault()
	}
	return logger
}

func scrapeCmd() *cobra.Command {
	var (
		outPath  string
		noDB     bool
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one extraction batch and persist the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			metrics := monitoring.NewMetrics()
			client := fetch.NewClient(cfg.Source)
			pipeline := scrape.NewPipeline(client, logger, metrics)
			if progress {
				pipeline = pipeline.WithProgress()
			}

			records, err := pipeline.Run(context.Background())
			if err != nil {
				return fmt.Errorf("scrape batch: %w", err)
			}

			if outPath != "" {
				if err := export.WriteJSON(outPath, records); err != nil {
					return err
				}
				logger.Info("Snapshot written", zap.String("path", outPath))
			}

			if noDB {
				return nil
			}

			s, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveAll(records); err != nil {
				return fmt.Errorf("persist records: %w", err)
			}
			logger.Info("Records persisted",
				zap.Int("count", len(records)),
				zap.String("db", cfg.Store.Path),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "states_final.json", "JSON snapshot path (empty to skip)")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "Skip loading records into the database")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar over the entity loop")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over the stored data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			s, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}

			srv := api.NewServer(cfg, s, logger, monitoring.NewMetrics())

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				if err := srv.Run(); err != nil {
					errChan <- err
				}
			}()

			select {
			case <-sigChan:
				logger.Info("Shutting down gracefully")
				return srv.Close()
			case err := <-errChan:
				return err
			}
		},
	}
}

func validateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run integrity checks over the stored data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := validate.Run(s)
			if err != nil {
				return err
			}

			fmt.Print(report.String())

			if strict && !report.Passed() {
				return fmt.Errorf("integrity check failed: %d countries with missing data", len(report.Missing))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when the integrity check fails")
	return cmd
}
