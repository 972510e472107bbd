// NAVigator: mutual fund NAV analytics.
//
// Main CLI entrypoint using the cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"NAVigator/internal/collector"
	"NAVigator/internal/config"
	"NAVigator/internal/logger"
	"NAVigator/internal/recorder"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "NAVigator: mutual fund NAV analytics",
	Long: `NAVigator fetches mutual fund NAV histories from mfapi.in and computes
range statistics, risk metrics and SIP projections. It runs as a one-shot
CLI or as a long-lived HTTP API with a scheduled Telegram digest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = "configs/config.yaml"
			if v := os.Getenv("CONFIG_PATH"); v != "" {
				path = v
			}
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		log = logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
		logger.SetGlobalLogger(log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: configs/config.yaml or $CONFIG_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemesCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(sipCmd)
	rootCmd.AddCommand(digestCmd)
}

// app holds the wired data path shared by every command.
type app struct {
	rec   recorder.Recorder
	cache *collector.CachedFetcher
	col   *collector.Collector
}

// newApp wires fetcher -> cache -> collector. Falls back to the noop
// recorder when SQLite is not configured or cannot be opened.
func newApp() *app {
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	fetcher := collector.NewMfapiFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Timeout, cfg.Proxy)
	log.Info().Str("source", fetcher.Name()).Str("base_url", fetcher.BaseURL).Msg("data source")

	cache := collector.NewCachedFetcher(fetcher,
		collector.WithTTL(cfg.Cache.TTL),
		collector.WithInflightDedupe(cfg.Cache.DedupeInflight),
		collector.WithRecorder(rec),
		collector.WithLogger(log),
	)
	return &app{
		rec:   rec,
		cache: cache,
		col:   collector.NewCollector(cache, cfg.RiskConfig(), log),
	}
}

func (a *app) Close() {
	if err := a.rec.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
}
