package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"NAVigator/internal/notifier"
	"NAVigator/internal/scheduler"
	"NAVigator/internal/server"
	"NAVigator/internal/series"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the cron scheduler and Telegram polling",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		digestOnStart, _ := cmd.Flags().GetBool("digest-on-start")
		return runServe(digestOnStart || os.Getenv("RUN_ON_START") == "true")
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().Bool("digest-on-start", false, "send the watchlist digest immediately")
}

func runServe(digestOnStart bool) error {
	log.Info().Msg("NAVigator starting...")

	a := newApp()
	defer a.Close()

	defaultWindow, err := series.ParseRangeWindow(cfg.Analytics.DefaultRange)
	if err != nil {
		return err
	}
	watchWindow, err := series.ParseRangeWindow(cfg.Watchlist.Range)
	if err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var n notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		n = tn
	} else {
		log.Warn().Msg("telegram not configured, digests go to the log")
		n = notifier.NewLogNotifier(log)
	}

	sched := scheduler.NewScheduler(ctx, a.col, a.cache, n, a.rec, log)
	sched.Watchlist = cfg.Watchlist.Schemes
	sched.Window = watchWindow
	if err := sched.RegisterAll(cfg.Cache.SweepCron, cfg.Schedule.DigestCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if digestOnStart {
		log.Info().Msg("digest on start enabled, sending watchlist digest now")
		go sched.RunDigestNow()
	}

	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		Log:            log,
		Collector:      a.col,
		Cache:          a.cache,
		DefaultWindow:  defaultWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
		DevMode:        cfg.Server.DevMode,
	})
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info().Msg("NAVigator is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server failed")
		cancel()
		return err
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("NAVigator stopped")
	return nil
}
