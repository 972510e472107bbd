package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NAVigator/internal/collector"
)

var envKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "MFAPI_BASE_URL", "HTTPS_PROXY", "NAVIGATOR_ADDR",
	"SQLITE_PATH", "LOG_LEVEL", "CRON_DIGEST", "CACHE_TTL", "RISK_FREE_RATE", "WATCHLIST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, collector.DefaultBaseURL, cfg.DataSource.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.DedupeInflight)
	assert.Equal(t, 0.05, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, 0.10, cfg.Analytics.MarketReturn)
	assert.Equal(t, 252, cfg.Analytics.TradingDays)
	assert.Equal(t, "1Y", cfg.Analytics.DefaultRange)
	assert.Equal(t, "1Y", cfg.Watchlist.Range)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_source:
  base_url: http://localhost:9000/mf
  timeout: 10s
cache:
  ttl: 2m
  dedupe_inflight: true
analytics:
  risk_free_rate: 0.065
  trading_days: 250
  default_range: 3Y
watchlist:
  schemes: [119551, 120503]
  range: 6M
telegram:
  bot_token: abc
  chat_id: "42"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:9000/mf", cfg.DataSource.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.DedupeInflight)
	assert.Equal(t, []int{119551, 120503}, cfg.Watchlist.Schemes)
	assert.Equal(t, "6M", cfg.Watchlist.Range)
	assert.True(t, cfg.TelegramEnabled())

	rc := cfg.RiskConfig()
	assert.Equal(t, 0.065, rc.RiskFreeRate)
	assert.Equal(t, 0.10, rc.MarketReturn)
	assert.Equal(t, 250, rc.TradingDays)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MFAPI_BASE_URL", "http://mirror.local/mf")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("RISK_FREE_RATE", "0.07")
	t.Setenv("WATCHLIST", "100, 200,,300")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "data_source:\n  base_url: http://ignored/mf\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://mirror.local/mf", cfg.DataSource.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 0.07, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, []int{100, 200, 300}, cfg.Watchlist.Schemes)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadInput(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "cache: [not, a, map]"))
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("CACHE_TTL", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"relative base url", func(c *Config) { c.DataSource.BaseURL = "/mf" }, "base_url"},
		{"bad range", func(c *Config) { c.Analytics.DefaultRange = "2W" }, "default_range"},
		{"bad watchlist range", func(c *Config) { c.Watchlist.Range = "forever" }, "watchlist.range"},
		{"bad cron", func(c *Config) { c.Schedule.DigestCron = "every day" }, "digest_cron"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "abc" }, "telegram"},
		{"bad scheme", func(c *Config) { c.Watchlist.Schemes = []int{0} }, "watchlist.schemes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
