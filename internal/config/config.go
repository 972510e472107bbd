package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"NAVigator/internal/calculator"
	"NAVigator/internal/collector"
	"NAVigator/internal/series"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Proxy string `yaml:"proxy"`
	Cache struct {
		TTL            time.Duration `yaml:"ttl"`
		DedupeInflight bool          `yaml:"dedupe_inflight"`
		SweepCron      string        `yaml:"sweep_cron"`
	} `yaml:"cache"`
	Analytics struct {
		RiskFreeRate float64 `yaml:"risk_free_rate"`
		MarketReturn float64 `yaml:"market_return"`
		TradingDays  int     `yaml:"trading_days"`
		DefaultRange string  `yaml:"default_range"`
	} `yaml:"analytics"`
	Server struct {
		Addr           string        `yaml:"addr"`
		DevMode        bool          `yaml:"dev_mode"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Watchlist struct {
		Schemes []int  `yaml:"schemes"`
		Range   string `yaml:"range"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("MFAPI_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("NAVIGATOR_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		c.Schedule.DigestCron = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RISK_FREE_RATE: %w", err)
		}
		c.Analytics.RiskFreeRate = r
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		codes, err := parseCodes(v)
		if err != nil {
			return fmt.Errorf("WATCHLIST: %w", err)
		}
		c.Watchlist.Schemes = codes
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = collector.DefaultBaseURL
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = collector.DefaultTTL
	}
	if c.Cache.SweepCron == "" {
		c.Cache.SweepCron = "0 * * * * *"
	}
	def := calculator.DefaultRiskConfig()
	if c.Analytics.RiskFreeRate == 0 {
		c.Analytics.RiskFreeRate = def.RiskFreeRate
	}
	if c.Analytics.MarketReturn == 0 {
		c.Analytics.MarketReturn = def.MarketReturn
	}
	if c.Analytics.TradingDays == 0 {
		c.Analytics.TradingDays = def.TradingDays
	}
	if c.Analytics.DefaultRange == "" {
		c.Analytics.DefaultRange = "1Y"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 60 * time.Second
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 20 * * 1-5"
	}
	if c.Watchlist.Range == "" {
		c.Watchlist.Range = c.Analytics.DefaultRange
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.DataSource.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("data_source.base_url %q is not an absolute URL", c.DataSource.BaseURL)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Analytics.TradingDays < 0 {
		return fmt.Errorf("analytics.trading_days must be positive")
	}
	if _, err := series.ParseRangeWindow(c.Analytics.DefaultRange); err != nil {
		return fmt.Errorf("analytics.default_range: %w", err)
	}
	if _, err := series.ParseRangeWindow(c.Watchlist.Range); err != nil {
		return fmt.Errorf("watchlist.range: %w", err)
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Cache.SweepCron); err != nil {
		return fmt.Errorf("cache.sweep_cron: %w", err)
	}
	if _, err := parser.Parse(c.Schedule.DigestCron); err != nil {
		return fmt.Errorf("schedule.digest_cron: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for _, code := range c.Watchlist.Schemes {
		if code <= 0 {
			return fmt.Errorf("watchlist.schemes: invalid scheme code %d", code)
		}
	}
	return nil
}

// RiskConfig returns the analytics assumptions for calculator.ComputeRisk.
func (c *Config) RiskConfig() calculator.RiskConfig {
	return calculator.RiskConfig{
		RiskFreeRate: c.Analytics.RiskFreeRate,
		MarketReturn: c.Analytics.MarketReturn,
		TradingDays:  c.Analytics.TradingDays,
	}
}

// TelegramEnabled reports whether a bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func parseCodes(s string) ([]int, error) {
	var codes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid scheme code %q", part)
		}
		codes = append(codes, n)
	}
	return codes, nil
}
