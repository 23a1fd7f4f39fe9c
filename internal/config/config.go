// Package config handles configuration loading for stockalert.
// It supports YAML config files, a .env file, and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// News provider names accepted in news.provider.
const (
	NewsProviderNewsAPI = "newsapi"
	NewsProviderRSS     = "rss"
)

// Config represents the complete application configuration.
type Config struct {
	Stock   StockConfig   `mapstructure:"stock"   yaml:"stock"`
	News    NewsConfig    `mapstructure:"news"    yaml:"news"`
	SMS     SMSConfig     `mapstructure:"sms"     yaml:"sms"`
	Alert   AlertConfig   `mapstructure:"alert"   yaml:"alert"`
	HTTP    HTTPConfig    `mapstructure:"http"    yaml:"http"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// StockConfig holds the tracked symbol and quote API settings.
type StockConfig struct {
	Symbol      string `mapstructure:"symbol"       yaml:"symbol"`
	CompanyName string `mapstructure:"company_name" yaml:"company_name"` // news query
	APIKey      string `mapstructure:"api_key"      yaml:"api_key"`
	BaseURL     string `mapstructure:"base_url"     yaml:"base_url"`
}

// NewsConfig holds news source settings.
type NewsConfig struct {
	Provider string   `mapstructure:"provider"  yaml:"provider"` // "newsapi" or "rss"
	APIKey   string   `mapstructure:"api_key"   yaml:"api_key"`
	BaseURL  string   `mapstructure:"base_url"  yaml:"base_url"`
	Limit    int      `mapstructure:"limit"     yaml:"limit"`
	RSSFeeds []string `mapstructure:"rss_feeds" yaml:"rss_feeds"`
}

// SMSConfig holds Twilio credentials and the fixed sender/recipient.
type SMSConfig struct {
	AccountSID string `mapstructure:"account_sid" yaml:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"  yaml:"auth_token"`
	From       string `mapstructure:"from"        yaml:"from"`
	To         string `mapstructure:"to"          yaml:"to"`
	DryRun     bool   `mapstructure:"dry_run"     yaml:"dry_run"`
}

// AlertConfig holds the notification gate.
type AlertConfig struct {
	ThresholdPct float64 `mapstructure:"threshold_pct" yaml:"threshold_pct"`
}

// HTTPConfig holds outbound HTTP settings.
type HTTPConfig struct {
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the configured timeout as a duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// MetricsConfig holds Prometheus Pushgateway settings. Empty URL disables pushing.
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url" yaml:"pushgateway_url"`
	Job            string `mapstructure:"job"             yaml:"job"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockalert/config.yaml (home directory)
//  3. /etc/stockalert/config.yaml (system)
//
// A .env file in the working directory is loaded into the environment first.
// Environment variables override config file values.
// Format: STOCKALERT_<SECTION>_<KEY>, e.g., STOCKALERT_SMS_AUTH_TOKEN
func Load() (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockalert"))
	v.AddConfigPath("/etc/stockalert")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("STOCKALERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// loadDotEnv loads ./.env if present. Variables already set in the
// environment are not overwritten.
func loadDotEnv() {
	_ = godotenv.Load()
}

// setDefaults sets defaults for all config values. Keys must have a default
// for AutomaticEnv to pick them up during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("stock.symbol", "SPY")
	v.SetDefault("stock.company_name", "S&P 500")
	v.SetDefault("stock.api_key", "")
	v.SetDefault("stock.base_url", "https://www.alphavantage.co")

	v.SetDefault("news.provider", NewsProviderNewsAPI)
	v.SetDefault("news.api_key", "")
	v.SetDefault("news.base_url", "https://newsapi.org")
	v.SetDefault("news.limit", 3)
	v.SetDefault("news.rss_feeds", []string{
		"https://feeds.content.dowjones.io/public/rss/mw_topstories",
		"https://www.cnbc.com/id/100003114/device/rss/rss.html",
	})

	v.SetDefault("sms.account_sid", "")
	v.SetDefault("sms.auth_token", "")
	v.SetDefault("sms.from", "+18886195395")
	v.SetDefault("sms.to", "+14324440705")
	v.SetDefault("sms.dry_run", false)

	v.SetDefault("alert.threshold_pct", 5.0)

	v.SetDefault("http.timeout_sec", 30)

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "stockalert")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Unprefixed variable names used by existing deployments. A prefixed
// STOCKALERT_* variable wins when both are set.
var legacyEnv = []struct {
	name     string
	prefixed string
	field    func(*Config) *string
}{
	{"Stock_API", "STOCKALERT_STOCK_API_KEY", func(c *Config) *string { return &c.Stock.APIKey }},
	{"News_API", "STOCKALERT_NEWS_API_KEY", func(c *Config) *string { return &c.News.APIKey }},
	{"TWILIO_ACCOUNT_SID", "STOCKALERT_SMS_ACCOUNT_SID", func(c *Config) *string { return &c.SMS.AccountSID }},
	{"TWILIO_AUTH_TOKEN", "STOCKALERT_SMS_AUTH_TOKEN", func(c *Config) *string { return &c.SMS.AuthToken }},
}

// overrideFromEnv explicitly reads credentials from their unprefixed variables.
func overrideFromEnv(cfg *Config) {
	for _, e := range legacyEnv {
		if os.Getenv(e.prefixed) != "" {
			continue
		}
		if val := os.Getenv(e.name); val != "" {
			*e.field(cfg) = val
		}
	}
}

// Validate checks settings that would make a run meaningless. Missing
// credentials are not an error here; the run degrades and logs instead.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Stock.Symbol) == "" {
		return errors.New("stock.symbol must not be empty")
	}
	if strings.TrimSpace(cfg.Stock.CompanyName) == "" {
		return errors.New("stock.company_name must not be empty")
	}
	if cfg.Alert.ThresholdPct < 0 {
		return fmt.Errorf("alert.threshold_pct must be >= 0, got %v", cfg.Alert.ThresholdPct)
	}
	if cfg.News.Limit < 1 {
		return fmt.Errorf("news.limit must be >= 1, got %d", cfg.News.Limit)
	}
	if cfg.HTTP.TimeoutSec < 1 {
		return fmt.Errorf("http.timeout_sec must be >= 1, got %d", cfg.HTTP.TimeoutSec)
	}
	if _, err := url.ParseRequestURI(cfg.Stock.BaseURL); err != nil {
		return fmt.Errorf("invalid stock.base_url: %s", cfg.Stock.BaseURL)
	}

	switch cfg.News.Provider {
	case NewsProviderNewsAPI:
		if _, err := url.ParseRequestURI(cfg.News.BaseURL); err != nil {
			return fmt.Errorf("invalid news.base_url: %s", cfg.News.BaseURL)
		}
	case NewsProviderRSS:
		if len(cfg.News.RSSFeeds) == 0 {
			return errors.New("news.rss_feeds must list at least one feed")
		}
		for _, u := range cfg.News.RSSFeeds {
			if _, err := url.ParseRequestURI(u); err != nil {
				return fmt.Errorf("invalid RSS URL: %s", u)
			}
		}
	default:
		return fmt.Errorf("unknown news.provider %q", cfg.News.Provider)
	}

	if !cfg.SMS.DryRun && (cfg.SMS.From == "" || cfg.SMS.To == "") {
		return errors.New("sms.from and sms.to are required unless sms.dry_run is set")
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
