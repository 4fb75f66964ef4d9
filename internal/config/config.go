// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs for the scraper and the
// search service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ScraperConfig governs the acquisition pipeline.
type ScraperConfig struct {
	URLsFile          string `mapstructure:"urls_file"`
	OutputFile        string `mapstructure:"output_file"`
	UserAgent         string `mapstructure:"user_agent"`
	Referer           string `mapstructure:"referer"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	MaxRetries        int    `mapstructure:"max_retries"`
	BackoffStepSec    int    `mapstructure:"backoff_step_seconds"`
	PolitenessSeconds int    `mapstructure:"politeness_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDIUMSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("scraper.urls_file", "urls.txt")
	v.SetDefault("scraper.output_file", "scrapping_results.csv")
	v.SetDefault("scraper.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scraper.referer", "https://www.google.com/")
	v.SetDefault("scraper.timeout_seconds", 20)
	v.SetDefault("scraper.max_retries", 3)
	v.SetDefault("scraper.backoff_step_seconds", 5)
	v.SetDefault("scraper.politeness_seconds", 10)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scraper.URLsFile == "" {
		return fmt.Errorf("scraper.urls_file must be set")
	}
	if c.Scraper.OutputFile == "" {
		return fmt.Errorf("scraper.output_file must be set")
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.Scraper.MaxRetries <= 0 {
		return fmt.Errorf("scraper.max_retries must be > 0")
	}
	if c.Scraper.PolitenessSeconds < 0 {
		return fmt.Errorf("scraper.politeness_seconds must be >= 0")
	}
	return nil
}

// Timeout returns the per-attempt fetch timeout as a duration.
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackoffStep returns the linear backoff increment for 403 retries.
func (c ScraperConfig) BackoffStep() time.Duration {
	return time.Duration(c.BackoffStepSec) * time.Second
}

// Politeness returns the mandatory delay between crawl requests.
func (c ScraperConfig) Politeness() time.Duration {
	return time.Duration(c.PolitenessSeconds) * time.Second
}
