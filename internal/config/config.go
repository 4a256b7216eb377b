package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	Version   int             `toml:"version"`
	Scraping  ScrapingConfig  `toml:"scraping"`
	Keywords  KeywordsConfig  `toml:"keywords"`
	Output    OutputConfig    `toml:"output"`
	Analysis  AnalysisConfig  `toml:"analysis"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Trends    TrendsConfig    `toml:"trends"`
}

type ScrapingConfig struct {
	FeedURL          string `toml:"feed_url"`
	Headless         bool   `toml:"headless"`
	CookieFile       string `toml:"cookie_file"`
	SettleDelayMs    int    `toml:"settle_delay_ms"`
	RenderDelayMs    int    `toml:"render_delay_ms"`
	BootstrapTimeout int    `toml:"bootstrap_timeout_s"`
	FilterEnabled    bool   `toml:"filter_enabled"`
	Schedule         string `toml:"schedule"`       // cron spec, empty = run immediately
	WindowMinutes    int    `toml:"window_minutes"` // length of a scheduled scrape window
}

type KeywordsConfig struct {
	Commerce []string `toml:"commerce"`
}

type OutputConfig struct {
	DatasetPath string `toml:"dataset_path"`
	ArchivePath string `toml:"archive_path"`
	// SeedSeenFromDataset preloads the dedup set from rows already on disk
	// so a restarted run does not append identities it already wrote.
	SeedSeenFromDataset bool `toml:"seed_seen_from_dataset"`
}

type AnalysisConfig struct {
	APIKey      string `toml:"api_key"`
	Model       string `toml:"model"`
	MaxChatRows int    `toml:"max_chat_rows"`
}

type DashboardConfig struct {
	Addr        string `toml:"addr"`
	MaxListRows int    `toml:"max_list_rows"`
}

type TrendsConfig struct {
	BaseURL string `toml:"base_url"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version: 1,
		Scraping: ScrapingConfig{
			FeedURL:          "https://www.tiktok.com",
			Headless:         false,
			CookieFile:       "cookie.txt",
			SettleDelayMs:    3000,
			RenderDelayMs:    10000,
			BootstrapTimeout: 10,
			FilterEnabled:    true,
			WindowMinutes:    30,
		},
		Keywords: KeywordsConfig{
			Commerce: []string{
				"shop", "link in bio", "stock",
				"sale", "discount", "order",
				"store", "retail", "add to cart",
				"checkout", "shipping", "offer",
				"guaranteed", "cash", "get yours",
				"limited edition", "deal", "buy",
				"price", "profit", "gift",
			},
		},
		Output: OutputConfig{
			DatasetPath: "tiktok_video_data.csv",
			ArchivePath: "angrybird.db",
		},
		Analysis: AnalysisConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxChatRows: 75,
		},
		Dashboard: DashboardConfig{
			Addr:        "localhost:8430",
			MaxListRows: 50,
		},
		Trends: TrendsConfig{
			BaseURL: "https://serptag.co.uk/api/global-key/",
		},
	}
}

// SettleDelay returns the short post-scroll delay.
func (c *ScrapingConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// RenderDelay returns the long content-load delay.
func (c *ScrapingConfig) RenderDelay() time.Duration {
	return time.Duration(c.RenderDelayMs) * time.Millisecond
}

// BootstrapWait returns the feed-marker wait used during bootstrap.
func (c *ScrapingConfig) BootstrapWait() time.Duration {
	return time.Duration(c.BootstrapTimeout) * time.Second
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "angrybird"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from an explicit path
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
