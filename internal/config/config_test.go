package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "https://www.tiktok.com", cfg.Scraping.FeedURL)
	assert.True(t, cfg.Scraping.FilterEnabled)
	assert.NotEmpty(t, cfg.Keywords.Commerce)
	assert.Contains(t, cfg.Keywords.Commerce, "link in bio")
	assert.Equal(t, "tiktok_video_data.csv", cfg.Output.DatasetPath)
	assert.Equal(t, 75, cfg.Analysis.MaxChatRows)
}

func TestDelayHelpers(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3*time.Second, cfg.Scraping.SettleDelay())
	assert.Equal(t, 10*time.Second, cfg.Scraping.RenderDelay())
	assert.Equal(t, 10*time.Second, cfg.Scraping.BootstrapWait())
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scraping.Schedule = "0 9 * * *"
	cfg.Scraping.WindowMinutes = 45
	cfg.Output.SeedSeenFromDataset = true

	path := filepath.Join(t.TempDir(), "config.toml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, toml.NewEncoder(f).Encode(cfg))
	require.NoError(t, f.Close())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
