package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DankoOfficial/angrybird/internal/scraper"
)

func record(username, likes string) scraper.VideoRecord {
	return scraper.VideoRecord{
		Username:    username,
		Likes:       likes,
		Comments:    "3",
		Favorites:   "12",
		Shares:      "1",
		UploadDate:  "2d ago",
		Description: "desc for " + username,
		MusicText:   "original sound",
	}
}

func TestDatasetAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	ctx := context.Background()

	d, err := OpenDataset(path)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	require.NoError(t, d.Append(ctx, []scraper.VideoRecord{record("u1", "10"), record("u2", "1.2K")}))
	require.NoError(t, d.Append(ctx, []scraper.VideoRecord{record("u3", "N/A")}))
	assert.Equal(t, 3, d.Len())

	// Simulate a restart: a fresh Dataset sees every previously written row.
	reopened, err := OpenDataset(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reopened.Len())
	assert.Equal(t, []string{"u1", "u2", "u3"}, reopened.Identities())

	// Appending after reload keeps the old rows.
	require.NoError(t, reopened.Append(ctx, []scraper.VideoRecord{record("u4", "7")}))
	again, err := OpenDataset(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, again.Identities())
}

func TestDatasetWritesFixedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	d, err := OpenDataset(path)
	require.NoError(t, err)
	require.NoError(t, d.Append(context.Background(), []scraper.VideoRecord{record("u1", "10")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	first := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, "Uploader,Upload Date,Description,Likes,Comments,Favorites,Shares,Music Text", first)
}

func TestDatasetLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	d, err := OpenDataset(filepath.Join(dir, "videos.csv"))
	require.NoError(t, err)
	require.NoError(t, d.Append(context.Background(), []scraper.VideoRecord{record("u1", "10")}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "videos.csv", entries[0].Name())
}

func TestDatasetAppendEmptyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	d, err := OpenDataset(path)
	require.NoError(t, err)
	require.NoError(t, d.Append(context.Background(), nil))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadVideosLenientParsing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	d, err := OpenDataset(path)
	require.NoError(t, err)
	require.NoError(t, d.Append(context.Background(), []scraper.VideoRecord{
		record("u1", "1.2K"),
		record("u2", "N/A"),
		record("u3", "3,400"),
	}))

	videos, err := LoadVideos(path)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, 1200, videos[0].Likes)
	assert.Equal(t, 0, videos[1].Likes)
	assert.Equal(t, 3400, videos[2].Likes)
	assert.Equal(t, "12", videos[0].Favorites) // kept raw
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"423", 423},
		{"1.2K", 1200},
		{"5.7M", 5700000},
		{"1,234", 1234},
		{"2k", 2000},
		{"N/A", 0},
		{"", 0},
		{" 17 ", 17},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMetric(tt.in), "input %q", tt.in)
	}
}

func TestArchiveRunLifecycle(t *testing.T) {
	a, err := OpenArchive(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	defer a.Close()

	runID, err := a.StartRun()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, a.SaveVideos(ctx, runID, []scraper.VideoRecord{record("u1", "10"), record("u2", "20")}))
	require.NoError(t, a.SaveVideos(ctx, runID, []scraper.VideoRecord{record("u3", "30")}))

	n, err := a.CountVideos()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	first, err := a.FirstSeen("u1")
	require.NoError(t, err)
	assert.False(t, first.IsZero())

	never, err := a.FirstSeen("nobody")
	require.NoError(t, err)
	assert.True(t, never.IsZero())

	require.NoError(t, a.FinishRun(runID, "stopped"))
}

func TestRunSinkWritesBothStores(t *testing.T) {
	dir := t.TempDir()
	d, err := OpenDataset(filepath.Join(dir, "videos.csv"))
	require.NoError(t, err)
	a, err := OpenArchive(filepath.Join(dir, "archive.db"))
	require.NoError(t, err)
	defer a.Close()

	runID, err := a.StartRun()
	require.NoError(t, err)

	sink := NewRunSink(d, a, runID)
	require.NoError(t, sink.Append(context.Background(), []scraper.VideoRecord{record("u1", "10")}))

	assert.Equal(t, 1, d.Len())
	n, err := a.CountVideos()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
