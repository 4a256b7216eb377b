package store

import (
	"context"
	"fmt"

	"github.com/DankoOfficial/angrybird/internal/scraper"
)

// RunSink feeds one run's deltas into both the dataset file and, when an
// archive is configured, the run history. It satisfies scraper.Sink.
type RunSink struct {
	dataset *Dataset
	archive *Archive
	runID   int64
}

// NewRunSink builds a sink for one run. archive may be nil.
func NewRunSink(dataset *Dataset, archive *Archive, runID int64) *RunSink {
	return &RunSink{dataset: dataset, archive: archive, runID: runID}
}

// Append writes the delta to the dataset file first, then mirrors it to
// the archive.
func (s *RunSink) Append(ctx context.Context, records []scraper.VideoRecord) error {
	if err := s.dataset.Append(ctx, records); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if s.archive != nil {
		if err := s.archive.SaveVideos(ctx, s.runID, records); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
	}
	return nil
}
