package scraper

import "errors"

var (
	// ErrBootstrapTimeout means the feed marker never rendered after login;
	// the run does not start.
	ErrBootstrapTimeout = errors.New("scraper: timed out waiting for feed to render")

	// ErrCaptureTimeout means the feed marker disappeared mid-run and never
	// came back after a scroll. Fatal to the current run, no retry.
	ErrCaptureTimeout = errors.New("scraper: timed out waiting for feed elements")

	// ErrAlreadyRunning is returned by Start while a run is in progress.
	ErrAlreadyRunning = errors.New("scraper: a run is already in progress")
)
