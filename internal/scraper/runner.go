package scraper

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/DankoOfficial/angrybird/internal/auth"
	"github.com/DankoOfficial/angrybird/internal/config"
	"github.com/DankoOfficial/angrybird/internal/feed"
)

// State is the run lifecycle. Transitions are
// Idle -> Running -> Stopping -> Stopped; a Stopped runner may Start again.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// LogLevel tags log events forwarded to the control surface.
type LogLevel string

const (
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Hooks are the control-surface callbacks. Both are invoked from the
// polling goroutine only; implementations must be safe to call while the
// owner reads from another goroutine. Either may be nil.
type Hooks struct {
	OnRecord func(VideoRecord)
	OnLog    func(LogLevel, string)
}

// Sink receives each cycle's newly discovered records.
type Sink interface {
	Append(ctx context.Context, records []VideoRecord) error
}

// SessionOpener opens an authenticated browser session on the feed.
// Injected so tests can drive the runner against a fake feed.
type SessionOpener func(ctx context.Context, cookies []auth.Cookie) (feed.Source, error)

// nicknameRe finds the logged-in display name in the page's hydration JSON.
var nicknameRe = regexp.MustCompile(`,"nickName":"(.*?)"`)

// Runner owns the polling loop against the live feed session. One cycle is
// capture -> classify -> dedup -> persist -> advance -> pace. The loop runs
// on its own goroutine so Start and Stop stay responsive; the browser
// session is touched by that goroutine only.
type Runner struct {
	open       SessionOpener
	sink       Sink
	classifier *Classifier
	cfg        config.ScrapingConfig
	log        zerolog.Logger
	hooks      Hooks
	seed       []string

	state    atomic.Int32
	stopFlag atomic.Bool
	done     chan struct{}
}

// NewRunner wires a runner. The sink and classifier are required; hooks are
// optional.
func NewRunner(open SessionOpener, sink Sink, classifier *Classifier, cfg config.ScrapingConfig, log zerolog.Logger, hooks Hooks) *Runner {
	return &Runner{
		open:       open,
		sink:       sink,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
		hooks:      hooks,
	}
}

// SeedSeen preloads identities into the next run's dedup set. Must be
// called before Start.
func (r *Runner) SeedSeen(identities []string) {
	r.seed = identities
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Start parses the credential, bootstraps the session and spawns the
// polling loop. It returns once polling has begun; bootstrap failures are
// returned synchronously and leave the runner stopped.
func (r *Runner) Start(ctx context.Context, credential string) error {
	if !r.casState(StateIdle, StateRunning) && !r.casState(StateStopped, StateRunning) {
		return ErrAlreadyRunning
	}

	cookies, err := auth.ParseCookieString(credential)
	if err != nil {
		r.state.Store(int32(StateStopped))
		return err
	}

	r.logf(LevelInfo, "Starting TikTok scraping...")

	src, err := r.bootstrap(ctx, cookies)
	if err != nil {
		r.state.Store(int32(StateStopped))
		r.logf(LevelError, "Bootstrap failed: %v", err)
		return err
	}

	r.stopFlag.Store(false)
	r.done = make(chan struct{})
	go r.loop(ctx, src)
	return nil
}

// Stop requests an orderly stop. The flag is observed at the top of each
// cycle, never mid-cycle, so worst-case stop latency is one full cycle
// (settle + render delays plus extraction time). The in-flight cycle's
// persistence write always completes.
func (r *Runner) Stop() {
	if r.State() != StateRunning {
		return
	}
	r.logf(LevelInfo, "Stopping TikTok scraping...")
	r.stopFlag.Store(true)
}

// Wait blocks until the polling loop has fully stopped.
func (r *Runner) Wait() {
	if r.done != nil {
		<-r.done
	}
}

// bootstrap opens the session and confirms the feed rendered. A missing
// feed marker within the timeout is fatal; a missing login identity is not.
func (r *Runner) bootstrap(ctx context.Context, cookies []auth.Cookie) (feed.Source, error) {
	src, err := r.open(ctx, cookies)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	if err := src.WaitFor(ctx, feed.WaitForFeed, r.cfg.BootstrapWait()); err != nil {
		src.Close()
		return nil, fmt.Errorf("%w: %v", ErrBootstrapTimeout, err)
	}

	r.detectUsername(ctx, src)
	return src, nil
}

// detectUsername scans page content for the logged-in display name.
// Best effort: failure is a warning, never an error.
func (r *Runner) detectUsername(ctx context.Context, src feed.Source) {
	content, err := src.Content(ctx)
	if err != nil {
		r.logf(LevelWarn, "Could not read page content for username detection: %v", err)
		return
	}
	m := nicknameRe.FindStringSubmatch(content)
	if m == nil {
		r.logf(LevelWarn, "Could not detect username")
		return
	}
	r.logf(LevelInfo, "Logged in as %s", m[1])
}

// loop is the polling loop. It fails closed: any cycle error ends the run
// with the session closed rather than retrying an unknown error state.
func (r *Runner) loop(ctx context.Context, src feed.Source) {
	defer close(r.done)

	tracker := NewTracker()
	tracker.Seed(r.seed)

	for {
		if r.stopFlag.Load() || ctx.Err() != nil {
			r.shutdown(src)
			r.logf(LevelInfo, "Scraping stopped.")
			return
		}

		if err := r.cycle(ctx, src, tracker); err != nil {
			r.logf(LevelError, "Error: %v", err)
			r.shutdown(src)
			return
		}
	}
}

func (r *Runner) shutdown(src feed.Source) {
	r.state.Store(int32(StateStopping))
	if err := src.Close(); err != nil {
		r.logf(LevelWarn, "Error closing session: %v", err)
	}
	r.state.Store(int32(StateStopped))
}

// cycle runs one capture-process-advance-pace iteration.
func (r *Runner) cycle(ctx context.Context, src feed.Source, tracker *Tracker) error {
	// The feed marker must still be visible after the previous scroll.
	if err := src.WaitFor(ctx, feed.WaitForFeed, r.cfg.BootstrapWait()); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureTimeout, err)
	}

	r.logf(LevelInfo, "Detecting video information...")

	records, err := Extract(ctx, src)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	records = r.classifier.Filter(records)
	delta := tracker.Delta(records)

	if len(delta) > 0 {
		if err := r.sink.Append(ctx, delta); err != nil {
			return fmt.Errorf("persist: %w", err)
		}
		for _, rec := range delta {
			r.logf(LevelInfo, "%s - Date: %s - %s", rec.Username, rec.UploadDate, rec.Description)
			if r.hooks.OnRecord != nil {
				r.hooks.OnRecord(rec)
			}
		}
		r.logf(LevelInfo, "Saved %d new records (%d total identities)", len(delta), tracker.Len())
	}

	// Two-stage pacing: the short delay absorbs scroll-triggered layout
	// shift, the long one absorbs network-bound content loading.
	if err := src.Advance(ctx); err != nil {
		return fmt.Errorf("advance feed: %w", err)
	}
	sleep(ctx, r.cfg.SettleDelay())
	sleep(ctx, r.cfg.RenderDelay())

	return nil
}

func (r *Runner) casState(from, to State) bool {
	return r.state.CompareAndSwap(int32(from), int32(to))
}

// logf logs through zerolog and forwards the formatted line to the OnLog
// hook.
func (r *Runner) logf(level LogLevel, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	switch level {
	case LevelError:
		r.log.Error().Msg(msg)
	case LevelWarn:
		r.log.Warn().Msg(msg)
	default:
		r.log.Info().Msg(msg)
	}
	if r.hooks.OnLog != nil {
		r.hooks.OnLog(level, msg)
	}
}

// sleep waits for d unless the context is cancelled first. Cancellation is
// picked up by the stop check at the top of the next cycle.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// IsFatal reports whether an error from a run is one of the terminal
// conditions rather than an operator mistake.
func IsFatal(err error) bool {
	return errors.Is(err, ErrBootstrapTimeout) || errors.Is(err, ErrCaptureTimeout)
}
