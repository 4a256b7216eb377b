// Command angrybird scrapes the TikTok feed into the tabular dataset the
// dashboard consumes. It runs until interrupted, or in recurring cron
// windows when a schedule is configured.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/DankoOfficial/angrybird/internal/auth"
	"github.com/DankoOfficial/angrybird/internal/config"
	"github.com/DankoOfficial/angrybird/internal/feed"
	"github.com/DankoOfficial/angrybird/internal/scheduler"
	"github.com/DankoOfficial/angrybird/internal/scraper"
	"github.com/DankoOfficial/angrybird/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.toml (default: platform config dir)")
		cookieFlag = flag.String("cookie", "", "raw cookie string (overrides the cookie file)")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	cfg := loadConfig(*configPath, logger)

	credential := *cookieFlag
	if credential == "" {
		raw, err := auth.LoadCookieFile(cfg.Scraping.CookieFile)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Scraping.CookieFile).
				Msg("no -cookie flag and the cookie file could not be read")
		}
		credential = raw
		logger.Info().Str("path", cfg.Scraping.CookieFile).Msg("cookie loaded")
	}

	dataset, err := store.OpenDataset(cfg.Output.DatasetPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open dataset")
	}
	logger.Info().Str("path", dataset.Path()).Int("rows", dataset.Len()).Msg("dataset ready")

	var archive *store.Archive
	if cfg.Output.ArchivePath != "" {
		archive, err = store.OpenArchive(cfg.Output.ArchivePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open archive")
		}
		defer archive.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{
		cfg:        cfg,
		credential: credential,
		dataset:    dataset,
		archive:    archive,
		logger:     logger,
	}

	if cfg.Scraping.Schedule == "" {
		if err := app.runOnce(ctx); err != nil {
			logger.Fatal().Err(err).Msg("run failed")
		}
		return
	}

	window := time.Duration(cfg.Scraping.WindowMinutes) * time.Minute
	sched := scheduler.New(logger)
	if err := sched.AddWindow(cfg.Scraping.Schedule, window, app.runOnce); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule scrape windows")
	}
	sched.Start()

	<-ctx.Done()
	<-sched.Stop().Done()
}

type app struct {
	cfg        *config.Config
	credential string
	dataset    *store.Dataset
	archive    *store.Archive
	logger     zerolog.Logger
}

// runOnce performs one full run: bootstrap, poll until the context is
// cancelled or the run fails, then wait for the orderly shutdown.
func (a *app) runOnce(ctx context.Context) error {
	var runID int64
	if a.archive != nil {
		id, err := a.archive.StartRun()
		if err != nil {
			return fmt.Errorf("record run start: %w", err)
		}
		runID = id
	}

	classifier := scraper.NewClassifier(a.cfg.Scraping.FilterEnabled, a.cfg.Keywords.Commerce)
	sink := store.NewRunSink(a.dataset, a.archive, runID)

	opener := func(ctx context.Context, cookies []auth.Cookie) (feed.Source, error) {
		return feed.OpenChrome(ctx, a.cfg.Scraping.Headless, cookies, a.cfg.Scraping.FeedURL)
	}

	runner := scraper.NewRunner(opener, sink, classifier, a.cfg.Scraping, a.logger, scraper.Hooks{})
	if a.cfg.Output.SeedSeenFromDataset {
		runner.SeedSeen(a.dataset.Identities())
	}

	err := runner.Start(ctx, a.credential)
	if err != nil {
		a.finishRun(runID, "bootstrap failed")
		return err
	}

	// The runner observes ctx cancellation at the top of its next cycle;
	// Stop on interrupt just makes the intent explicit in the logs.
	go func() {
		<-ctx.Done()
		runner.Stop()
	}()

	runner.Wait()
	a.finishRun(runID, outcome(ctx.Err()))
	a.logger.Info().Int("rows", a.dataset.Len()).Msg("run finished")
	return nil
}

func (a *app) finishRun(runID int64, outcome string) {
	if a.archive == nil {
		return
	}
	if err := a.archive.FinishRun(runID, outcome); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record run end")
	}
}

func outcome(ctxErr error) string {
	if errors.Is(ctxErr, context.Canceled) || errors.Is(ctxErr, context.DeadlineExceeded) {
		return "stopped"
	}
	return "ended"
}

func loadConfig(path string, logger zerolog.Logger) *config.Config {
	if path != "" {
		cfg, err := config.LoadFrom(path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("failed to load config")
		}
		return cfg
	}

	cfg, err := config.Load()
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.Default()
			if saveErr := cfg.Save(); saveErr != nil {
				logger.Warn().Err(saveErr).Msg("could not save default config")
			} else if p, pErr := config.ConfigPath(); pErr == nil {
				logger.Info().Str("path", p).Msg("created default config")
			}
			return cfg
		}
		logger.Warn().Err(err).Msg("could not load config, using defaults")
		return config.Default()
	}
	return cfg
}
