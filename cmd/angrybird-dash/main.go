// Command angrybird-dash serves the collected dataset: filtered listings,
// hashtag engagement, keyword trends and chat-based analysis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/DankoOfficial/angrybird/internal/analyzer"
	"github.com/DankoOfficial/angrybird/internal/config"
	"github.com/DankoOfficial/angrybird/internal/dashboard"
	"github.com/DankoOfficial/angrybird/internal/trends"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.toml (default: platform config dir)")
		openUI     = flag.Bool("open", false, "open the dashboard in the default browser")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Msg("could not load config, using defaults")
		}
		cfg = config.Default()
	}

	var an *analyzer.Analyzer
	if cfg.Analysis.APIKey != "" {
		an = analyzer.New(cfg.Analysis.APIKey, cfg.Analysis.Model, cfg.Analysis.MaxChatRows)
	} else {
		logger.Warn().Msg("no analysis API key configured, /api/chat disabled")
	}

	var tr *trends.Client
	if cfg.Trends.BaseURL != "" {
		tr = trends.New(cfg.Trends.BaseURL)
	}

	server := dashboard.New(cfg.Output.DatasetPath, an, tr, cfg.Dashboard.MaxListRows, logger)
	httpSrv := &http.Server{
		Addr:    cfg.Dashboard.Addr,
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Dashboard.Addr).Str("dataset", cfg.Output.DatasetPath).
			Msg("dashboard listening")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if *openUI {
		url := fmt.Sprintf("http://%s/api/videos", cfg.Dashboard.Addr)
		if err := browser.OpenURL(url); err != nil {
			logger.Warn().Err(err).Msg("could not open browser")
		}
	}

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("dashboard exited")
	}
}
