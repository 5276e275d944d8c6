package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Strob0t/DocuCrew/internal/adapter/github"
	"github.com/Strob0t/DocuCrew/internal/adapter/litellm"
	"github.com/Strob0t/DocuCrew/internal/adapter/ristretto"
	"github.com/Strob0t/DocuCrew/internal/adapter/tiered"
	"github.com/Strob0t/DocuCrew/internal/config"
	"github.com/Strob0t/DocuCrew/internal/logger"
	"github.com/Strob0t/DocuCrew/internal/metrics"
	"github.com/Strob0t/DocuCrew/internal/port/cache"
	"github.com/Strob0t/DocuCrew/internal/resilience"
	"github.com/Strob0t/DocuCrew/internal/service"
)

// app is the wired service graph shared by the subcommands.
type app struct {
	cfg       *config.Config
	llm       *litellm.Client
	extractor *service.ExtractorService
	docs      *service.DocumentationService

	closers []func()
}

// loadConfig loads configuration and installs the default logger writing to w.
func loadConfig(cmd *cobra.Command, flags *rootFlags, w io.Writer) (*config.Config, logger.Closer, error) {
	cfg, err := config.LoadWithCLI(flags.cliFlags(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	log, closer := logger.New(cfg.Logging, w)
	slog.SetDefault(log)
	return cfg, closer, nil
}

// newApp builds the services. rec and shared may be nil; shared is a
// cluster-wide snapshot cache layered under the in-process one.
func newApp(cfg *config.Config, rec metrics.Recorder, shared cache.Cache) (*app, error) {
	a := &app{cfg: cfg}

	var snapshots cache.Cache
	if cfg.Cache.Enabled() {
		c, err := ristretto.NewMB(cfg.Cache.L1MaxSizeMB)
		if err != nil {
			return nil, fmt.Errorf("snapshot cache: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		snapshots = c
		if shared != nil {
			snapshots = tiered.New(c, shared, cfg.Cache.SnapshotTTL)
		}
	}

	gh := github.NewClient(cfg.GitHub.APIURL, cfg.GitHub.Token, cfg.GitHub.Timeout)
	a.extractor = service.NewExtractorService(gh, snapshots, cfg.Cache.SnapshotTTL)
	a.extractor.SetRecorder(rec)

	a.llm = litellm.NewClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.Timeout)
	a.llm.SetBreaker(resilience.NewBreaker("litellm", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	eng := litellm.NewEngine(a.llm, litellm.EngineConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, rec)
	a.docs = service.NewDocumentationService(eng)
	a.docs.SetRecorder(rec)

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
