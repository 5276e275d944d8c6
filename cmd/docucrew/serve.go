package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	dchttp "github.com/Strob0t/DocuCrew/internal/adapter/http"
	dcmcp "github.com/Strob0t/DocuCrew/internal/adapter/mcp"
	dcnats "github.com/Strob0t/DocuCrew/internal/adapter/nats"
	"github.com/Strob0t/DocuCrew/internal/adapter/natskv"
	dcotel "github.com/Strob0t/DocuCrew/internal/adapter/otel"
	"github.com/Strob0t/DocuCrew/internal/adapter/ws"
	"github.com/Strob0t/DocuCrew/internal/config"
	"github.com/Strob0t/DocuCrew/internal/metrics"
	"github.com/Strob0t/DocuCrew/internal/port/broadcast"
	"github.com/Strob0t/DocuCrew/internal/port/cache"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, WebSocket progress feed and MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closer, err := loadConfig(cmd, flags, os.Stdout)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&flags.host, "host", "", "listen host")
	cmd.Flags().StringVar(&flags.port, "port", "", "listen port")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("config loaded",
		"addr", cfg.Server.Addr(),
		"model", cfg.LLM.Model,
		"cache", cfg.Cache.Enabled(),
		"nats", cfg.NATS.URL != "",
		"otel", cfg.OTEL.Enabled,
	)

	// --- Observability ---

	shutdownOTEL, err := dcotel.Setup(ctx, dcotel.Config{
		Enabled:     cfg.OTEL.Enabled,
		Endpoint:    cfg.OTEL.Endpoint,
		ServiceName: cfg.OTEL.ServiceName,
		Insecure:    cfg.OTEL.Insecure,
		SampleRate:  cfg.OTEL.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTEL(sctx); err != nil {
			slog.Warn("otel shutdown failed", "error", err)
		}
	}()

	registry := metrics.NewRegistry()
	recorders := metrics.Multi{metrics.NewPrometheusRecorder(registry)}
	if cfg.OTEL.Enabled {
		om, err := dcotel.NewMetrics()
		if err != nil {
			return fmt.Errorf("otel metrics: %w", err)
		}
		recorders = append(recorders, om)
	}

	// --- Services ---

	hub := ws.NewHub(recorders)
	fanout := broadcast.Multi{hub}

	var shared cache.Cache
	if cfg.NATS.URL != "" {
		pub, err := dcnats.Connect(ctx, cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = pub.Close() }()
		fanout = append(fanout, pub)

		if cfg.Cache.Enabled() {
			kv, err := natskv.Open(ctx, pub.JetStream(), natskv.DefaultBucket, cfg.Cache.SnapshotTTL)
			if err != nil {
				return err
			}
			shared = kv
		}
	}

	a, err := newApp(cfg, recorders, shared)
	if err != nil {
		return err
	}
	defer a.Close()
	a.docs.SetProgressObserver(broadcast.Observer(fanout))

	// --- HTTP ---

	handlers := &dchttp.Handlers{
		Extractor:     a.extractor,
		Documentation: a.docs,
		LLM:           a.llm,
	}
	opts := dchttp.RouterOptions{
		CORSOrigin:     cfg.Server.CORSOrigin,
		RequestTimeout: cfg.Server.RequestTimeout,
		WS:             hub.HandleWS,
		Metrics:        metrics.HTTPHandler(registry),
	}
	if cfg.OTEL.Enabled {
		opts.Tracing = dcotel.HTTPMiddleware(cfg.OTEL.ServiceName)
	}
	if cfg.MCP.Enabled {
		mcpSrv := dcmcp.NewServer(
			dcmcp.ServerConfig{Name: cfg.MCP.Name, Version: cfg.MCP.Version},
			dcmcp.ServerDeps{Analyzer: a.extractor, Generator: a.docs},
		)
		opts.MCP = mcpSrv.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           dchttp.NewRouter(handlers, opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
