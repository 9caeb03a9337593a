// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/ManuGH/spotrecon/internal/api"
	"github.com/ManuGH/spotrecon/internal/config"
	xglog "github.com/ManuGH/spotrecon/internal/log"
	"github.com/ManuGH/spotrecon/internal/recon"
	"github.com/ManuGH/spotrecon/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// runServe runs the HTTP API until ctx is cancelled.
func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("spotrecon serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML configuration file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	xglog.Configure(xglog.Config{Level: "info", Service: "spotrecon", Version: version})
	logger := xglog.WithComponent("daemon")

	cfg, err := config.NewLoader(*configPath, version).Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
		return 1
	}
	xglog.Configure(xglog.Config{Level: cfg.LogLevel, Service: cfg.LogService, Version: cfg.Version})

	if err := serve(ctx, cfg); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("server stopped with error")
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg config.AppConfig) error {
	logger := xglog.WithComponent("daemon")

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	aliases, err := buildAliases(cfg.Alias)
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg, aliases.resolver, telemetry.Tracer("spotrecon/recon"))
	if err != nil {
		return err
	}

	tracingService := ""
	if cfg.Telemetry.Enabled {
		tracingService = cfg.LogService
	}
	server := api.New(api.Config{
		ServiceName:       tracingService,
		RequestsPerMinute: cfg.API.RequestsPerMinute,
		MaxBodyBytes:      cfg.API.MaxBodyBytes,
	}, recon.NewRunner(engine))

	logger.Info().
		Str(xglog.FieldEvent, "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.API.ListenAddr).
		Strs("alias_sources", cfg.Alias.Sources).
		Ints("standard_durations", engine.StandardDurations()).
		Msg("starting spotrecon")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, cfg.API.ListenAddr)
	})
	if aliases.static != nil && cfg.Alias.Watch {
		g.Go(func() error {
			return aliases.static.Watch(gctx)
		})
	}
	return g.Wait()
}
