// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/ManuGH/spotrecon/internal/alias"
	"github.com/ManuGH/spotrecon/internal/config"
	"github.com/ManuGH/spotrecon/internal/recon"
	"go.opentelemetry.io/otel/trace"
)

// aliasWiring is the resolver built from alias.sources. static is non-nil
// when the static source is configured, so serve can watch it.
type aliasWiring struct {
	resolver alias.Resolver
	static   *alias.Static
}

func buildAliases(cfg config.AliasConfig) (aliasWiring, error) {
	var (
		w       aliasWiring
		sources []alias.Source
	)
	for _, name := range cfg.Sources {
		switch name {
		case config.AliasSourceStatic:
			st, err := alias.LoadStatic(cfg.File)
			if err != nil {
				return aliasWiring{}, fmt.Errorf("static aliases: %w", err)
			}
			w.static = st
			sources = append(sources, alias.Source{Name: name, Resolver: st})
		case config.AliasSourceHTTP:
			h, err := alias.NewHTTP(alias.HTTPConfig{
				URL:              cfg.URL,
				Timeout:          cfg.Timeout,
				RateLimit:        cfg.RateLimit,
				Burst:            cfg.Burst,
				BreakerThreshold: cfg.BreakerThreshold,
				BreakerReset:     cfg.BreakerReset,
			})
			if err != nil {
				return aliasWiring{}, fmt.Errorf("http aliases: %w", err)
			}
			sources = append(sources, alias.Source{Name: name, Resolver: h})
		case config.AliasSourceFuzzy:
			sources = append(sources, alias.Source{Name: name, Resolver: alias.Fuzzy{MaxDistance: cfg.FuzzyMaxDistance}})
		default:
			return aliasWiring{}, fmt.Errorf("unknown alias source %q", name)
		}
	}
	if len(sources) > 0 {
		w.resolver = alias.NewChain(sources...)
	}
	return w, nil
}

func buildEngine(cfg config.AppConfig, resolver alias.Resolver, tracer trace.Tracer) (*recon.Engine, error) {
	opts := []recon.EngineOption{recon.WithStandardDurations(cfg.Engine.StandardDurations)}
	if tracer != nil {
		opts = append(opts, recon.WithTracer(tracer))
	}
	return recon.NewEngine(resolver, opts...)
}
