// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"

	"github.com/ManuGH/spotrecon/internal/validate"
)

// Validate checks the merged configuration and returns every problem at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("logLevel", "must be one of trace, debug, info, warn, error", cfg.LogLevel)
	}
	v.NotEmpty("logService", cfg.LogService)

	if len(cfg.Engine.StandardDurations) == 0 {
		v.AddError("engine.standardDurations", "must list at least one duration", cfg.Engine.StandardDurations)
	}
	for i, d := range cfg.Engine.StandardDurations {
		v.Positive(fmt.Sprintf("engine.standardDurations[%d]", i), d)
	}

	validateAlias(v, cfg.Alias)

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.Positive("api.requestsPerMinute", cfg.API.RequestsPerMinute)
	if cfg.API.MaxBodyBytes <= 0 {
		v.AddError("api.maxBodyBytes", "must be positive", cfg.API.MaxBodyBytes)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
	}
	v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)

	return v.Err()
}

func validateAlias(v *validate.Validator, a AliasConfig) {
	seen := make(map[string]bool, len(a.Sources))
	for i, src := range a.Sources {
		field := fmt.Sprintf("alias.sources[%d]", i)
		v.OneOf(field, src, []string{AliasSourceStatic, AliasSourceHTTP, AliasSourceFuzzy})
		if seen[src] {
			v.AddError(field, "duplicate alias source", src)
		}
		seen[src] = true
	}

	if seen[AliasSourceStatic] {
		v.NotEmpty("alias.file", a.File)
	}
	if a.Watch && !seen[AliasSourceStatic] {
		v.AddError("alias.watch", "requires the static alias source", a.Watch)
	}
	if seen[AliasSourceHTTP] {
		v.URL("alias.url", a.URL, []string{"http", "https"})
		if a.Timeout <= 0 {
			v.AddError("alias.timeout", "must be positive", a.Timeout)
		}
		if a.RateLimit <= 0 {
			v.AddError("alias.rateLimit", "must be positive", a.RateLimit)
		}
		v.Positive("alias.burst", a.Burst)
		v.Positive("alias.breakerThreshold", a.BreakerThreshold)
		if a.BreakerReset <= 0 {
			v.AddError("alias.breakerReset", "must be positive", a.BreakerReset)
		}
	}
	if seen[AliasSourceFuzzy] {
		v.Range("alias.fuzzyMaxDistance", a.FuzzyMaxDistance, 1, 5)
	}
}
