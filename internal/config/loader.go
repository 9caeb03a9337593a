// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment keys. All are optional.
const (
	EnvLogLevel              = "SPOTRECON_LOG_LEVEL"
	EnvLogService            = "SPOTRECON_LOG_SERVICE"
	EnvStandardDurations     = "SPOTRECON_STANDARD_DURATIONS"
	EnvAliasSources          = "SPOTRECON_ALIAS_SOURCES"
	EnvAliasFile             = "SPOTRECON_ALIAS_FILE"
	EnvAliasWatch            = "SPOTRECON_ALIAS_WATCH"
	EnvAliasURL              = "SPOTRECON_ALIAS_URL"
	EnvAliasTimeout          = "SPOTRECON_ALIAS_TIMEOUT"
	EnvAliasRateLimit        = "SPOTRECON_ALIAS_RATE_LIMIT"
	EnvAliasBurst            = "SPOTRECON_ALIAS_BURST"
	EnvAliasBreakerThresh    = "SPOTRECON_ALIAS_BREAKER_THRESHOLD"
	EnvAliasBreakerReset     = "SPOTRECON_ALIAS_BREAKER_RESET"
	EnvAliasFuzzyDistance    = "SPOTRECON_ALIAS_FUZZY_DISTANCE"
	EnvListenAddr            = "SPOTRECON_LISTEN"
	EnvRequestsPerMinute     = "SPOTRECON_RATE_LIMIT_RPM"
	EnvMaxBodyBytes          = "SPOTRECON_MAX_BODY_BYTES"
	EnvTelemetryEnabled      = "SPOTRECON_TELEMETRY_ENABLED"
	EnvTelemetryExporter     = "SPOTRECON_OTEL_EXPORTER"
	EnvTelemetryEndpoint     = "SPOTRECON_OTEL_ENDPOINT"
	EnvTelemetrySamplingRate = "SPOTRECON_OTEL_SAMPLING_RATE"
	EnvExportDir             = "SPOTRECON_EXPORT_DIR"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. An empty configPath skips the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envInt64(key string, defaultVal int64) int64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt64(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envLookup(key string) (string, bool) {
	l.ConsumedEnvKeys[key] = struct{}{}
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Load loads configuration with precedence: ENV > File > Defaults.
// The merged result is validated before it is returned.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	cfg.Version = l.version

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.mergeEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("apply environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg with STRICT parsing.
// Unknown fields are rejected to prevent silent misconfiguration.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *AppConfig) error {
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)

	if raw, ok := l.envLookup(EnvStandardDurations); ok {
		durations, err := ParseDurationList(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStandardDurations, err)
		}
		cfg.Engine.StandardDurations = durations
	}

	if raw, ok := l.envLookup(EnvAliasSources); ok {
		cfg.Alias.Sources = ParseList(raw)
	}
	cfg.Alias.File = l.envString(EnvAliasFile, cfg.Alias.File)
	cfg.Alias.Watch = l.envBool(EnvAliasWatch, cfg.Alias.Watch)
	cfg.Alias.URL = l.envString(EnvAliasURL, cfg.Alias.URL)
	cfg.Alias.Timeout = l.envDuration(EnvAliasTimeout, cfg.Alias.Timeout)
	cfg.Alias.RateLimit = l.envFloat(EnvAliasRateLimit, cfg.Alias.RateLimit)
	cfg.Alias.Burst = l.envInt(EnvAliasBurst, cfg.Alias.Burst)
	cfg.Alias.BreakerThreshold = l.envInt(EnvAliasBreakerThresh, cfg.Alias.BreakerThreshold)
	cfg.Alias.BreakerReset = l.envDuration(EnvAliasBreakerReset, cfg.Alias.BreakerReset)
	cfg.Alias.FuzzyMaxDistance = l.envInt(EnvAliasFuzzyDistance, cfg.Alias.FuzzyMaxDistance)

	cfg.API.ListenAddr = l.envString(EnvListenAddr, cfg.API.ListenAddr)
	cfg.API.RequestsPerMinute = l.envInt(EnvRequestsPerMinute, cfg.API.RequestsPerMinute)
	cfg.API.MaxBodyBytes = l.envInt64(EnvMaxBodyBytes, cfg.API.MaxBodyBytes)

	cfg.Telemetry.Enabled = l.envBool(EnvTelemetryEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTelemetryExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvTelemetryEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvTelemetrySamplingRate, cfg.Telemetry.SamplingRate)

	cfg.Export.Dir = l.envString(EnvExportDir, cfg.Export.Dir)
	return nil
}
