// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads spotrecon configuration: defaults, then a strict
// YAML file, then SPOTRECON_* environment overrides, then validation.
package config

import "time"

// Alias source names accepted in alias.sources.
const (
	AliasSourceStatic = "static"
	AliasSourceHTTP   = "http"
	AliasSourceFuzzy  = "fuzzy"
)

// AppConfig is the effective configuration. Its YAML form is the file format.
type AppConfig struct {
	Version    string          `yaml:"-"`
	LogLevel   string          `yaml:"logLevel,omitempty"`
	LogService string          `yaml:"logService,omitempty"`
	Engine     EngineConfig    `yaml:"engine"`
	Alias      AliasConfig     `yaml:"alias"`
	API        APIConfig       `yaml:"api"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
	Export     ExportConfig    `yaml:"export"`
}

// EngineConfig configures the matcher.
type EngineConfig struct {
	StandardDurations []int `yaml:"standardDurations,omitempty"`
}

// AliasConfig configures channel alias resolution.
type AliasConfig struct {
	// Sources are consulted in order; empty disables aliasing.
	Sources          []string      `yaml:"sources,omitempty"`
	File             string        `yaml:"file,omitempty"`
	Watch            bool          `yaml:"watch,omitempty"`
	URL              string        `yaml:"url,omitempty"`
	Timeout          time.Duration `yaml:"timeout,omitempty"`
	RateLimit        float64       `yaml:"rateLimit,omitempty"`
	Burst            int           `yaml:"burst,omitempty"`
	BreakerThreshold int           `yaml:"breakerThreshold,omitempty"`
	BreakerReset     time.Duration `yaml:"breakerReset,omitempty"`
	FuzzyMaxDistance int           `yaml:"fuzzyMaxDistance,omitempty"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	ListenAddr        string `yaml:"listenAddr,omitempty"`
	RequestsPerMinute int    `yaml:"requestsPerMinute,omitempty"`
	MaxBodyBytes      int64  `yaml:"maxBodyBytes,omitempty"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled,omitempty"`
	Exporter     string  `yaml:"exporter,omitempty"`
	Endpoint     string  `yaml:"endpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty"`
}

// ExportConfig configures report output.
type ExportConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "spotrecon",
		Engine: EngineConfig{
			StandardDurations: []int{10, 35},
		},
		Alias: AliasConfig{
			Timeout:          5 * time.Second,
			RateLimit:        5,
			Burst:            1,
			BreakerThreshold: 3,
			BreakerReset:     30 * time.Second,
			FuzzyMaxDistance: 2,
		},
		API: APIConfig{
			ListenAddr:        ":8080",
			RequestsPerMinute: 60,
			MaxBodyBytes:      32 << 20,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}
