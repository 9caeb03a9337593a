// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/spotrecon/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []int{10, 35}, cfg.Engine.StandardDurations)
	assert.Empty(t, cfg.Alias.Sources)
	assert.Equal(t, ":8080", cfg.API.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.Alias.Timeout)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "spotrecon.yaml", `
logLevel: debug
engine:
  standardDurations: [15, 30]
alias:
  sources: [static, fuzzy]
  file: /etc/spotrecon/aliases.yaml
  timeout: 2s
api:
  listenAddr: "127.0.0.1:9090"
export:
  dir: /var/lib/spotrecon
`)
	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []int{15, 30}, cfg.Engine.StandardDurations)
	assert.Equal(t, []string{"static", "fuzzy"}, cfg.Alias.Sources)
	assert.Equal(t, 2*time.Second, cfg.Alias.Timeout)
	assert.Equal(t, "127.0.0.1:9090", cfg.API.ListenAddr)
	assert.Equal(t, "/var/lib/spotrecon", cfg.Export.Dir)
	// untouched keys keep their defaults
	assert.Equal(t, 60, cfg.API.RequestsPerMinute)
	assert.Equal(t, 2, cfg.Alias.FuzzyMaxDistance)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "spotrecon.yml", "logLevel: debug\n")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvStandardDurations, "20, 40s,20")
	t.Setenv(EnvAliasSources, "HTTP")
	t.Setenv(EnvAliasURL, "https://aliases.example.com/resolve")
	t.Setenv(EnvTelemetryEnabled, "yes")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []int{20, 40}, cfg.Engine.StandardDurations)
	assert.Equal(t, []string{"http"}, cfg.Alias.Sources)
	assert.Equal(t, "https://aliases.example.com/resolve", cfg.Alias.URL)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Contains(t, l.ConsumedEnvKeys, EnvAliasURL)
	assert.Contains(t, l.ConsumedEnvKeys, EnvStandardDurations)
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv(EnvRequestsPerMinute, "lots")
	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.API.RequestsPerMinute)
}

func TestLoad_BadDurationListFails(t *testing.T) {
	t.Setenv(EnvStandardDurations, "10,-5")
	_, err := NewLoader("", "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvStandardDurations)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, "spotrecon.yaml", "logLevel: info\nbogus: true\n")
	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField))
}

func TestLoad_RejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "spotrecon.yaml", "logLevel: info\n---\nlogLevel: debug\n")
	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_RejectsNonYAML(t *testing.T) {
	path := writeConfig(t, "spotrecon.json", "{}")
	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only YAML supported")
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "spotrecon.yaml", "")
	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().API, cfg.API)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		fields []string
	}{
		{"defaults", func(*AppConfig) {}, nil},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }, []string{"logLevel"}},
		{"no durations", func(c *AppConfig) { c.Engine.StandardDurations = nil }, []string{"engine.standardDurations"}},
		{"zero duration", func(c *AppConfig) { c.Engine.StandardDurations = []int{10, 0} }, []string{"engine.standardDurations[1]"}},
		{"static without file", func(c *AppConfig) { c.Alias.Sources = []string{"static"} }, []string{"alias.file"}},
		{"http without url", func(c *AppConfig) { c.Alias.Sources = []string{"http"} }, []string{"alias.url"}},
		{"unknown source", func(c *AppConfig) { c.Alias.Sources = []string{"ldap"} }, []string{"alias.sources[0]"}},
		{"duplicate source", func(c *AppConfig) { c.Alias.Sources = []string{"fuzzy", "fuzzy"} }, []string{"alias.sources[1]"}},
		{"watch without static", func(c *AppConfig) { c.Alias.Watch = true }, []string{"alias.watch"}},
		{"bad listen", func(c *AppConfig) { c.API.ListenAddr = "8080" }, []string{"api.listenAddr"}},
		{"bad exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, []string{"telemetry.exporter"}},
		{"sampling out of range", func(c *AppConfig) { c.Telemetry.SamplingRate = 1.5 }, []string{"telemetry.samplingRate"}},
		{"several at once", func(c *AppConfig) {
			c.LogLevel = ""
			c.API.RequestsPerMinute = 0
		}, []string{"logLevel", "api.requestsPerMinute"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var got []string
			for _, e := range unwrapAll(err) {
				var ve validate.Error
				if errors.As(e, &ve) {
					got = append(got, ve.Field)
				}
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
