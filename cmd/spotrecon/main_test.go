// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/spotrecon/internal/alias"
	"github.com/ManuGH/spotrecon/internal/config"
	"github.com/ManuGH/spotrecon/internal/recon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testPlan = `
- date: 2024-03-01
  channel: TVN
  program: Noticiero
  ordered_quantity: 2
  duration_seconds: 30
  schedule: 6:00am-7:00am
  source_confidence: 0.9
- date: 2024-04-01
  channel: TVN
  program: Noticiero
  ordered_quantity: 1
  duration_seconds: 30
  schedule: 6:00am-7:00am
  source_confidence: 0.9
`

const testAired = `[
  {"date":"2024-03-01","channel":"TELEVISION NACIONAL","title":"Noticiero AM","genre_slot":"News",
   "time_range":"6:15am-6:45am","duration_seconds":30,"quantity":3,"source_confidence":0.9},
  {"date":"2024-03-01","channel":"TVN","title":"Promo","genre_slot":"Filler",
   "time_range":"8:00pm-8:01pm","duration_seconds":45,"quantity":1,"source_confidence":0.9}
]`

const testAliases = `
aliases:
  TELEVISION NACIONAL: TVN
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", testPlan)
	aired := writeFile(t, dir, "aired.json", testAired)
	aliases := writeFile(t, dir, "aliases.yaml", testAliases)
	cfgPath := writeFile(t, dir, "spotrecon.yaml", "alias:\n  sources: [static]\n  file: "+aliases+"\n")
	xlsxPath := filepath.Join(dir, "out.xlsx")
	jsonPath := filepath.Join(dir, "out.json")

	var stdout, stderr bytes.Buffer
	code := dispatch(context.Background(), []string{
		"run", "--config", cfgPath, "--plan", plan, "--aired", aired,
		"--from", "2024-03-01", "--to", "2024-03-31", "--durations", "30",
		"--xlsx", xlsxPath, "--json", jsonPath,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var run recon.Run
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &run))
	require.Len(t, run.Result.Lines, 1, "April line is out of scope")
	assert.Equal(t, 2, run.Result.Lines[0].TotalAllocated)
	require.Len(t, run.Result.Overflow, 1)
	assert.Equal(t, recon.ReasonExceededOrderQuantity, run.Result.Overflow[0].Reason)
	require.Len(t, run.Result.NonStandard, 1)
	assert.Empty(t, run.Result.Warnings)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.JSONEq(t, stdout.String(), string(data))

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows("Reconciled")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunCommandWithoutAliasesLeavesSpotsUnmatched(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", testPlan)
	aired := writeFile(t, dir, "aired.json", testAired)

	var stdout, stderr bytes.Buffer
	code := dispatch(context.Background(), []string{
		"run", "--plan", plan, "--aired", aired, "--durations", "30", "--channel", "TVN", "--order", "as_given",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var run recon.Run
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &run))
	require.Len(t, run.Result.Lines, 2)
	assert.Equal(t, recon.StatusMissing, run.Result.Lines[0].Status)
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", testPlan)
	aired := writeFile(t, dir, "aired.json", testAired)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing files", []string{"run"}, 2},
		{"bad flag", []string{"run", "--nope"}, 2},
		{"bad date", []string{"run", "--plan", plan, "--aired", aired, "--from", "March"}, 1},
		{"bad order", []string{"run", "--plan", plan, "--aired", aired, "--order", "random"}, 1},
		{"unsupported format", []string{"run", "--plan", filepath.Join(dir, "plan.csv"), "--aired", aired}, 1},
		{"bad config", []string{"run", "--plan", plan, "--aired", aired, "--config", filepath.Join(dir, "absent.yaml")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, dispatch(context.Background(), tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestDispatch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, dispatch(context.Background(), []string{"version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), version)

	assert.Equal(t, 2, dispatch(context.Background(), nil, &stdout, &stderr))
	assert.Equal(t, 2, dispatch(context.Background(), []string{"frobnicate"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Unknown command: frobnicate")
}

func TestBuildAliases(t *testing.T) {
	dir := t.TempDir()
	aliasFile := writeFile(t, dir, "aliases.yaml", testAliases)

	w, err := buildAliases(config.AliasConfig{})
	require.NoError(t, err)
	assert.Nil(t, w.resolver)

	w, err = buildAliases(config.AliasConfig{
		Sources:          []string{"static", "fuzzy"},
		File:             aliasFile,
		FuzzyMaxDistance: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, w.static)

	table, err := w.resolver.Resolve(context.Background(), alias.Request{
		PlanChannels:  []string{"TVN", "Telemetro"},
		AiredChannels: []string{"TELEVISION NACIONAL", "Telemetro HD"},
	})
	require.NoError(t, err)
	got, ok := table.Lookup("television nacional")
	assert.True(t, ok)
	assert.Equal(t, "TVN", got)
	got, ok = table.Lookup("Telemetro HD")
	assert.True(t, ok)
	assert.Equal(t, "Telemetro", got)

	_, err = buildAliases(config.AliasConfig{Sources: []string{"static"}, File: filepath.Join(dir, "absent.yaml")})
	assert.Error(t, err)
	_, err = buildAliases(config.AliasConfig{Sources: []string{"http"}})
	assert.Error(t, err)
}
