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
	"strings"

	"github.com/ManuGH/spotrecon/internal/config"
	"github.com/ManuGH/spotrecon/internal/dataset"
	"github.com/ManuGH/spotrecon/internal/export"
	xglog "github.com/ManuGH/spotrecon/internal/log"
	"github.com/ManuGH/spotrecon/internal/recon"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type runOptions struct {
	configPath string
	planPath   string
	airedPath  string
	from, to   string
	channels   stringList
	order      string
	durations  string
	xlsxPath   string
	jsonPath   string
}

func parseRunFlags(args []string, stderr io.Writer) (runOptions, error) {
	fs := flag.NewFlagSet("spotrecon run", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o runOptions
	fs.StringVar(&o.configPath, "config", "", "path to YAML configuration file")
	fs.StringVar(&o.planPath, "plan", "", "buy plan file (.json, .yaml, .yml)")
	fs.StringVar(&o.airedPath, "aired", "", "execution log file (.json, .yaml, .yml)")
	fs.StringVar(&o.from, "from", "", "first date in scope (YYYY-MM-DD)")
	fs.StringVar(&o.to, "to", "", "last date in scope (YYYY-MM-DD)")
	fs.Var(&o.channels, "channel", "plan channel in scope (repeatable)")
	fs.StringVar(&o.order, "order", "", "plan traversal order: canonical or as_given")
	fs.StringVar(&o.durations, "durations", "", "standard spot lengths in seconds, e.g. 10,35")
	fs.StringVar(&o.xlsxPath, "xlsx", "", "write an XLSX workbook to this path")
	fs.StringVar(&o.jsonPath, "json", "", "write the JSON report to this path")

	if err := fs.Parse(args); err != nil {
		return runOptions{}, err
	}
	if o.planPath == "" || o.airedPath == "" {
		return runOptions{}, errors.New("--plan and --aired are required")
	}
	return o, nil
}

func (o runOptions) input() (recon.Input, error) {
	var in recon.Input
	var err error

	if in.Scope.From, err = optionalDate(o.from); err != nil {
		return in, fmt.Errorf("--from: %w", err)
	}
	if in.Scope.To, err = optionalDate(o.to); err != nil {
		return in, fmt.Errorf("--to: %w", err)
	}
	in.Scope.Channels = o.channels

	if in.PlanOrder, err = recon.ParseOrder(o.order); err != nil {
		return in, fmt.Errorf("--order: %w", err)
	}
	if in.StandardDurations, err = config.ParseDurationList(o.durations); err != nil {
		return in, fmt.Errorf("--durations: %w", err)
	}

	if in.Plan, err = dataset.LoadPlan(o.planPath); err != nil {
		return in, fmt.Errorf("load plan: %w", err)
	}
	if in.Aired, err = dataset.LoadAired(o.airedPath); err != nil {
		return in, fmt.Errorf("load execution log: %w", err)
	}
	return in, nil
}

func optionalDate(s string) (recon.Date, error) {
	if strings.TrimSpace(s) == "" {
		return recon.Date{}, nil
	}
	return recon.ParseDate(s)
}

// runReconcile performs one reconciliation and prints the run as JSON.
func runReconcile(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseRunFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := config.NewLoader(opts.configPath, version).Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	xglog.Configure(xglog.Config{Level: cfg.LogLevel, Service: cfg.LogService, Version: cfg.Version, Output: stderr})
	logger := xglog.WithComponent("cli")

	in, err := opts.input()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	aliases, err := buildAliases(cfg.Alias)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	engine, err := buildEngine(cfg, aliases.resolver, nil)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	run, err := recon.NewRunner(engine).Submit(ctx, in)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Reconciliation failed: %v\n", err)
		return 1
	}
	for _, w := range run.Result.Warnings {
		logger.Warn().Str(xglog.FieldEvent, "recon.warning").Str("code", w.Code).Msg(w.Message)
	}

	if opts.xlsxPath != "" {
		if err := export.WriteWorkbook(ctx, opts.xlsxPath, run.Result); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if opts.jsonPath != "" {
		if err := export.WriteJSON(ctx, opts.jsonPath, *run); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := export.EncodeJSON(stdout, *run); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
