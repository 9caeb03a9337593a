// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package dataset decodes normalized plan and execution-log records from
// JSON or YAML files. Each file holds one top-level list of flat records.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/spotrecon/internal/recon"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions other than .json, .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Format selects the decoder.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DecodePlan reads a list of plan lines.
func DecodePlan(r io.Reader, format Format) ([]recon.PlanLine, error) {
	return decode[recon.PlanLine](r, format)
}

// DecodeAired reads a list of aired units.
func DecodeAired(r io.Reader, format Format) ([]recon.AiredUnit, error) {
	return decode[recon.AiredUnit](r, format)
}

// LoadPlan reads a plan file, choosing the decoder by extension.
func LoadPlan(path string) ([]recon.PlanLine, error) {
	return load(path, DecodePlan)
}

// LoadAired reads an execution-log file, choosing the decoder by extension.
func LoadAired(path string) ([]recon.AiredUnit, error) {
	return load(path, DecodeAired)
}

func load[T any](path string, dec func(io.Reader, Format) ([]T, error)) ([]T, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- dataset paths are provided by the operator via CLI
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	records, err := dec(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// decode is strict: unknown fields and trailing documents are rejected.
// An empty stream yields an empty pool.
func decode[T any](r io.Reader, format Format) ([]T, error) {
	type decoder interface{ Decode(any) error }

	var dec decoder
	switch format {
	case FormatJSON:
		d := json.NewDecoder(r)
		d.DisallowUnknownFields()
		dec = d
	case FormatYAML:
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		dec = d
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	records := []T{}
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("decode %s records: %w", format, err)
	}
	if records == nil {
		records = []T{}
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s records: trailing content after record list", format)
	}
	return records, nil
}
