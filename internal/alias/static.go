// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package alias

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	xglog "github.com/ManuGH/spotrecon/internal/log"
	"github.com/ManuGH/spotrecon/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const reloadDebounce = 500 * time.Millisecond

type staticFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// ParseStatic decodes a YAML alias document:
//
//	aliases:
//	  TVN-2: TVN
//	  MEDCOM: Telemetro
func ParseStatic(r io.Reader) (Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f staticFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(nil), nil
		}
		return Table{}, fmt.Errorf("parse alias file: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("parse alias file: multiple YAML documents are not supported")
	}
	return NewTable(f.Aliases), nil
}

// Static serves a table read from a YAML file and can reload it when the
// file changes.
type Static struct {
	path   string
	logger zerolog.Logger

	mu    sync.RWMutex
	table Table
}

// LoadStatic reads path and returns a resolver serving its table.
func LoadStatic(path string) (*Static, error) {
	s := &Static{
		path:   path,
		logger: xglog.WithComponent("alias"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the file. On failure the previous table stays active.
func (s *Static) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.IncAliasReload("failure")
		return fmt.Errorf("read alias file: %w", err)
	}
	t, err := ParseStatic(bytes.NewReader(data))
	if err != nil {
		metrics.IncAliasReload("failure")
		return err
	}

	s.mu.Lock()
	s.table = t
	s.mu.Unlock()

	metrics.IncAliasReload("success")
	s.logger.Info().
		Str(xglog.FieldEvent, "alias.file_loaded").
		Str("path", s.path).
		Int(xglog.FieldAliasCount, t.Len()).
		Msg("alias file loaded")
	return nil
}

// Table returns the active table.
func (s *Static) Table() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Resolve implements Resolver. The request is not consulted.
func (s *Static) Resolve(_ context.Context, _ Request) (Table, error) {
	return s.Table(), nil
}

// Watch reloads the file on change until ctx is done. It watches the parent
// directory so editors that replace the file are picked up.
func (s *Static) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch alias file: %w", err)
	}
	s.logger.Info().
		Str(xglog.FieldEvent, "alias.watcher_started").
		Str("path", s.path).
		Msg("watching alias file for changes")

	target := filepath.Clean(s.path)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str(xglog.FieldEvent, "alias.watcher_stopped").Msg("alias watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := s.Reload(); err != nil {
				s.logger.Error().
					Err(err).
					Str(xglog.FieldEvent, "alias.auto_reload_failed").
					Msg("automatic alias reload failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "alias.watcher_error").
				Msg("alias watcher error")
		}
	}
}
