// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package alias

import (
	"context"
	"errors"
	"fmt"

	xglog "github.com/ManuGH/spotrecon/internal/log"
	"github.com/ManuGH/spotrecon/internal/metrics"
)

// Source is a named resolver inside a Chain.
type Source struct {
	Name     string
	Resolver Resolver
}

// Chain queries its sources in order; the first mapping for a name wins.
// A failing source is skipped. The chain fails only when every source does.
type Chain struct {
	sources []Source
}

// NewChain returns a chain over sources.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Resolve implements Resolver.
func (c *Chain) Resolve(ctx context.Context, req Request) (Table, error) {
	logger := xglog.WithComponentFromContext(ctx, "alias")

	var (
		table  = NewTable(nil)
		errs   []error
		served int
	)
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}
		t, err := src.Resolver.Resolve(ctx, req)
		if err != nil {
			metrics.IncAliasResolution(src.Name, "failure")
			logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "alias.source_failed").
				Str(xglog.FieldAliasSource, src.Name).
				Msg("alias source failed, trying next")
			errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
			continue
		}
		metrics.IncAliasResolution(src.Name, "success")
		logger.Debug().
			Str(xglog.FieldEvent, "alias.source_resolved").
			Str(xglog.FieldAliasSource, src.Name).
			Int(xglog.FieldAliasCount, t.Len()).
			Msg("alias source resolved")
		table = table.Merge(t)
		served++
	}

	if served == 0 && len(c.sources) > 0 {
		return Table{}, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
	}
	return table, nil
}
