// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package alias

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/ManuGH/spotrecon/internal/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 1 << 20

// HTTPConfig configures the remote alias service client.
type HTTPConfig struct {
	URL              string
	Timeout          time.Duration
	RateLimit        float64 // requests per second; <= 0 disables limiting
	Burst            int
	BreakerThreshold int
	BreakerReset     time.Duration
	Client           *http.Client
}

// HTTP asks a remote service for aliases:
//
//	POST {url} {"plan_channels":[...],"aired_channels":[...]}
//	-> {"aliases":{"<aired>":"<plan>"|null}}
//
// Identical concurrent requests share one round trip.
type HTTP struct {
	url     string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	group   singleflight.Group
}

type httpResponse struct {
	Aliases map[string]*string `json:"aliases"`
}

// NewHTTP returns a client for cfg.URL.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("alias service url is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = 3
	}
	if cfg.BreakerReset <= 0 {
		cfg.BreakerReset = 30 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &HTTP{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		client:  client,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		breaker: resilience.NewCircuitBreaker("alias_http", cfg.BreakerThreshold, cfg.BreakerReset),
	}, nil
}

// Resolve implements Resolver.
func (h *HTTP) Resolve(ctx context.Context, req Request) (Table, error) {
	ch := h.group.DoChan(requestKey(req), func() (any, error) {
		return h.fetch(context.WithoutCancel(ctx), req)
	})
	select {
	case <-ctx.Done():
		return Table{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Table{}, res.Err
		}
		return res.Val.(Table), nil
	}
}

func (h *HTTP) fetch(ctx context.Context, req Request) (Table, error) {
	waitCtx, cancel := context.WithTimeout(ctx, h.timeout)
	err := h.limiter.Wait(waitCtx)
	cancel()
	if err != nil {
		return Table{}, fmt.Errorf("%w: rate limit: %w", ErrUnavailable, err)
	}

	var table Table
	err = h.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		t, err := h.roundTrip(ctx, req)
		if err != nil {
			return err
		}
		table = t
		return nil
	})
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return table, nil
}

func (h *HTTP) roundTrip(ctx context.Context, req Request) (Table, error) {
	body, err := json.Marshal(Request{
		PlanChannels:  nonNil(req.PlanChannels),
		AiredChannels: nonNil(req.AiredChannels),
	})
	if err != nil {
		return Table{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return Table{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Table{}, fmt.Errorf("post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Table{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out httpResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return Table{}, fmt.Errorf("decode response: %w", err)
	}
	m := make(map[string]string, len(out.Aliases))
	for aired, plan := range out.Aliases {
		if plan != nil {
			m[aired] = *plan
		}
	}
	return NewTable(m), nil
}

// State exposes the breaker state.
func (h *HTTP) State() resilience.State { return h.breaker.State() }

func requestKey(req Request) string {
	plan := slices.Clone(req.PlanChannels)
	aired := slices.Clone(req.AiredChannels)
	slices.Sort(plan)
	slices.Sort(aired)
	return strings.Join(plan, "\x1f") + "\x1e" + strings.Join(aired, "\x1f")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
