// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/spotrecon/internal/api/middleware"
	"github.com/ManuGH/spotrecon/internal/log"
)

// Problem types.
const (
	problemBadRequest   = "request/invalid"
	problemTooLarge     = "request/too_large"
	problemInvalidInput = "recon/invalid_input"
	problemSuperseded   = "recon/superseded"
	problemCancelled    = "recon/cancelled"
	problemNoRun        = "recon/no_run"
	problemInternal     = "system/internal"
)

// writeProblem writes an RFC 7807 problem details response.
//   - type: canonical machine identifier (e.g. "recon/superseded")
//   - code: stable upper-case short code
//   - detail: explanation of this occurrence, omitted when empty
func writeProblem(w http.ResponseWriter, r *http.Request, status int, problemType, title, code, detail string) {
	reqID := log.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = w.Header().Get(middleware.HeaderRequestID)
	}

	res := map[string]any{
		"type":   problemType,
		"title":  title,
		"status": status,
		"code":   code,
	}
	if detail != "" {
		res["detail"] = detail
	}
	if instance := r.URL.EscapedPath(); instance != "" {
		res["instance"] = instance
	}
	if reqID != "" {
		res["request_id"] = reqID
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.FromContext(r.Context()).Error().
			Err(err).
			Str("type", problemType).
			Int("status", status).
			Msg("failed to encode problem response")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
