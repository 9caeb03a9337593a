// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ManuGH/spotrecon/internal/export"
	"github.com/ManuGH/spotrecon/internal/log"
	"github.com/ManuGH/spotrecon/internal/recon"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReconcile runs the posted input. A run overtaken by a newer
// submission answers 409; only the newest run is published.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	in, err := decodeInput(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeProblem(w, r, http.StatusRequestEntityTooLarge, problemTooLarge, "Request Entity Too Large", "BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeProblem(w, r, http.StatusBadRequest, problemBadRequest, "Bad Request", "INVALID_JSON", err.Error())
		return
	}

	run, err := s.runner.Submit(r.Context(), in)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, run)
	case errors.Is(err, recon.ErrInvalidInput):
		writeProblem(w, r, http.StatusUnprocessableEntity, problemInvalidInput, "Unprocessable Entity", "INVALID_INPUT", err.Error())
	case errors.Is(err, recon.ErrSuperseded):
		writeProblem(w, r, http.StatusConflict, problemSuperseded, "Conflict", "SUPERSEDED", "a newer reconciliation was submitted")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, r, http.StatusServiceUnavailable, problemCancelled, "Service Unavailable", "CANCELLED", err.Error())
	default:
		log.FromContext(r.Context()).Error().Err(err).Str(log.FieldEvent, "recon.error").Msg("reconciliation failed")
		writeProblem(w, r, http.StatusInternalServerError, problemInternal, "Internal Server Error", "INTERNAL", "")
	}
}

func decodeInput(body io.Reader) (recon.Input, error) {
	var in recon.Input
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return recon.Input{}, fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return recon.Input{}, errors.New("decode request body: trailing content after JSON object")
	}
	return in, nil
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run := s.runner.Latest()
	if run == nil {
		writeProblem(w, r, http.StatusNotFound, problemNoRun, "Not Found", "NO_RUN", "no reconciliation has completed yet")
		return
	}
	writeJSON(w, r, http.StatusOK, run)
}

func (s *Server) handleLatestWorkbook(w http.ResponseWriter, r *http.Request) {
	run := s.runner.Latest()
	if run == nil {
		writeProblem(w, r, http.StatusNotFound, problemNoRun, "Not Found", "NO_RUN", "no reconciliation has completed yet")
		return
	}
	w.Header().Set("Content-Type", export.WorkbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "reconciliation-"+run.ID+".xlsx"))
	if err := export.EncodeWorkbook(w, run.Result); err != nil {
		log.FromContext(r.Context()).Error().Err(err).Str(log.FieldEvent, "export.failed").Msg("workbook encoding failed")
	}
}
