// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package export

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ManuGH/spotrecon/internal/recon"
)

// WriteJSON atomically writes the run envelope to path as indented JSON.
func WriteJSON(ctx context.Context, path string, run recon.Run) error {
	return writeAtomic(ctx, path, "json report", func(w io.Writer) error {
		return EncodeJSON(w, run)
	})
}

// EncodeJSON writes run as indented JSON followed by a newline.
func EncodeJSON(w io.Writer, run recon.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
