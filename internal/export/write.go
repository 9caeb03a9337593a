// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package export

import (
	"context"
	"fmt"
	"io"

	"github.com/ManuGH/spotrecon/internal/log"
	"github.com/google/renameio/v2"
)

// writeAtomic streams encode into a pending file next to path and renames
// it into place after fsync. Readers never see a partial report.
func writeAtomic(ctx context.Context, path, kind string, encode func(io.Writer) error) error {
	logger := log.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending %s file: %w", kind, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msgf("cleanup pending %s file", kind)
		}
	}()

	if err := encode(pendingFile); err != nil {
		return fmt.Errorf("write %s data: %w", kind, err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s file: %w", kind, err)
	}

	logger.Info().
		Str(log.FieldEvent, "export.written").
		Str("kind", kind).
		Str("path", path).
		Msg("report written")
	return nil
}
