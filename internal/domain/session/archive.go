package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// ArchiveVersion identifies the export format
const ArchiveVersion = 1

// ErrInvalidArchive is returned for archives that cannot be imported
var ErrInvalidArchive = errors.New("invalid state archive")

// Archive is the exported form of every persisted snapshot
type Archive struct {
	Version    int                        `json:"version"`
	ExportedAt time.Time                  `json:"exported_at"`
	Entries    map[string]json.RawMessage `json:"entries"`
}

// Export writes every known snapshot as a gzip-compressed JSON archive
func (a *Adapter) Export(ctx context.Context, w io.Writer) error {
	keys, err := a.store.Keys(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	archive := Archive{
		Version:    ArchiveVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    make(map[string]json.RawMessage, len(keys)),
	}
	for _, key := range keys {
		if !IsKnownKey(key) {
			continue
		}
		data, err := a.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid(data) {
			a.logger.Warn("Skipping non-JSON value in export", zap.String("key", key))
			continue
		}
		archive.Entries[key] = data
	}

	data, err := codec.Marshal(archive)
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}

	zw := gzip.NewWriter(w)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return fmt.Errorf("failed to compress archive: %w", err)
	}
	return zw.Close()
}

// Import restores snapshots from an archive produced by Export. Unknown keys
// are skipped. Returns the number of entries written; write failures are
// aggregated.
func (a *Adapter) Import(ctx context.Context, r io.Reader) (int, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	var archive Archive
	if err := codec.Unmarshal(data, &archive); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if archive.Version != ArchiveVersion {
		return 0, fmt.Errorf("%w: unsupported version %d", ErrInvalidArchive, archive.Version)
	}

	var result *multierror.Error
	written := 0
	for key, value := range archive.Entries {
		if !IsKnownKey(key) {
			continue
		}
		if err := a.write(ctx, key, value); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		written++
	}
	return written, result.ErrorOrNil()
}
