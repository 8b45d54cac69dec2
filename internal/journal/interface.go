package journal

import (
	"context"

	"codeberg.org/arlest/sensorpub/internal/record"
)

// Journal persists published batches locally. Record is keyed by the batch
// id: re-recording a batch that was journaled before a failed upstream
// publish replaces the earlier rows instead of duplicating them.
type Journal interface {
	Record(ctx context.Context, batch *record.Batch, publishedAt uint64) error
	Close() error
}
