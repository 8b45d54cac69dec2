package publish

import (
	"context"

	"codeberg.org/arlest/sensorpub/internal/record"
)

// Sink delivers a published batch somewhere. A sink must treat the batch as
// read-only: on failure the scheduler keeps the same batch and publishes it
// again on the next qualifying tick.
type Sink interface {
	Publish(ctx context.Context, batch *record.Batch) error
}
