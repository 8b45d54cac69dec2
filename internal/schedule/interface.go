package schedule

import (
	"context"

	"codeberg.org/arlest/sensorpub/internal/record"
)

// Sink receives a completed batch. A nil return commits the batch; any
// error means nothing was accepted and the scheduler keeps the batch for a
// later attempt.
type Sink interface {
	Publish(ctx context.Context, batch *record.Batch) error
}

// Status is a snapshot of the engine taken at the end of a tick.
// Timestamps are monotonic milliseconds, zero meaning never.
type Status struct {
	Running         bool         `json:"running"`
	Timestamp       uint64       `json:"timestamp"`
	LastPublished   uint64       `json:"last_published"`
	DeferredPublish bool         `json:"deferred_publish"`
	BatchEntries    int          `json:"batch_entries"`
	Items           []ItemStatus `json:"items"`
}

// ItemStatus reports one adapter's bookkeeping
type ItemStatus struct {
	Name         string `json:"name"`
	LastRead     uint64 `json:"last_read"`
	LastRecorded uint64 `json:"last_recorded"`
}
