package publish

import (
	"context"

	"codeberg.org/arlest/sensorpub/internal/record"
)

// Multi fans a batch out to several sinks in order and stops at the first
// failure. A failed fan-out fails the whole publish, so the scheduler retries
// the batch against every sink; sinks must tolerate seeing it again.
type Multi []Sink

func NewMulti(sinks ...Sink) Multi {
	return Multi(sinks)
}

func (m Multi) Publish(ctx context.Context, batch *record.Batch) error {
	for _, sink := range m {
		if err := sink.Publish(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}
