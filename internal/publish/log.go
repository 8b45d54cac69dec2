package publish

import (
	"context"

	"codeberg.org/arlest/sensorpub/internal/logger"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// LogSink dumps each batch to the log at debug level. It never fails.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, batch *record.Batch) error {
	for _, e := range batch.Entries() {
		event := s.log.Debug().
			Str("path", e.Path).
			Uint64("timestamp", e.Timestamp)
		if e.Kind == record.KindInt {
			event = event.Int64("value", e.IntValue)
		} else {
			event = event.Float64("value", e.FloatValue)
		}
		event.Msg("Reading")
	}

	s.log.Debug().
		Str("id", batch.ID().String()).
		Int("entries", batch.Len()).
		Msg("Batch published to log")

	return nil
}
