package publish

import (
	"context"

	"github.com/benbjohnson/clock"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/journal"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// JournalSink archives each batch in the local publish journal, stamped with
// the delivery time.
type JournalSink struct {
	journal journal.Journal
	clk     clock.Clock
}

func NewJournalSink(j journal.Journal, clk clock.Clock) *JournalSink {
	return &JournalSink{
		journal: j,
		clk:     clk,
	}
}

func (s *JournalSink) Publish(ctx context.Context, batch *record.Batch) error {
	errFactory := errors.New()

	publishedAt := uint64(s.clk.Now().UnixMilli())
	if err := s.journal.Record(ctx, batch, publishedAt); err != nil {
		return errFactory.Wrap(ErrJournalFailed, err)
	}

	return nil
}
