package record

import (
	"codeberg.org/arlest/sensorpub/internal/errors"
	"github.com/google/uuid"
)

// DefaultCapacity bounds the number of entries a batch accepts between publishes
const DefaultCapacity = 256

// Batch accumulates entries between publishes. It has a single writer (the
// sampling scheduler) and keeps its contents across failed publishes so the
// next qualifying tick retries the same payload.
type Batch struct {
	id       uuid.UUID
	capacity int
	entries  []Entry
}

// NewBatch creates an empty batch; capacity <= 0 selects DefaultCapacity
func NewBatch(capacity int) *Batch {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Batch{
		id:       uuid.New(),
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// ID identifies the batch across publish retries; Reset assigns a fresh one
func (b *Batch) ID() uuid.UUID {
	return b.id
}

// AppendInt adds an integer-valued entry
func (b *Batch) AppendInt(path string, value int64, timestamp uint64) error {
	return b.append(Entry{Path: path, Kind: KindInt, IntValue: value, Timestamp: timestamp})
}

// AppendFloat adds a float-valued entry
func (b *Batch) AppendFloat(path string, value float64, timestamp uint64) error {
	return b.append(Entry{Path: path, Kind: KindFloat, FloatValue: value, Timestamp: timestamp})
}

func (b *Batch) append(e Entry) error {
	if len(b.entries) >= b.capacity {
		errFactory := errors.New()
		return errFactory.WithData(ErrOverflow, struct {
			Path     string
			Capacity int
		}{e.Path, b.capacity})
	}

	b.entries = append(b.entries, e)

	return nil
}

// Len reports the number of accumulated entries
func (b *Batch) Len() int {
	return len(b.entries)
}

// Entries exposes the accumulated entries; the slice is valid until Reset
func (b *Batch) Entries() []Entry {
	return b.entries
}

// Reset empties the batch and assigns it a new identity
func (b *Batch) Reset() {
	b.id = uuid.New()
	b.entries = b.entries[:0]
}
