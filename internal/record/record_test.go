package record_test

import (
	"testing"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchAppend(t *testing.T) {
	b := record.NewBatch(4)

	require.NoError(t, b.AppendInt("sensors.light.level", 512, 1000))
	require.NoError(t, b.AppendFloat("sensors.pressure.kpa", 101.3, 1000))
	require.Equal(t, 2, b.Len())

	entries := b.Entries()
	assert.Equal(t, "sensors.light.level", entries[0].Path)
	assert.Equal(t, int64(512), entries[0].Value())
	assert.Equal(t, uint64(1000), entries[0].Timestamp)
	assert.Equal(t, "sensors.pressure.kpa", entries[1].Path)
	assert.InDelta(t, 101.3, entries[1].FloatValue, 1e-9)
}

func TestBatchOverflow(t *testing.T) {
	b := record.NewBatch(2)

	require.NoError(t, b.AppendInt("a", 1, 1))
	require.NoError(t, b.AppendInt("b", 2, 1))

	err := b.AppendInt("c", 3, 1)
	require.Error(t, err)
	assert.Equal(t, record.ErrOverflow, errors.CodeOf(err))
	assert.Equal(t, 2, b.Len(), "a failed append must not grow the batch")
}

func TestBatchReset(t *testing.T) {
	b := record.NewBatch(0)
	require.NoError(t, b.AppendInt("a", 1, 1))

	before := b.ID()
	b.Reset()

	assert.Equal(t, 0, b.Len())
	assert.NotEqual(t, before, b.ID(), "a reset batch gets a new identity")

	// Capacity is available again after reset
	require.NoError(t, b.AppendInt("a", 1, 2))
	assert.Equal(t, 1, b.Len())
}
