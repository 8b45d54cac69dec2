package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/arlest/sensorpub/internal/board"
	"codeberg.org/arlest/sensorpub/internal/errors"
)

func TestNew(t *testing.T) {
	b, err := board.New(board.Config{Source: "sim", Seed: 1})
	require.NoError(t, err)
	assert.IsType(t, &board.Sim{}, b)

	b, err = board.New(board.Config{Source: "host", Seed: 1})
	require.NoError(t, err)
	assert.IsType(t, &board.Host{}, b)

	_, err = board.New(board.Config{Source: "fpga"})
	require.Error(t, err)
	assert.Equal(t, board.ErrUnknownSource, errors.CodeOf(err))
}

func TestSimDeterministic(t *testing.T) {
	a := board.NewSim(42)
	b := board.NewSim(42)

	for i := 0; i < 32; i++ {
		la, err := a.Light()
		require.NoError(t, err)
		lb, err := b.Light()
		require.NoError(t, err)
		assert.Equal(t, la, lb)

		va, err := a.Acceleration()
		require.NoError(t, err)
		vb, err := b.Acceleration()
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}

func TestSimBounds(t *testing.T) {
	s := board.NewSim(7)

	for i := 0; i < 1000; i++ {
		light, err := s.Light()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, light, int64(0))

		pressure, err := s.Pressure()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pressure, 95.0)
		assert.LessOrEqual(t, pressure, 106.0)
	}
}
