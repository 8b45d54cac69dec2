package sensor_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
	"codeberg.org/arlest/sensorpub/internal/sensor"
)

func intSeq(values ...int64) func() (int64, error) {
	i := 0

	return func() (int64, error) {
		v := values[i]
		if i < len(values)-1 {
			i++
		}

		return v, nil
	}
}

func floatSeq(values ...float64) func() (float64, error) {
	i := 0

	return func() (float64, error) {
		v := values[i]
		if i < len(values)-1 {
			i++
		}

		return v, nil
	}
}

func vectorSeq(values ...sensor.Vector) func() (sensor.Vector, error) {
	i := 0

	return func() (sensor.Vector, error) {
		v := values[i]
		if i < len(values)-1 {
			i++
		}

		return v, nil
	}
}

func fixSeq(values ...sensor.Fix) func() (sensor.Fix, error) {
	i := 0

	return func() (sensor.Fix, error) {
		v := values[i]
		if i < len(values)-1 {
			i++
		}

		return v, nil
	}
}

// settle establishes a recorded baseline from the adapter's next read
func settle(t *testing.T, s sensor.Adapter) {
	t.Helper()

	scratch := record.NewBatch(0)
	require.NoError(t, s.Read())
	require.NoError(t, s.Record(scratch, 1))
	s.Accept()
}

func TestNames(t *testing.T) {
	assert.Equal(t, "light", sensor.NewLight(intSeq(0), 200).Name())
	assert.Equal(t, "pressure", sensor.NewPressure(floatSeq(0), 1).Name())
	assert.Equal(t, "temperature", sensor.NewTemperature(floatSeq(0), 2).Name())
	assert.Equal(t, "accel", sensor.NewAcceleration(vectorSeq(sensor.Vector{}), 1).Name())
	assert.Equal(t, "gyro", sensor.NewGyro(vectorSeq(sensor.Vector{}), 1).Name())
	assert.Equal(t, "location", sensor.NewLocation(fixSeq(sensor.Fix{}), 0.01).Name())
}

func TestLightThreshold(t *testing.T) {
	tests := []struct {
		name     string
		probe    int64
		exceeded bool
	}{
		{"unchanged", 500, false},
		{"delta equal to threshold", 700, false},
		{"delta just above threshold", 701, true},
		{"negative delta equal to threshold", 300, false},
		{"negative delta just above threshold", 299, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sensor.NewLight(intSeq(500, tt.probe), 200)
			settle(t, s)

			require.NoError(t, s.Read())
			assert.Equal(t, tt.exceeded, s.Exceeded())
		})
	}
}

func TestPressureThreshold(t *testing.T) {
	tests := []struct {
		name     string
		probe    float64
		exceeded bool
	}{
		{"unchanged", 101.0, false},
		{"delta equal to threshold", 102.0, false},
		{"delta above threshold", 102.5, true},
		{"negative delta equal to threshold", 100.0, false},
		{"negative delta above threshold", 99.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sensor.NewPressure(floatSeq(101.0, tt.probe), 1.0)
			settle(t, s)

			require.NoError(t, s.Read())
			assert.Equal(t, tt.exceeded, s.Exceeded())
		})
	}
}

func TestTemperatureThreshold(t *testing.T) {
	tests := []struct {
		name     string
		probe    float64
		exceeded bool
	}{
		{"small drift", 21.5, false},
		{"delta equal to threshold", 22.0, false},
		{"delta above threshold", 22.5, true},
		{"negative delta equal to threshold", 18.0, false},
		{"negative delta above threshold", 17.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sensor.NewTemperature(floatSeq(20.0, tt.probe), 2.0)
			settle(t, s)

			require.NoError(t, s.Read())
			assert.Equal(t, tt.exceeded, s.Exceeded())
		})
	}
}

func TestAccelerationThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		probe     sensor.Vector
		exceeded  bool
	}{
		{"single axis below", 1.0, sensor.Vector{X: 0.5}, false},
		{"single axis equal to threshold", 1.0, sensor.Vector{Z: 1.0}, false},
		{"single axis above threshold", 1.0, sensor.Vector{Z: 2.0}, true},
		{"norm equal to threshold across axes", 5.0, sensor.Vector{X: 3, Y: 4}, false},
		{"norm above threshold across axes", 5.0, sensor.Vector{X: 3, Y: 4, Z: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sensor.NewAcceleration(vectorSeq(sensor.Vector{}, tt.probe), tt.threshold)
			settle(t, s)

			require.NoError(t, s.Read())
			assert.Equal(t, tt.exceeded, s.Exceeded())
		})
	}
}

func TestGyroThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		probe     sensor.Vector
		exceeded  bool
	}{
		{"below default threshold", math.Pi / 2, sensor.Vector{X: 1.5}, false},
		{"above default threshold", math.Pi / 2, sensor.Vector{X: 1.6}, true},
		{"norm equal to threshold", 5.0, sensor.Vector{Y: 3, Z: 4}, false},
		{"norm above threshold", 5.0, sensor.Vector{X: 1, Y: 3, Z: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sensor.NewGyro(vectorSeq(sensor.Vector{}, tt.probe), tt.threshold)
			settle(t, s)

			require.NoError(t, s.Read())
			assert.Equal(t, tt.exceeded, s.Exceeded())
		})
	}
}

func TestLocationThreshold(t *testing.T) {
	base := sensor.Fix{
		Latitude:           10.0,
		Longitude:          20.0,
		HorizontalAccuracy: 5,
		Altitude:           40,
		VerticalAccuracy:   8,
	}

	tests := []struct {
		name      string
		threshold float64
		probe     sensor.Fix
		exceeded  bool
	}{
		{
			"sum of deltas equal to threshold",
			0.5,
			sensor.Fix{Latitude: 10.25, Longitude: 20.25},
			false,
		},
		{
			"sum of deltas above threshold",
			0.5,
			sensor.Fix{Latitude: 10.25, Longitude: 20.5},
			true,
		},
		{
			"opposite directions accumulate",
			0.5,
			sensor.Fix{Latitude: 9.75, Longitude: 19.5},
			true,
		},
		{
			"accuracy and altitude changes alone do not trip",
			0.5,
			sensor.Fix{Latitude: 10.0, Longitude: 20.0, HorizontalAccuracy: 50, Altitude: 400, VerticalAccuracy: 80},
			false,
		},
		{
			"small drift below default threshold",
			0.01,
			sensor.Fix{Latitude: 10.0, Longitude: 20.005},
			false,
		},
		{
			"drift above default threshold",
			0.01,
			sensor.Fix{Latitude: 10.0, Longitude: 20.02},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sensor.NewLocation(fixSeq(base, tt.probe), tt.threshold)
			settle(t, s)

			require.NoError(t, s.Read())
			assert.Equal(t, tt.exceeded, s.Exceeded())
		})
	}
}

func TestReadFailure(t *testing.T) {
	cause := fmt.Errorf("i2c bus timeout")
	s := sensor.NewLight(func() (int64, error) { return 0, cause }, 200)

	err := s.Read()
	require.Error(t, err)
	assert.Equal(t, sensor.ErrReadFailed, errors.CodeOf(err))
	assert.True(t, errors.Is(err, cause))
}

func TestRecordComponents(t *testing.T) {
	t.Run("light appends a single integer entry", func(t *testing.T) {
		s := sensor.NewLight(intSeq(340), 200)
		require.NoError(t, s.Read())

		batch := record.NewBatch(0)
		require.NoError(t, s.Record(batch, 42))

		entries := batch.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, sensor.PathLightLevel, entries[0].Path)
		assert.Equal(t, record.KindInt, entries[0].Kind)
		assert.Equal(t, int64(340), entries[0].IntValue)
		assert.Equal(t, uint64(42), entries[0].Timestamp)
	})

	t.Run("acceleration appends one entry per axis", func(t *testing.T) {
		s := sensor.NewAcceleration(vectorSeq(sensor.Vector{X: 0.1, Y: 0.2, Z: 9.8}), 1.0)
		require.NoError(t, s.Read())

		batch := record.NewBatch(0)
		require.NoError(t, s.Record(batch, 42))

		entries := batch.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, sensor.PathAccelX, entries[0].Path)
		assert.Equal(t, sensor.PathAccelY, entries[1].Path)
		assert.Equal(t, sensor.PathAccelZ, entries[2].Path)
		assert.InDelta(t, 9.8, entries[2].FloatValue, 1e-9)
		for _, e := range entries {
			assert.Equal(t, uint64(42), e.Timestamp)
		}
	})

	t.Run("location appends position then accuracy fields", func(t *testing.T) {
		fix := sensor.Fix{
			Latitude:           59.3293,
			Longitude:          18.0686,
			HorizontalAccuracy: 4.5,
			Altitude:           28.0,
			VerticalAccuracy:   6.0,
		}
		s := sensor.NewLocation(fixSeq(fix), 0.01)
		require.NoError(t, s.Read())

		batch := record.NewBatch(0)
		require.NoError(t, s.Record(batch, 42))

		entries := batch.Entries()
		require.Len(t, entries, 5)
		paths := make([]string, 0, len(entries))
		for _, e := range entries {
			paths = append(paths, e.Path)
		}
		assert.Equal(t, []string{
			sensor.PathLocationLatitude,
			sensor.PathLocationLongitude,
			sensor.PathLocationHAcc,
			sensor.PathLocationAltitude,
			sensor.PathLocationVAcc,
		}, paths)
	})
}

func TestRecordShortCircuit(t *testing.T) {
	s := sensor.NewLocation(fixSeq(sensor.Fix{Latitude: 1, Longitude: 2}), 0.01)
	require.NoError(t, s.Read())

	batch := record.NewBatch(3)
	err := s.Record(batch, 7)
	require.Error(t, err)
	assert.Equal(t, record.ErrOverflow, errors.CodeOf(err))
	assert.Equal(t, 3, batch.Len())
}

func TestAcceptMovesBaseline(t *testing.T) {
	s := sensor.NewLight(intSeq(500, 650, 849, 851), 200)
	settle(t, s)

	require.NoError(t, s.Read())
	assert.False(t, s.Exceeded())
	s.Accept()

	require.NoError(t, s.Read())
	assert.False(t, s.Exceeded())

	require.NoError(t, s.Read())
	assert.True(t, s.Exceeded())
}
