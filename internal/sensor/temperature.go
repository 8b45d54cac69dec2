package sensor

import (
	"math"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// Temperature monitors the ambient temperature in degrees Celsius
type Temperature struct {
	read         TemperatureReader
	threshold    float64
	lastRead     float64
	lastRecorded float64
}

func NewTemperature(read TemperatureReader, threshold float64) *Temperature {
	return &Temperature{
		read:      read,
		threshold: threshold,
	}
}

func (s *Temperature) Name() string {
	return "temperature"
}

func (s *Temperature) Read() error {
	errFactory := errors.New()

	value, err := s.read()
	if err != nil {
		return errFactory.Wrap(ErrReadFailed, err)
	}
	s.lastRead = value

	return nil
}

func (s *Temperature) Exceeded() bool {
	return math.Abs(s.lastRead-s.lastRecorded) > s.threshold
}

func (s *Temperature) Record(batch *record.Batch, timestamp uint64) error {
	return batch.AppendFloat(PathTemperatureC, s.lastRead, timestamp)
}

func (s *Temperature) Accept() {
	s.lastRecorded = s.lastRead
}
