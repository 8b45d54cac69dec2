package sensor

import (
	"math"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// Pressure monitors the barometric pressure in kilopascal
type Pressure struct {
	read         PressureReader
	threshold    float64
	lastRead     float64
	lastRecorded float64
}

func NewPressure(read PressureReader, threshold float64) *Pressure {
	return &Pressure{
		read:      read,
		threshold: threshold,
	}
}

func (s *Pressure) Name() string {
	return "pressure"
}

func (s *Pressure) Read() error {
	errFactory := errors.New()

	value, err := s.read()
	if err != nil {
		return errFactory.Wrap(ErrReadFailed, err)
	}
	s.lastRead = value

	return nil
}

func (s *Pressure) Exceeded() bool {
	return math.Abs(s.lastRead-s.lastRecorded) > s.threshold
}

func (s *Pressure) Record(batch *record.Batch, timestamp uint64) error {
	return batch.AppendFloat(PathPressureKPa, s.lastRead, timestamp)
}

func (s *Pressure) Accept() {
	s.lastRecorded = s.lastRead
}
