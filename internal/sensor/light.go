package sensor

import (
	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// Light monitors the ambient light level in lux
type Light struct {
	read         LightReader
	threshold    int64
	lastRead     int64
	lastRecorded int64
}

func NewLight(read LightReader, threshold int64) *Light {
	return &Light{
		read:      read,
		threshold: threshold,
	}
}

func (s *Light) Name() string {
	return "light"
}

func (s *Light) Read() error {
	errFactory := errors.New()

	value, err := s.read()
	if err != nil {
		return errFactory.Wrap(ErrReadFailed, err)
	}
	s.lastRead = value

	return nil
}

func (s *Light) Exceeded() bool {
	return absInt64(s.lastRead-s.lastRecorded) > s.threshold
}

func (s *Light) Record(batch *record.Batch, timestamp uint64) error {
	return batch.AppendInt(PathLightLevel, s.lastRead, timestamp)
}

func (s *Light) Accept() {
	s.lastRecorded = s.lastRead
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
