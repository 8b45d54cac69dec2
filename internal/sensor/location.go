package sensor

import (
	"math"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// Location monitors the positioning fix. Change is measured as
// |Δlat| + |Δlon| in degrees; accuracy and altitude never trigger a
// record on their own, they ride along when the position moves.
type Location struct {
	read         FixReader
	threshold    float64
	lastRead     Fix
	lastRecorded Fix
}

func NewLocation(read FixReader, threshold float64) *Location {
	return &Location{
		read:      read,
		threshold: threshold,
	}
}

func (s *Location) Name() string {
	return "location"
}

func (s *Location) Read() error {
	errFactory := errors.New()

	value, err := s.read()
	if err != nil {
		return errFactory.Wrap(ErrReadFailed, err)
	}
	s.lastRead = value

	return nil
}

func (s *Location) Exceeded() bool {
	delta := math.Abs(s.lastRead.Latitude-s.lastRecorded.Latitude) +
		math.Abs(s.lastRead.Longitude-s.lastRecorded.Longitude)

	return delta > s.threshold
}

func (s *Location) Record(batch *record.Batch, timestamp uint64) error {
	components := []struct {
		path  string
		value float64
	}{
		{PathLocationLatitude, s.lastRead.Latitude},
		{PathLocationLongitude, s.lastRead.Longitude},
		{PathLocationHAcc, s.lastRead.HorizontalAccuracy},
		{PathLocationAltitude, s.lastRead.Altitude},
		{PathLocationVAcc, s.lastRead.VerticalAccuracy},
	}

	for _, c := range components {
		if err := batch.AppendFloat(c.path, c.value, timestamp); err != nil {
			return err
		}
	}

	return nil
}

func (s *Location) Accept() {
	s.lastRecorded = s.lastRead
}
