package sensor

import (
	"math"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// Acceleration monitors the 3-axis accelerometer in m/s².
// Change is measured as the Euclidean norm of the component deltas, so a
// large swing on one axis and small swings on all three are weighed alike.
type Acceleration struct {
	read         VectorReader
	threshold    float64
	lastRead     Vector
	lastRecorded Vector
}

func NewAcceleration(read VectorReader, threshold float64) *Acceleration {
	return &Acceleration{
		read:      read,
		threshold: threshold,
	}
}

func (s *Acceleration) Name() string {
	return "accel"
}

func (s *Acceleration) Read() error {
	errFactory := errors.New()

	value, err := s.read()
	if err != nil {
		return errFactory.Wrap(ErrReadFailed, err)
	}
	s.lastRead = value

	return nil
}

func (s *Acceleration) Exceeded() bool {
	return normDelta(s.lastRead, s.lastRecorded) > s.threshold
}

func (s *Acceleration) Record(batch *record.Batch, timestamp uint64) error {
	if err := batch.AppendFloat(PathAccelX, s.lastRead.X, timestamp); err != nil {
		return err
	}
	if err := batch.AppendFloat(PathAccelY, s.lastRead.Y, timestamp); err != nil {
		return err
	}

	return batch.AppendFloat(PathAccelZ, s.lastRead.Z, timestamp)
}

func (s *Acceleration) Accept() {
	s.lastRecorded = s.lastRead
}

// Gyro monitors the 3-axis angular velocity in rad/s, with the same
// norm-of-deltas change measure as Acceleration.
type Gyro struct {
	read         VectorReader
	threshold    float64
	lastRead     Vector
	lastRecorded Vector
}

func NewGyro(read VectorReader, threshold float64) *Gyro {
	return &Gyro{
		read:      read,
		threshold: threshold,
	}
}

func (s *Gyro) Name() string {
	return "gyro"
}

func (s *Gyro) Read() error {
	errFactory := errors.New()

	value, err := s.read()
	if err != nil {
		return errFactory.Wrap(ErrReadFailed, err)
	}
	s.lastRead = value

	return nil
}

func (s *Gyro) Exceeded() bool {
	return normDelta(s.lastRead, s.lastRecorded) > s.threshold
}

func (s *Gyro) Record(batch *record.Batch, timestamp uint64) error {
	if err := batch.AppendFloat(PathGyroX, s.lastRead.X, timestamp); err != nil {
		return err
	}
	if err := batch.AppendFloat(PathGyroY, s.lastRead.Y, timestamp); err != nil {
		return err
	}

	return batch.AppendFloat(PathGyroZ, s.lastRead.Z, timestamp)
}

func (s *Gyro) Accept() {
	s.lastRecorded = s.lastRead
}

func normDelta(a, b Vector) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
