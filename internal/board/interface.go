package board

import "codeberg.org/arlest/sensorpub/internal/sensor"

// Board exposes the hardware-facing accessors the sensor adapters sample.
// Implementations are called from a single goroutine and need no locking.
type Board interface {
	Light() (int64, error)
	Pressure() (float64, error)
	Temperature() (float64, error)
	Acceleration() (sensor.Vector, error)
	AngularVelocity() (sensor.Vector, error)
	Location() (sensor.Fix, error)
}

// Config selects the reading source
type Config struct {
	Source string
	Seed   int64
}
