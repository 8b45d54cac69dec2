package sensor

import "codeberg.org/arlest/sensorpub/internal/errors"

// Sensor-specific error codes
const (
	ErrReadFailed = errors.ErrorCode("sensor_read_failed")
)
