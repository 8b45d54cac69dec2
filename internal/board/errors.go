package board

import "codeberg.org/arlest/sensorpub/internal/errors"

// Board-specific error codes
const (
	ErrUnknownSource       = errors.ErrorCode("board_unknown_source")
	ErrTemperatureSource   = errors.ErrorCode("board_temperature_source")
	ErrNoTemperatureSensor = errors.ErrorCode("board_no_temperature_sensor")
)
