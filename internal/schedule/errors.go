package schedule

import "codeberg.org/arlest/sensorpub/internal/errors"

// Scheduler-specific error codes
const (
	ErrInvalidConfig   = errors.ErrorCode("schedule_invalid_config")
	ErrInvalidInterval = errors.ErrorCode("schedule_invalid_interval")
	ErrInvalidWindow   = errors.ErrorCode("schedule_invalid_window")
	ErrInvalidCapacity = errors.ErrorCode("schedule_invalid_capacity")
	ErrNoItems         = errors.ErrorCode("schedule_no_items")
	ErrNoSink          = errors.ErrorCode("schedule_no_sink")
)
