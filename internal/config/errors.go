package config

import "codeberg.org/arlest/sensorpub/internal/errors"

const (
	// Loading errors
	ErrReadConfig = errors.ErrReadConfig
	ErrBindFlags  = errors.ErrBindFlags

	// Validation errors
	ErrInvalidLogLevel      = errors.ErrInvalidLogLevel
	ErrInvalidInterval      = errors.ErrInvalidInterval
	ErrInvalidPublishWindow = errors.ErrorCode("config_invalid_publish_window")
	ErrInvalidThreshold     = errors.ErrorCode("config_invalid_threshold")
	ErrInvalidTimeout       = errors.ErrorCode("config_invalid_timeout")
)
