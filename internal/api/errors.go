package api

import "codeberg.org/arlest/sensorpub/internal/errors"

// API-specific error codes
const (
	ErrInvalidListen  = errors.ErrorCode("api_invalid_listen")
	ErrListenFailed   = errors.ErrorCode("api_listen_failed")
	ErrShutdownFailed = errors.ErrorCode("api_shutdown_failed")
)
