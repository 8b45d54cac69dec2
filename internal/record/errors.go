package record

import "codeberg.org/arlest/sensorpub/internal/errors"

const (
	// ErrOverflow reports an append to a full batch
	ErrOverflow = errors.ErrorCode("record_overflow")
)
