package publish

import "codeberg.org/arlest/sensorpub/internal/errors"

// Publish-specific error codes
const (
	ErrInvalidEndpoint = errors.ErrorCode("publish_invalid_endpoint")
	ErrEncodeFailed    = errors.ErrorCode("publish_encode_failed")
	ErrRequestFailed   = errors.ErrorCode("publish_request_failed")
	ErrEndpointStatus  = errors.ErrorCode("publish_endpoint_status")
	ErrJournalFailed   = errors.ErrorCode("publish_journal_failed")
)
