package api

import (
	"context"

	"codeberg.org/arlest/sensorpub/internal/schedule"
)

// Controller is the slice of the sampling scheduler the status API drives.
// Start and Stop are idempotent, so pause/resume handlers can call them
// without checking state first.
type Controller interface {
	Start(ctx context.Context)
	Stop()
	Running() bool
	Status() schedule.Status
}
