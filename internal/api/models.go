package api

import (
	"time"

	"codeberg.org/arlest/sensorpub/internal/schedule"
)

type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Sampling  bool      `json:"sampling"`
	Timestamp time.Time `json:"timestamp"`
}

type SensorsResponse struct {
	Sensors []schedule.ItemStatus `json:"sensors"`
	Total   int                   `json:"total"`
}

type ScheduleStateResponse struct {
	Running bool `json:"running"`
}
