package sensor

import "codeberg.org/arlest/sensorpub/internal/record"

// Adapter wraps one monitored quantity. The sampling scheduler drives the
// four operations in a fixed order every tick; adapters keep their pending
// and accepted values in separate storage so mutating one never aliases the
// other.
type Adapter interface {
	// Name is the diagnostic label used in logs and status reporting
	Name() string
	// Read samples the quantity and stores the result as the pending value.
	// On failure the pending value is unreliable and the caller must not
	// advance its read timestamp.
	Read() error
	// Exceeded reports whether the pending value differs from the last
	// accepted one by strictly more than the adapter's threshold
	Exceeded() bool
	// Record appends the pending value to the batch under the adapter's
	// fixed path(s). Multi-component adapters short-circuit on the first
	// failing component; entries already appended stay in the batch.
	Record(batch *record.Batch, timestamp uint64) error
	// Accept copies the pending value over the last accepted one; called
	// only after a successful Record
	Accept()
}

// Vector is a three-component reading (acceleration, angular velocity)
type Vector struct {
	X, Y, Z float64
}

// Fix is a positioning fix with accuracy estimates
type Fix struct {
	Latitude           float64
	Longitude          float64
	HorizontalAccuracy float64
	Altitude           float64
	VerticalAccuracy   float64
}

// Reader functions are the per-quantity accessors supplied by the board layer
type (
	LightReader       func() (int64, error)
	PressureReader    func() (float64, error)
	TemperatureReader func() (float64, error)
	VectorReader      func() (Vector, error)
	FixReader         func() (Fix, error)
)

// Record paths, one fixed dotted name per published component
const (
	PathLightLevel   = "sensors.light.level"
	PathPressureKPa  = "sensors.pressure.kpa"
	PathTemperatureC = "sensors.temperature.celsius"

	PathAccelX = "sensors.accel.x"
	PathAccelY = "sensors.accel.y"
	PathAccelZ = "sensors.accel.z"

	PathGyroX = "sensors.gyro.x"
	PathGyroY = "sensors.gyro.y"
	PathGyroZ = "sensors.gyro.z"

	PathLocationLatitude  = "sensors.location.latitude"
	PathLocationLongitude = "sensors.location.longitude"
	PathLocationHAcc      = "sensors.location.hacc"
	PathLocationAltitude  = "sensors.location.altitude"
	PathLocationVAcc      = "sensors.location.vacc"
)
