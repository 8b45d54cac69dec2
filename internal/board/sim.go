package board

import (
	"math"
	"math/rand"
	"time"

	"codeberg.org/arlest/sensorpub/internal/sensor"
)

// Sim synthesizes plausible readings without hardware. Scalar quantities
// follow clamped random walks, temperature rides a slow sine, and motion is
// jitter around rest values, so thresholds trip occasionally rather than on
// every tick. A fixed seed makes the sequence reproducible.
type Sim struct {
	rng *rand.Rand

	light     float64
	pressure  float64
	tempPhase float64
	fix       sensor.Fix
}

func NewSim(seed int64) *Sim {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Sim{
		rng:      rand.New(rand.NewSource(seed)),
		light:    400,
		pressure: 101.3,
		fix: sensor.Fix{
			Latitude:           59.3293,
			Longitude:          18.0686,
			HorizontalAccuracy: 5,
			Altitude:           28,
			VerticalAccuracy:   8,
		},
	}
}

func (s *Sim) Light() (int64, error) {
	s.light = clampFloat(s.light+s.rng.NormFloat64()*40, 0, 100000)

	return int64(s.light), nil
}

func (s *Sim) Pressure() (float64, error) {
	s.pressure = clampFloat(s.pressure+s.rng.NormFloat64()*0.2, 95, 106)

	return s.pressure, nil
}

func (s *Sim) Temperature() (float64, error) {
	s.tempPhase += 0.01

	return 21 + 4*math.Sin(s.tempPhase) + s.rng.NormFloat64()*0.3, nil
}

func (s *Sim) Acceleration() (sensor.Vector, error) {
	return sensor.Vector{
		X: s.rng.NormFloat64() * 0.2,
		Y: s.rng.NormFloat64() * 0.2,
		Z: 9.81 + s.rng.NormFloat64()*0.05,
	}, nil
}

func (s *Sim) AngularVelocity() (sensor.Vector, error) {
	return sensor.Vector{
		X: s.rng.NormFloat64() * 0.4,
		Y: s.rng.NormFloat64() * 0.4,
		Z: s.rng.NormFloat64() * 0.1,
	}, nil
}

func (s *Sim) Location() (sensor.Fix, error) {
	s.fix.Latitude += s.rng.NormFloat64() * 0.002
	s.fix.Longitude += s.rng.NormFloat64() * 0.002
	s.fix.Altitude += s.rng.NormFloat64() * 0.5
	s.fix.HorizontalAccuracy = clampFloat(3+s.rng.NormFloat64(), 1, 50)
	s.fix.VerticalAccuracy = clampFloat(6+2*s.rng.NormFloat64(), 1, 80)

	return s.fix, nil
}

func clampFloat(value, minValue, maxValue float64) float64 {
	return math.Max(minValue, math.Min(value, maxValue))
}
