package board

import (
	"strings"

	"github.com/shirou/gopsutil/host"

	"codeberg.org/arlest/sensorpub/internal/errors"
)

// Host reads what the local machine can provide and simulates the rest.
// Only temperature has a portable source (the kernel's thermal zones via
// gopsutil); the remaining quantities fall back to the simulator.
type Host struct {
	*Sim

	sensorKey string
}

func NewHost(seed int64) *Host {
	return &Host{Sim: NewSim(seed)}
}

func (h *Host) Temperature() (float64, error) {
	errFactory := errors.New()

	stats, err := host.SensorsTemperatures()
	if err != nil {
		return 0, errFactory.Wrap(ErrTemperatureSource, err)
	}

	// Latch onto the first usable sensor so successive reads track the same
	// thermal zone. CPU zones are preferred when present.
	if h.sensorKey == "" {
		for _, st := range stats {
			if st.Temperature <= 0 {
				continue
			}
			if h.sensorKey == "" || strings.Contains(strings.ToLower(st.SensorKey), "cpu") {
				h.sensorKey = st.SensorKey
			}
		}
	}

	for _, st := range stats {
		if st.SensorKey == h.sensorKey && st.Temperature > 0 {
			return st.Temperature, nil
		}
	}

	return 0, errFactory.WithData(ErrNoTemperatureSensor, struct {
		Sensors int
	}{
		Sensors: len(stats),
	})
}
