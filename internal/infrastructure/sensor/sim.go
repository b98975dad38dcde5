package sensor

import (
	"context"
	"math"
	"time"

	"templog/internal/application/port"
)

// Sim is a development stand-in for the hardware probe: a slow sine wave
// around a configurable base temperature.
type Sim struct {
	baseC float64
	start time.Time
}

func NewSim(baseC float64) *Sim {
	if baseC == 0 {
		baseC = 21.0
	}
	return &Sim{baseC: baseC, start: time.Now()}
}

func (s *Sim) Name() string { return "sim" }

func (s *Sim) ReadTemperatureC(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	elapsed := time.Since(s.start).Seconds()
	t := s.baseC + 2.0*math.Sin(elapsed/300.0)
	// quantize to the probe's 1/16 degree resolution
	return math.Round(t*16) / 16, nil
}

var _ port.Sensor = (*Sim)(nil)
