package port

import (
	"context"
	"errors"
)

// ErrDisconnected reports that no probe answered on the wire. It replaces
// the raw driver sentinel so a nonsensical value can never be logged or
// broadcast as if it were a real reading.
var ErrDisconnected = errors.New("sensor disconnected")

// Sensor supplies one Celsius reading per request. A bounded, blocking
// call; implementations return ErrDisconnected when no probe is present.
type Sensor interface {
	Name() string
	ReadTemperatureC(ctx context.Context) (float64, error)
}
