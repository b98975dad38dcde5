package sensor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"templog/internal/application/port"
)

// DisconnectedC is the wire-level sentinel some one-wire stacks report
// for an absent probe. The driver never lets it escape as a reading; it
// is mapped to port.ErrDisconnected.
const DisconnectedC = -127.0

const w1Glob = "/sys/bus/w1/devices/28-*/w1_slave"

// DS18B20 reads a one-wire temperature probe through the Linux w1 sysfs
// interface. With an empty device path the first 28-family slave found
// under /sys/bus/w1/devices is used.
type DS18B20 struct {
	devicePath string
}

func NewDS18B20(devicePath string) *DS18B20 {
	return &DS18B20{devicePath: strings.TrimSpace(devicePath)}
}

func (d *DS18B20) Name() string { return "ds18b20" }

func (d *DS18B20) ReadTemperatureC(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path := d.devicePath
	if path == "" {
		p, err := discover()
		if err != nil {
			return 0, err
		}
		path = p
		d.devicePath = p
		log.Info().Str("device", p).Msg("one-wire probe discovered")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, port.ErrDisconnected
		}
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return parseW1Slave(string(b))
}

func discover() (string, error) {
	matches, err := filepath.Glob(w1Glob)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", port.ErrDisconnected
	}
	return matches[0], nil
}

// parseW1Slave decodes the two-line w1_slave payload:
//
//	2d 00 4b 46 ff ff 02 10 19 : crc=19 YES
//	2d 00 4b 46 ff ff 02 10 19 t=22625
func parseW1Slave(s string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) < 2 {
		return 0, errors.New("short w1_slave payload")
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, errors.New("w1 crc check failed")
	}
	i := strings.LastIndex(lines[1], "t=")
	if i < 0 {
		return 0, errors.New("w1_slave payload has no t= field")
	}
	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][i+2:]))
	if err != nil {
		return 0, fmt.Errorf("parse w1 temperature: %w", err)
	}
	c := float64(milli) / 1000.0
	if c <= DisconnectedC {
		return 0, port.ErrDisconnected
	}
	return c, nil
}

var _ port.Sensor = (*DS18B20)(nil)
