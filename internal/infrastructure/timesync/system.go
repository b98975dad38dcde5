package timesync

import (
	"context"
	"time"

	"templog/internal/application/port"
)

// SystemSource stamps readings from the local clock. Useful on hosts
// that already run an NTP daemon, or for development.
type SystemSource struct {
	offset time.Duration
	now    func() time.Time
}

func NewSystemSource(offsetSec int) *SystemSource {
	return &SystemSource{
		offset: time.Duration(offsetSec) * time.Second,
		now:    time.Now,
	}
}

func (s *SystemSource) Timestamp(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Format(s.now(), s.offset), nil
}

var _ port.TimeSource = (*SystemSource)(nil)
