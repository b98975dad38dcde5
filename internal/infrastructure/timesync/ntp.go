package timesync

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/ntp"
	"github.com/rs/zerolog/log"

	"templog/internal/application/port"
)

// stampLayout renders the combined ISO-8601 form the cycle splits on.
const stampLayout = "2006-01-02T15:04:05Z"

// NTPSource obtains the current time from an NTP server with a bounded
// retry budget. It never blocks past maxRetries queries; an exhausted
// budget surfaces as port.ErrSyncTimedOut so the cycle can skip the
// reading instead of hanging.
type NTPSource struct {
	server     string
	offset     time.Duration
	timeout    time.Duration
	maxRetries int
}

func NewNTPSource(server string, offsetSec, timeoutSec, maxRetries int) *NTPSource {
	return &NTPSource{
		server:     server,
		offset:     time.Duration(offsetSec) * time.Second,
		timeout:    time.Duration(timeoutSec) * time.Second,
		maxRetries: maxRetries,
	}
}

func (s *NTPSource) Timestamp(ctx context.Context) (string, error) {
	backoff := 500 * time.Millisecond
	maxBackoff := 5 * time.Second

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 0 {
			log.Warn().Err(lastErr).Int("attempt", attempt).Str("server", s.server).Msg("ntp retry")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff = minDur(backoff*2, maxBackoff)
		}

		resp, err := ntp.QueryWithOptions(s.server, ntp.QueryOptions{Timeout: s.timeout})
		if err != nil {
			lastErr = err
			continue
		}
		if err := resp.Validate(); err != nil {
			lastErr = err
			continue
		}

		synced := time.Now().Add(resp.ClockOffset)
		return Format(synced, s.offset), nil
	}

	return "", fmt.Errorf("%w: %d attempts against %s: %v", port.ErrSyncTimedOut, s.maxRetries, s.server, lastErr)
}

// Format renders t shifted by the configured UTC offset in the combined
// ISO-8601 layout. The trailing Z is kept even with a non-zero offset,
// matching the wire format the log format was derived from.
func Format(t time.Time, offset time.Duration) string {
	return t.UTC().Add(offset).Format(stampLayout)
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

var _ port.TimeSource = (*NTPSource)(nil)
