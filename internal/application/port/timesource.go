package port

import (
	"context"
	"errors"
)

// ErrSyncTimedOut reports that the time source exhausted its retry budget
// without obtaining a valid sync. The cycle skips the reading instead of
// blocking forever.
var ErrSyncTimedOut = errors.New("time sync timed out")

// TimeSource supplies a combined ISO-8601 timestamp ("2018-05-28T16:00:13Z")
// once per reading cycle. Implementations may retry internally but must
// honor the context and return ErrSyncTimedOut rather than block
// indefinitely.
type TimeSource interface {
	Timestamp(ctx context.Context) (string, error)
}
