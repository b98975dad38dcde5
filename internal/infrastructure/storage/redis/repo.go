package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"templog/internal/application/port"
)

type Repo struct {
	rdb       *redis.Client
	ttl       time.Duration
	keyLatest string // prefix + ":latest"
	stream    string // prefix + ":readings"
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	return &Repo{
		rdb:       rdb,
		ttl:       ttl,
		keyLatest: prefix + ":latest",
		stream:    prefix + ":readings",
	}
}

func (r *Repo) InsertReading(ctx context.Context, rd port.Reading) error {
	// Stream: XADD <prefix>:readings * sequence date hour temp_c ts_ms
	return r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"sequence": rd.Sequence,
			"date":     rd.Date,
			"hour":     rd.Hour,
			"temp_c":   rd.TempC,
			"ts_ms":    rd.Ts,
		},
	}).Err()
}

func (r *Repo) UpsertLatest(ctx context.Context, rd port.Reading) error {
	b, _ := json.Marshal(rd)

	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, r.keyLatest, string(b), 0)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Repository = (*Repo)(nil)
