package storage

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"templog/internal/application/port"
	"templog/internal/infrastructure/config"
	"templog/internal/infrastructure/storage/composite"
	"templog/internal/infrastructure/storage/postgres"
	"templog/internal/infrastructure/storage/redis"
	"templog/internal/infrastructure/storage/sqlite"
)

// Open assembles the mirror repository from the enabled backends.
// Returns nil when nothing is enabled; the recorder then runs with its
// noop repository.
func Open(cfg *config.Config) (port.Repository, error) {
	var repos []port.Repository

	if cfg.Storage.SQLite.Enabled {
		r, err := sqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Storage.SQLite.Path).Msg("sqlite mirror enabled")
		repos = append(repos, r)
	}

	if cfg.Storage.Postgres.Enabled {
		r, err := postgres.New(cfg.Storage.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("postgres mirror enabled")
		repos = append(repos, r)
	}

	if cfg.Storage.Redis.Enabled {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Storage.Redis.Addr})
		ttl := time.Duration(cfg.Storage.Redis.TTLSec) * time.Second
		log.Info().Str("addr", cfg.Storage.Redis.Addr).Msg("redis mirror enabled")
		repos = append(repos, redis.New(rdb, cfg.Storage.Redis.Prefix, ttl))
	}

	if len(repos) == 0 {
		return nil, nil
	}
	return composite.New(repos...), nil
}
