package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		IntervalSec int  `toml:"interval_sec"`
		ConsoleLive bool `toml:"console_live"`
	} `toml:"app"`

	Sensor struct {
		Driver     string  `toml:"driver"`      // "ds18b20" | "sim"
		DevicePath string  `toml:"device_path"` // empty = autodiscover
		SimBaseC   float64 `toml:"sim_base_c"`
	} `toml:"sensor"`

	TimeSync struct {
		Source     string `toml:"source"` // "ntp" | "system"
		Server     string `toml:"server"`
		OffsetSec  int    `toml:"offset_sec"`
		TimeoutSec int    `toml:"timeout_sec"`
		MaxRetries int    `toml:"max_retries"`
	} `toml:"timesync"`

	Log struct {
		Path     string `toml:"path"`
		StartSeq int64  `toml:"start_seq"`
		Recover  bool   `toml:"recover_sequence"`
	} `toml:"log"`

	Web struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"web"`

	Storage struct {
		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`

		Redis struct {
			Enabled bool   `toml:"enabled"`
			Addr    string `toml:"addr"`
			Prefix  string `toml:"prefix"`
			TTLSec  int    `toml:"ttl_sec"`
		} `toml:"redis"`
	} `toml:"storage"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.IntervalSec <= 0 {
		cfg.App.IntervalSec = 10
	}
	if cfg.Sensor.Driver == "" {
		cfg.Sensor.Driver = "ds18b20"
	}
	if cfg.TimeSync.Source == "" {
		cfg.TimeSync.Source = "ntp"
	}
	if cfg.TimeSync.Server == "" {
		cfg.TimeSync.Server = "pool.ntp.org"
	}
	if cfg.TimeSync.TimeoutSec <= 0 {
		cfg.TimeSync.TimeoutSec = 5
	}
	if cfg.TimeSync.MaxRetries <= 0 {
		cfg.TimeSync.MaxRetries = 3
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = "data/data.txt"
	}
	if cfg.Log.StartSeq <= 0 {
		cfg.Log.StartSeq = 1
	}
	if cfg.Web.Addr == "" {
		cfg.Web.Addr = ":8080"
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = "templog"
	}
}

func validate(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Sensor.Driver)) {
	case "ds18b20", "sim":
	default:
		return errors.New("sensor.driver must be ds18b20 or sim")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.TimeSync.Source)) {
	case "ntp", "system":
	default:
		return errors.New("timesync.source must be ntp or system")
	}

	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn empty but enabled")
	}
	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		return errors.New("storage.redis.addr empty but enabled")
	}
	if cfg.Storage.SQLite.Enabled && strings.TrimSpace(cfg.Storage.SQLite.Path) == "" {
		return errors.New("storage.sqlite.path empty but enabled")
	}
	return nil
}
