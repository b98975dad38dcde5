package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"templog/internal/application/port"
	"templog/internal/application/usecase/recorder"
	"templog/internal/infrastructure/config"
	"templog/internal/infrastructure/logfile"
	"templog/internal/infrastructure/logger"
	"templog/internal/infrastructure/sensor"
	"templog/internal/infrastructure/storage"
	"templog/internal/infrastructure/timesync"
	"templog/internal/interfaces/console"
	"templog/internal/interfaces/web"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	logLevel := flag.String("log-level", "info", "diagnostic log level")
	flag.Parse()

	logger.Setup(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// sensor (infrastructure -> application port)
	var probe port.Sensor
	switch strings.ToLower(cfg.Sensor.Driver) {
	case "sim":
		probe = sensor.NewSim(cfg.Sensor.SimBaseC)
	default:
		probe = sensor.NewDS18B20(cfg.Sensor.DevicePath)
	}

	// time source
	var clock port.TimeSource
	if strings.ToLower(cfg.TimeSync.Source) == "system" {
		clock = timesync.NewSystemSource(cfg.TimeSync.OffsetSec)
	} else {
		clock = timesync.NewNTPSource(cfg.TimeSync.Server, cfg.TimeSync.OffsetSec, cfg.TimeSync.TimeoutSec, cfg.TimeSync.MaxRetries)
	}

	// append-only reading log
	store := logfile.New(cfg.Log.Path, cfg.Log.StartSeq)
	if cfg.Log.Recover {
		if err := store.Recover(cfg.Log.StartSeq); err != nil {
			log.Error().Err(err).Msg("sequence recovery failed, using start value")
		}
	}

	// optional mirror repositories
	repo, err := storage.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage failed")
	}
	if repo != nil {
		defer repo.Close()
	}

	// live-update channels
	hub := web.NewHub()
	if cfg.Web.Enabled {
		srv := web.NewServer(cfg.Web.Addr, hub)
		go func() {
			if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("web server exited")
			}
		}()
	} else {
		log.Warn().Msg("web server disabled by config")
	}
	pubs := recorder.Publishers{hub}
	if cfg.App.ConsoleLive {
		pubs = append(pubs, console.NewPublisher())
	}

	svc := recorder.NewService(recorder.ServiceDeps{
		Sensor:   probe,
		Time:     clock,
		Store:    store,
		Repo:     repo,
		Pub:      pubs,
		Interval: time.Duration(cfg.App.IntervalSec) * time.Second,
	})

	log.Info().
		Str("config", *configPath).
		Str("sensor", probe.Name()).
		Str("timesync", cfg.TimeSync.Source).
		Str("log_path", cfg.Log.Path).
		Int("interval_sec", cfg.App.IntervalSec).
		Msg("templog started")

	if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("recorder exited")
	}
}
