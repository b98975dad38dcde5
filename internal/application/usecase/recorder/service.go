package recorder

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"templog/internal/application/port"
	"templog/internal/domain/record"
)

// LogStore is the append-only reading log owned by the cycle.
type LogStore interface {
	EnsureInitialized() error
	Append(line string) error
	NextSequence() int64
}

type ServiceDeps struct {
	Sensor   port.Sensor
	Time     port.TimeSource
	Store    LogStore
	Repo     port.Repository
	Pub      port.Publisher
	Interval time.Duration
}

// Service drives the reading cycle: sample -> timestamp -> format ->
// append -> broadcast, once per interval. Single logical writer; all
// cycle state lives here and on the store, nothing is global.
type Service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) *Service {
	if deps.Interval <= 0 {
		deps.Interval = 10 * time.Second
	}
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	return &Service{deps: deps}
}

// Run initializes the log file and loops until the context is canceled.
// A storage failure at initialization is reported and the loop still
// starts: the device keeps broadcasting even when the card is dead.
func (s *Service) Run(ctx context.Context) error {
	if s.deps.Sensor == nil || s.deps.Time == nil || s.deps.Store == nil || s.deps.Pub == nil {
		return errors.New("recorder: missing dependency")
	}

	if err := s.deps.Store.EnsureInitialized(); err != nil {
		log.Error().Err(err).Msg("log store initialization failed, continuing network-only")
	}

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	s.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle performs one reading cycle. Failures are handled locally:
// a skipped or dropped reading is logged, never fatal.
func (s *Service) RunCycle(ctx context.Context) {
	tempC, err := s.deps.Sensor.ReadTemperatureC(ctx)
	if err != nil {
		if errors.Is(err, port.ErrDisconnected) {
			log.Warn().Str("sensor", s.deps.Sensor.Name()).Msg("sensor disconnected, skipping reading")
		} else {
			log.Error().Err(err).Str("sensor", s.deps.Sensor.Name()).Msg("sensor read failed, skipping reading")
		}
		return
	}

	ts, err := s.deps.Time.Timestamp(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("time sync unavailable, skipping reading")
		return
	}
	date, hour, err := record.SplitTimestamp(ts)
	if err != nil {
		log.Error().Err(err).Str("timestamp", ts).Msg("malformed timestamp, skipping reading")
		return
	}

	// The sequence is consumed here, before the append, so the counter
	// advances even when the write fails.
	seq := s.deps.Store.NextSequence()
	r := record.Record{Sequence: seq, Date: date, Hour: hour, TempC: tempC}
	line := r.Line()

	if err := s.deps.Store.Append(line); err != nil {
		log.Error().Err(err).Int64("sequence", seq).Msg("append failed, record dropped")
	} else {
		log.Info().Int64("sequence", seq).Str("date", date).Str("hour", hour).Float64("temp_c", tempC).Msg("reading logged")
	}

	s.deps.Pub.Broadcast(record.FormatTemp(tempC))

	// best-effort mirror
	reading := port.Reading{Sequence: seq, Date: date, Hour: hour, TempC: tempC, Ts: time.Now().UnixMilli()}
	if err := s.deps.Repo.InsertReading(ctx, reading); err != nil {
		log.Error().Err(err).Msg("repository insert failed")
	}
	if err := s.deps.Repo.UpsertLatest(ctx, reading); err != nil {
		log.Error().Err(err).Msg("repository upsert failed")
	}
}
