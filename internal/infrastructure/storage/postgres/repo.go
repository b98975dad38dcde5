package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"templog/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS readings (
  id BIGSERIAL PRIMARY KEY,
  sequence BIGINT NOT NULL,
  date TEXT NOT NULL,
  hour TEXT NOT NULL,
  temp_c DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_ts ON readings(ts_ms);

CREATE TABLE IF NOT EXISTS latest_reading (
  id INT PRIMARY KEY CHECK (id = 1),
  sequence BIGINT NOT NULL,
  date TEXT NOT NULL,
  hour TEXT NOT NULL,
  temp_c DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);
`)
	return err
}

func (r *Repo) InsertReading(ctx context.Context, rd port.Reading) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO readings(sequence, date, hour, temp_c, ts_ms) VALUES($1, $2, $3, $4, $5)`,
		rd.Sequence, rd.Date, rd.Hour, rd.TempC, rd.Ts)
	return err
}

func (r *Repo) UpsertLatest(ctx context.Context, rd port.Reading) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO latest_reading(id, sequence, date, hour, temp_c, ts_ms)
		VALUES(1, $1, $2, $3, $4, $5)
		ON CONFLICT(id) DO UPDATE SET
		sequence=excluded.sequence, date=excluded.date, hour=excluded.hour,
		temp_c=excluded.temp_c, ts_ms=excluded.ts_ms
	`, rd.Sequence, rd.Date, rd.Hour, rd.TempC, rd.Ts)
	return err
}

var _ port.Repository = (*Repo)(nil)
