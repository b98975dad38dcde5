package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"templog/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

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
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sequence INTEGER NOT NULL,
  date TEXT NOT NULL,
  hour TEXT NOT NULL,
  temp_c REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_seq ON readings(sequence);
CREATE INDEX IF NOT EXISTS idx_readings_ts ON readings(ts_ms);

CREATE TABLE IF NOT EXISTS latest_reading (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  sequence INTEGER NOT NULL,
  date TEXT NOT NULL,
  hour TEXT NOT NULL,
  temp_c REAL NOT NULL,
  ts_ms INTEGER NOT NULL
);
`)
	return err
}

func (r *Repo) InsertReading(ctx context.Context, rd port.Reading) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO readings(sequence, date, hour, temp_c, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, rd.Sequence, rd.Date, rd.Hour, rd.TempC, rd.Ts, rd.Ts)
	return err
}

func (r *Repo) UpsertLatest(ctx context.Context, rd port.Reading) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO latest_reading(id, sequence, date, hour, temp_c, ts_ms)
		VALUES(1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		sequence=excluded.sequence, date=excluded.date, hour=excluded.hour,
		temp_c=excluded.temp_c, ts_ms=excluded.ts_ms
	`, rd.Sequence, rd.Date, rd.Hour, rd.TempC, rd.Ts)
	return err
}

var _ port.Repository = (*Repo)(nil)
