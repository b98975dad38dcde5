package port

import "context"

// Reading is one mirrored sensor reading as handed to a repository.
type Reading struct {
	Sequence int64
	Date     string
	Hour     string
	TempC    float64
	Ts       int64 // unix ms
}

// Repository mirrors readings into a secondary store, best effort from
// the cycle's perspective. The append-only log file stays the artifact
// of record; repositories never touch it.
type Repository interface {
	InsertReading(ctx context.Context, r Reading) error
	UpsertLatest(ctx context.Context, r Reading) error

	// Connection management
	Close() error
}
