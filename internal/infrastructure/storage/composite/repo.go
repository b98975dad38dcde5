package composite

import (
	"context"

	"templog/internal/application/port"
)

// Repo fans each reading out to every configured backend. First error
// wins; the cycle treats mirroring as best effort either way.
type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) Len() int { return len(r.repos) }

func (r *Repo) InsertReading(ctx context.Context, rd port.Reading) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertReading(ctx, rd); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) UpsertLatest(ctx context.Context, rd port.Reading) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.UpsertLatest(ctx, rd); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Repository = (*Repo)(nil)
