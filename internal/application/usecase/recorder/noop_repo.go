package recorder

import (
	"context"

	"templog/internal/application/port"
)

type noopRepo struct{}

func NewNoopRepo() port.Repository { return &noopRepo{} }

func (n *noopRepo) InsertReading(ctx context.Context, r port.Reading) error { return nil }
func (n *noopRepo) UpsertLatest(ctx context.Context, r port.Reading) error  { return nil }
func (n *noopRepo) Close() error                                            { return nil }
