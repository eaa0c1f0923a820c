package book

import (
	"context"

	"bookfx/internal/dataset"
)

// Source provides the dataset snapshot the service reads from.
type Source interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}
