package dataset

import (
	"context"
	"sync"
)

// Source supplies a fully built snapshot from some backing store
// (CSV files, Postgres).
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Provider memoizes the snapshot produced by a Source. The load runs at
// most once even under concurrent first access; callers block until it
// finishes and never see a partially built snapshot. A load failure is
// sticky for the lifetime of the provider.
type Provider struct {
	source Source

	once sync.Once
	snap *Snapshot
	err  error
}

func NewProvider(source Source) *Provider {
	return &Provider{source: source}
}

// Snapshot returns the memoized snapshot, loading it on first call.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	p.once.Do(func() {
		p.snap, p.err = p.source.Load(ctx)
	})
	return p.snap, p.err
}
