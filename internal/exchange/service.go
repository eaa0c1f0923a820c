package exchange

import (
	"context"
	"fmt"

	"bookfx/internal/dataset"
)

// Source provides the dataset snapshot the service reads rates from.
type Source interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}

// Conversion is the outcome of converting an amount between currencies.
type Conversion struct {
	Converted float64
	RateUsed  float64
	Via       []string
}

// Service converts amounts using the snapshot's rate table.
type Service struct {
	source   Source
	resolver Resolver
}

func NewService(source Source, resolver Resolver) *Service {
	return &Service{source: source, resolver: resolver}
}

// Convert resolves the (from, to) rate and applies it to amount.
// An unavailable or empty rate table is an error distinct from an
// unsupported pair.
func (s *Service) Convert(ctx context.Context, from, to string, amount float64) (Conversion, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return Conversion{}, err
	}
	if len(snap.Rates) == 0 {
		return Conversion{}, fmt.Errorf("%w: exchange rates dataset is empty", dataset.ErrNotLoaded)
	}

	res, err := s.resolver.Resolve(snap.Rates, from, to)
	if err != nil {
		return Conversion{}, err
	}

	return Conversion{
		Converted: Convert(amount, res.Rate),
		RateUsed:  res.Rate,
		Via:       res.Via,
	}, nil
}
