package exchange

import (
	"fmt"
	"math"
	"strings"

	"bookfx/internal/dataset"
)

// DefaultHub is the currency used as the intermediate for indirect
// resolution when none is configured.
const DefaultHub = "USD"

// UnsupportedPairError reports a pair with neither a direct rate nor a
// hub-mediated path. It is a client-input failure, not a system one.
type UnsupportedPairError struct {
	Base   string
	Target string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("unsupported currency pair %s->%s", e.Base, e.Target)
}

// Resolution is a successfully resolved rate plus the path that produced
// it: the two codes themselves for pairs touching the hub, or the hub
// alone for cross pairs resolved through it.
type Resolution struct {
	Rate float64
	Via  []string
}

// Resolver computes rates from a sparse table. The table is expected to
// be hub-outbound only; rates found in the non-hub direction are never
// inverted.
type Resolver struct {
	hub string
}

func NewResolver(hub string) Resolver {
	if hub == "" {
		hub = DefaultHub
	}
	return Resolver{hub: strings.ToUpper(hub)}
}

// Resolve finds a rate for (base, target), trying in order: identity,
// direct pair, two-hop path through the hub. Identity holds even for
// codes absent from the table.
func (r Resolver) Resolve(rates dataset.RateTable, base, target string) (Resolution, error) {
	base = strings.ToUpper(base)
	target = strings.ToUpper(target)

	rate, ok := r.lookup(rates, base, target)
	if !ok {
		return Resolution{}, &UnsupportedPairError{Base: base, Target: target}
	}

	via := []string{base, target}
	if base != r.hub && target != r.hub {
		via = []string{r.hub}
	}
	return Resolution{Rate: rate, Via: via}, nil
}

func (r Resolver) lookup(rates dataset.RateTable, base, target string) (float64, bool) {
	if base == target {
		return 1.0, true
	}
	if rate, ok := rates[dataset.Pair{Base: base, Target: target}]; ok {
		return rate, true
	}
	hubToBase, okBase := rates[dataset.Pair{Base: r.hub, Target: base}]
	hubToTarget, okTarget := rates[dataset.Pair{Base: r.hub, Target: target}]
	if okBase && okTarget {
		return hubToTarget / hubToBase, true
	}
	return 0, false
}

// Convert applies a resolved rate to an amount, rounding the result to
// 6 decimal places. The rate itself stays unrounded.
func Convert(amount, rate float64) float64 {
	return math.Round(amount*rate*1e6) / 1e6
}
