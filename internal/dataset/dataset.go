package dataset

import (
	"errors"
)

// ErrNotLoaded is returned when a dataset source is missing or yielded no
// records. It is distinct from an empty query result: handlers map it to a
// server-side failure instead of a successful empty page.
var ErrNotLoaded = errors.New("dataset not loaded")

// Book is one catalog record. ID is the 1-based position of the record in
// the source, assigned at load time and never recomputed afterwards.
// Optional fields are nil when the source value is empty or unparsable.
type Book struct {
	ID          int
	Title       string
	Author      *string
	Description *string
	Genres      []string
	Publisher   *string
	Year        *int
	Price       *float64 // USD
}

// Pair is an ordered currency pair. Presence of (A,B) in a RateTable does
// not imply presence of (B,A).
type Pair struct {
	Base   string
	Target string
}

// RateTable maps uppercase 3-letter code pairs to positive rates,
// meaning 1 unit of Base = rate units of Target.
type RateTable map[Pair]float64

// Snapshot holds both datasets for the lifetime of the process. It is
// never mutated after construction, so concurrent reads need no locking.
type Snapshot struct {
	Books []Book
	Rates RateTable
}
