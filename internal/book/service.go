package book

import (
	"context"
	"errors"
	"fmt"

	"bookfx/internal/dataset"
)

// ErrNotFound is returned when a book id is outside the catalog.
var ErrNotFound = errors.New("book not found")

// Service answers catalog queries against the dataset snapshot.
type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// List returns one page of books matching the query. An unavailable or
// empty catalog is an error, never an empty success.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	books, err := s.books(ctx)
	if err != nil {
		return Page{}, err
	}
	return Run(books, q), nil
}

// Get returns the book with the given 1-based id.
func (s *Service) Get(ctx context.Context, id int) (dataset.Book, error) {
	books, err := s.books(ctx)
	if err != nil {
		return dataset.Book{}, err
	}
	if id < 1 || id > len(books) {
		return dataset.Book{}, ErrNotFound
	}
	return books[id-1], nil
}

func (s *Service) books(ctx context.Context) ([]dataset.Book, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Books) == 0 {
		return nil, fmt.Errorf("%w: books dataset is empty", dataset.ErrNotLoaded)
	}
	return snap.Books, nil
}
