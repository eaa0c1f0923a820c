package store

import (
	"context"
	"fmt"

	"bookfx/internal/dataset"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSource loads the snapshot from Postgres instead of the CSV files.
// The tables are filled once by cmd/seed; reads here happen only at
// snapshot construction, never per request.
type PGSource struct {
	db *pgxpool.Pool
}

func NewPGSource(db *pgxpool.Pool) *PGSource {
	return &PGSource{db: db}
}

func (s *PGSource) Load(ctx context.Context) (*dataset.Snapshot, error) {
	books, err := s.loadBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: books: %v", dataset.ErrNotLoaded, err)
	}
	rates, err := s.loadRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: rates: %v", dataset.ErrNotLoaded, err)
	}
	return &dataset.Snapshot{Books: books, Rates: rates}, nil
}

func (s *PGSource) loadBooks(ctx context.Context) ([]dataset.Book, error) {
	query := `
	SELECT id, title, author, description, genres, publisher, year, price
	FROM books
	ORDER BY id
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []dataset.Book
	for rows.Next() {
		var b dataset.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Genres, &b.Publisher, &b.Year, &b.Price); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *PGSource) loadRates(ctx context.Context) (dataset.RateTable, error) {
	query := `
	SELECT base_currency, target_currency, rate
	FROM exchange_rates
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make(dataset.RateTable)
	for rows.Next() {
		var pair dataset.Pair
		var rate float64
		if err := rows.Scan(&pair.Base, &pair.Target, &rate); err != nil {
			return nil, err
		}
		rates[pair] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rates, nil
}
