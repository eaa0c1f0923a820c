package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Basenames of the two dataset files. An exact "<basename>.csv" wins;
// otherwise any CSV in the data dir whose name starts with the basename
// (case-insensitive) is used.
const (
	booksBasename = "BooksDatasetClean"
	ratesBasename = "exchange_rates_dataset"
)

// CSVSource loads both datasets from delimited files in a single directory.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// Load reads both CSV files and builds the snapshot.
func (s *CSVSource) Load(ctx context.Context) (*Snapshot, error) {
	booksPath, err := findCSV(s.dir, booksBasename)
	if err != nil {
		return nil, fmt.Errorf("%w: books: %v", ErrNotLoaded, err)
	}
	ratesPath, err := findCSV(s.dir, ratesBasename)
	if err != nil {
		return nil, fmt.Errorf("%w: rates: %v", ErrNotLoaded, err)
	}

	books, err := loadBooks(booksPath)
	if err != nil {
		return nil, fmt.Errorf("%w: books: %v", ErrNotLoaded, err)
	}
	rates, err := loadRates(ratesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: rates: %v", ErrNotLoaded, err)
	}

	return &Snapshot{Books: books, Rates: rates}, nil
}

func findCSV(dir, basename string) (string, error) {
	exact := filepath.Join(dir, basename+".csv")
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".csv") && strings.HasPrefix(name, strings.ToLower(basename)) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no CSV matching %q in %s", basename, dir)
}

func loadBooks(path string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := columnIndex(header)

	var books []Book
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		b := Book{
			ID:          len(books) + 1,
			Title:       strings.TrimSpace(col.get(row, "Title")),
			Author:      normalizeAuthor(col.get(row, "Authors")),
			Description: textOrNil(col.get(row, "Description")),
			Genres:      splitGenres(col.get(row, "Category")),
			Publisher:   textOrNil(col.get(row, "Publisher")),
			Year:        intOrNil(col.get(row, "Publish Date (Year)")),
			Price:       priceOrNil(col.get(row, "Price Starting With ($)")),
		}
		books = append(books, b)
	}
	return books, nil
}

func loadRates(path string) (RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := columnIndex(header)

	rates := make(RateTable)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		base := strings.ToUpper(strings.TrimSpace(col.get(row, "base_currency")))
		target := strings.ToUpper(strings.TrimSpace(col.get(row, "target_currency")))
		rate := priceOrNil(col.get(row, "rate"))
		if base == "" || target == "" || rate == nil {
			continue
		}
		rates[Pair{Base: base, Target: target}] = *rate
	}
	return rates, nil
}

// columns maps header names to their positions. The first header cell may
// carry a UTF-8 BOM when the file was exported from a spreadsheet.
type columns map[string]int

func columnIndex(header []string) columns {
	col := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// normalizeAuthor trims the raw value and strips a leading "by " prefix.
// An empty result becomes nil.
func normalizeAuthor(raw string) *string {
	s := strings.TrimSpace(raw)
	if len(s) >= 3 && strings.EqualFold(s[:3], "by ") {
		s = strings.TrimSpace(s[3:])
	}
	if s == "" {
		return nil
	}
	return &s
}

func splitGenres(raw string) []string {
	var genres []string
	for _, part := range strings.Split(raw, ",") {
		if g := strings.TrimSpace(part); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func textOrNil(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// intOrNil parses an integer, accepting float-shaped values such as
// "1997.0" that appear in spreadsheet exports.
func intOrNil(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// priceOrNil parses a float after stripping thousands separators.
func priceOrNil(raw string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
