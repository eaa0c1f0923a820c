package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const booksCSV = "\ufeff" + `Title,Authors,Description,Category,Publisher,Publish Date (Year),Price Starting With ($)
Alpha History,By Jane Doe,A fine start,"History, War",Acme,1997,10.00
,,,,,,
Gamma History,"  by Jane Doe  ",,History,,2001.0,"1,015.50"
Delta,John Roe,Plain,Science,Beta Press,not-a-year,free
`

const ratesCSV = `base_currency,target_currency,rate
usd,eur,0.9
USD,GBP,0.8
USD,USD,1.0
,EUR,0.5
USD,JPY,not-a-rate
`

func TestCSVSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BooksDatasetClean.csv", booksCSV)
	writeFile(t, dir, "exchange_rates_dataset.csv", ratesCSV)

	snap, err := NewCSVSource(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Books, 4)

	t.Run("ids are ordinal", func(t *testing.T) {
		for i, b := range snap.Books {
			assert.Equal(t, i+1, b.ID)
		}
	})

	t.Run("full record", func(t *testing.T) {
		b := snap.Books[0]
		assert.Equal(t, "Alpha History", b.Title)
		require.NotNil(t, b.Author)
		assert.Equal(t, "Jane Doe", *b.Author, "leading 'by ' prefix is stripped")
		require.NotNil(t, b.Description)
		assert.Equal(t, "A fine start", *b.Description)
		assert.Equal(t, []string{"History", "War"}, b.Genres)
		require.NotNil(t, b.Year)
		assert.Equal(t, 1997, *b.Year)
		require.NotNil(t, b.Price)
		assert.Equal(t, 10.00, *b.Price)
	})

	t.Run("empty fields become absent", func(t *testing.T) {
		b := snap.Books[1]
		assert.Equal(t, "", b.Title, "empty title stays a string, not absent")
		assert.Nil(t, b.Author)
		assert.Nil(t, b.Description)
		assert.Empty(t, b.Genres)
		assert.Nil(t, b.Publisher)
		assert.Nil(t, b.Year)
		assert.Nil(t, b.Price)
	})

	t.Run("messy numerics", func(t *testing.T) {
		b := snap.Books[2]
		require.NotNil(t, b.Author)
		assert.Equal(t, "Jane Doe", *b.Author)
		require.NotNil(t, b.Year)
		assert.Equal(t, 2001, *b.Year, "float-shaped year is accepted")
		require.NotNil(t, b.Price)
		assert.Equal(t, 1015.50, *b.Price, "thousands separator is stripped")
	})

	t.Run("unparsable numerics become absent", func(t *testing.T) {
		b := snap.Books[3]
		assert.Nil(t, b.Year)
		assert.Nil(t, b.Price)
	})

	t.Run("rates", func(t *testing.T) {
		assert.Len(t, snap.Rates, 3, "rows with blank codes or bad rates are skipped")
		assert.Equal(t, 0.9, snap.Rates[Pair{Base: "USD", Target: "EUR"}], "codes are uppercased")
		assert.Equal(t, 0.8, snap.Rates[Pair{Base: "USD", Target: "GBP"}])
	})
}

func TestCSVSource_FindsPrefixedFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "booksdatasetclean_2024.csv", booksCSV)
	writeFile(t, dir, "exchange_rates_dataset (1).csv", ratesCSV)

	snap, err := NewCSVSource(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Books, 4)
	assert.Len(t, snap.Rates, 3)
}

func TestCSVSource_MissingFiles(t *testing.T) {
	t.Run("no books file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "exchange_rates_dataset.csv", ratesCSV)

		_, err := NewCSVSource(dir).Load(context.Background())
		assert.ErrorIs(t, err, ErrNotLoaded)
	})

	t.Run("no rates file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "BooksDatasetClean.csv", booksCSV)

		_, err := NewCSVSource(dir).Load(context.Background())
		assert.ErrorIs(t, err, ErrNotLoaded)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
		assert.ErrorIs(t, err, ErrNotLoaded)
	})
}
