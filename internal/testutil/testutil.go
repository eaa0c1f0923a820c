package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"bookfx/internal/dataset"
)

// TestBooks is the three-record fixture shared across packages:
// two History titles by Jane Doe bracketing a Science one, with years
// and prices spread out so sort tests have something to bite on.
var TestBooks = []dataset.Book{
	{
		ID:     1,
		Title:  "Alpha History",
		Author: StrPtr("Jane Doe"),
		Genres: []string{"History"},
		Year:   IntPtr(1997),
		Price:  FloatPtr(10.00),
	},
	{
		ID:     2,
		Title:  "Beta Science",
		Author: StrPtr("John Roe"),
		Genres: []string{"Science"},
		Year:   IntPtr(2001),
		Price:  FloatPtr(15.50),
	},
	{
		ID:     3,
		Title:  "Gamma History",
		Author: StrPtr("Jane Doe"),
		Genres: []string{"History", "War"},
		Year:   IntPtr(1993),
		Price:  FloatPtr(7.25),
	},
}

// TestRates is the hub-outbound fixture table.
var TestRates = dataset.RateTable{
	{Base: "USD", Target: "EUR"}: 0.9,
	{Base: "USD", Target: "GBP"}: 0.8,
	{Base: "USD", Target: "USD"}: 1.0,
}

// TestSnapshot builds a fresh snapshot from the fixtures.
func TestSnapshot() *dataset.Snapshot {
	books := make([]dataset.Book, len(TestBooks))
	copy(books, TestBooks)
	rates := make(dataset.RateTable, len(TestRates))
	for k, v := range TestRates {
		rates[k] = v
	}
	return &dataset.Snapshot{Books: books, Rates: rates}
}

func StrPtr(s string) *string     { return &s }
func IntPtr(n int) *int           { return &n }
func FloatPtr(f float64) *float64 { return &f }

// NewRequest creates a GET request for handler tests.
func NewRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

// NewRequestWithKey creates a GET request carrying the API key header.
func NewRequestWithKey(path, key string) *http.Request {
	r := NewRequest(path)
	if key != "" {
		r.Header.Set("X-API-Key", key)
	}
	return r
}

// RecordResponse is a decoded HTTP response for assertions.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes the recorder into a RecordResponse.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
