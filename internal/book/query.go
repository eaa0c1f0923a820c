package book

import (
	"math"
	"sort"
	"strings"

	"bookfx/internal/dataset"
)

// SortKey selects the sort column for a listing. SortNone leaves the
// filtered items in load order.
type SortKey int

const (
	SortNone SortKey = iota
	SortTitle
	SortYear
	SortPrice
)

// ParseSortKey maps the external sort_by value to a SortKey.
func ParseSortKey(s string) (SortKey, bool) {
	switch s {
	case "":
		return SortNone, true
	case "title":
		return SortTitle, true
	case "year":
		return SortYear, true
	case "price":
		return SortPrice, true
	}
	return SortNone, false
}

// Query defines filters, sorting and pagination for listing books.
// String filters are inactive when empty; pointer filters when nil.
// All active filters must match (logical AND).
type Query struct {
	Q             string
	TitleContains string
	Author        string
	Genre         string
	Year          *int
	MinPrice      *float64
	MaxPrice      *float64

	Sort SortKey
	Desc bool

	Page    int
	PerPage int
}

// Page is one window of a filtered and sorted result set.
type Page struct {
	Items  []dataset.Book
	Total  int // matches after filtering, before paging
	Number int // 1-based
	Size   int
}

func (p Page) TotalPages() int {
	return (p.Total + p.Size - 1) / p.Size
}

func (p Page) HasNext() bool {
	return p.Number*p.Size < p.Total
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

// Run filters, sorts and paginates items. The input slice is never
// modified; sorting works on a copy of the filtered set.
func Run(items []dataset.Book, q Query) Page {
	filtered := filter(items, q)
	sortBooks(filtered, q.Sort, q.Desc)

	total := len(filtered)
	start := (q.Page - 1) * q.PerPage
	end := start + q.PerPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:  filtered[start:end],
		Total:  total,
		Number: q.Page,
		Size:   q.PerPage,
	}
}

func filter(items []dataset.Book, q Query) []dataset.Book {
	matched := make([]dataset.Book, 0, len(items))
	for _, b := range items {
		if matches(b, q) {
			matched = append(matched, b)
		}
	}
	return matched
}

func matches(b dataset.Book, q Query) bool {
	if q.Q != "" {
		needle := strings.ToLower(q.Q)
		if !containsFold(b.Title, needle) &&
			!containsFoldPtr(b.Author, needle) &&
			!containsFoldPtr(b.Description, needle) {
			return false
		}
	}
	if q.TitleContains != "" && !containsFold(b.Title, strings.ToLower(q.TitleContains)) {
		return false
	}
	if q.Author != "" {
		if b.Author == nil || !strings.EqualFold(*b.Author, q.Author) {
			return false
		}
	}
	if q.Genre != "" && !hasGenre(b.Genres, q.Genre) {
		return false
	}
	if q.Year != nil {
		if b.Year == nil || *b.Year != *q.Year {
			return false
		}
	}
	if q.MinPrice != nil {
		if b.Price == nil || *b.Price < *q.MinPrice {
			return false
		}
	}
	if q.MaxPrice != nil {
		if b.Price == nil || *b.Price > *q.MaxPrice {
			return false
		}
	}
	return true
}

// containsFold reports whether hay contains needle, case-insensitively.
// needle must already be lowercased.
func containsFold(hay, needle string) bool {
	return hay != "" && strings.Contains(strings.ToLower(hay), needle)
}

func containsFoldPtr(hay *string, needle string) bool {
	return hay != nil && containsFold(*hay, needle)
}

func hasGenre(genres []string, want string) bool {
	for _, g := range genres {
		if strings.EqualFold(g, want) {
			return true
		}
	}
	return false
}

// sortBooks applies the missing-value policy per key: absent years sort
// as 0, absent prices as +Inf, titles compare lowercased. The sort is
// stable, so equal keys keep their load order.
func sortBooks(books []dataset.Book, key SortKey, desc bool) {
	var less func(a, b dataset.Book) bool
	switch key {
	case SortTitle:
		less = func(a, b dataset.Book) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortYear:
		less = func(a, b dataset.Book) bool {
			return yearKey(a) < yearKey(b)
		}
	case SortPrice:
		less = func(a, b dataset.Book) bool {
			return priceKey(a) < priceKey(b)
		}
	default:
		return
	}

	sort.SliceStable(books, func(i, j int) bool {
		if desc {
			return less(books[j], books[i])
		}
		return less(books[i], books[j])
	})
}

func yearKey(b dataset.Book) int {
	if b.Year == nil {
		return 0
	}
	return *b.Year
}

func priceKey(b dataset.Book) float64 {
	if b.Price == nil {
		return math.Inf(1)
	}
	return *b.Price
}
