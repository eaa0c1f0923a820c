package book

import (
	"net/url"
	"strconv"

	"bookfx/internal/dataset"
)

// External response shapes for the catalog endpoints. Optional
// substructures are omitted entirely when the value is absent; a book
// without a price has no price key at all.

type PriceOut struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type PublishingOut struct {
	Publisher *string `json:"publisher,omitempty"`
	Year      *int    `json:"year,omitempty"`
}

type ItemLinks struct {
	Self string `json:"self"`
}

type BookOut struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Author      *string       `json:"author,omitempty"`
	Description *string       `json:"description,omitempty"`
	Genres      []string      `json:"genres"`
	Price       *PriceOut     `json:"price,omitempty"`
	Publishing  PublishingOut `json:"publishing"`
	Links       ItemLinks     `json:"links"`
}

type PageMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type ListLinks struct {
	Self string  `json:"self"`
	Next *string `json:"next,omitempty"`
	Prev *string `json:"prev,omitempty"`
}

type Envelope struct {
	Data  []BookOut `json:"data"`
	Meta  PageMeta  `json:"meta"`
	Links ListLinks `json:"links"`
}

// PresentBook maps one record to its external shape.
func PresentBook(b dataset.Book, self string) BookOut {
	out := BookOut{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Genres:      b.Genres,
		Publishing:  PublishingOut{Publisher: b.Publisher, Year: b.Year},
		Links:       ItemLinks{Self: self},
	}
	if out.Genres == nil {
		out.Genres = []string{}
	}
	if b.Price != nil {
		out.Price = &PriceOut{Amount: *b.Price, Currency: "USD"}
	}
	return out
}

// PresentPage maps a result page to the list envelope. Navigation links
// are derived from the current request URL: every query parameter is
// carried over unchanged except the page number, and next/prev appear
// only when there is a page in that direction.
func PresentPage(p Page, reqURL *url.URL) Envelope {
	data := make([]BookOut, 0, len(p.Items))
	for _, b := range p.Items {
		data = append(data, PresentBook(b, bookURL(reqURL, b.ID)))
	}

	links := ListLinks{Self: reqURL.String()}
	if p.HasNext() {
		links.Next = pageURL(reqURL, p.Number+1)
	}
	if p.HasPrev() {
		links.Prev = pageURL(reqURL, p.Number-1)
	}

	return Envelope{
		Data: data,
		Meta: PageMeta{
			Total:      p.Total,
			Page:       p.Number,
			PerPage:    p.Size,
			TotalPages: p.TotalPages(),
			HasNext:    p.HasNext(),
			HasPrev:    p.HasPrev(),
		},
		Links: links,
	}
}

func pageURL(reqURL *url.URL, page int) *string {
	u := *reqURL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func bookURL(reqURL *url.URL, id int) string {
	u := *reqURL
	u.Path = "/books/" + strconv.Itoa(id)
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
