package book

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"bookfx/internal/dataset"
	"bookfx/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// listParams carries the typed query parameters that need range checks.
// Text filters pass through without validation.
type listParams struct {
	Page     int      `validate:"gte=1"`
	PerPage  int      `validate:"gte=1,lte=200"`
	SortBy   string   `validate:"omitempty,oneof=title year price"`
	Order    string   `validate:"oneof=asc desc"`
	MinPrice *float64 `validate:"omitempty,gte=0"`
	MaxPrice *float64 `validate:"omitempty,gte=0"`
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q, details := parseListQuery(r.URL.Query())
	if details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	page, err := h.service.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, PresentPage(page, r.URL))
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters",
			[]httpx.ErrorDetail{{Field: "id", Message: "must be an integer"}})
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, PresentBook(b, r.URL.String()))
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, dataset.ErrNotLoaded) {
		httpx.JSONError(w, http.StatusInternalServerError, "DATASET_UNAVAILABLE",
			"Books dataset not loaded", nil)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

func parseListQuery(values url.Values) (Query, []httpx.ErrorDetail) {
	var details []httpx.ErrorDetail

	params := listParams{
		Page:    1,
		PerPage: 20,
		Order:   "asc",
		SortBy:  values.Get("sort_by"),
	}
	if v := values.Get("order"); v != "" {
		params.Order = v
	}

	var year *int

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "page", Message: "must be an integer"})
		} else {
			params.Page = n
		}
	}
	if v := values.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "per_page", Message: "must be an integer"})
		} else {
			params.PerPage = n
		}
	}
	if v := values.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "year", Message: "must be an integer"})
		} else {
			year = &n
		}
	}
	if v := values.Get("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "min_price", Message: "must be a number"})
		} else {
			params.MinPrice = &f
		}
	}
	if v := values.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "max_price", Message: "must be a number"})
		} else {
			params.MaxPrice = &f
		}
	}

	details = append(details, httpx.ValidateStruct(params)...)
	if len(details) > 0 {
		return Query{}, details
	}

	sortKey, _ := ParseSortKey(params.SortBy)

	return Query{
		Q:             values.Get("q"),
		TitleContains: values.Get("title_contains"),
		Author:        values.Get("author"),
		Genre:         values.Get("genre"),
		Year:          year,
		MinPrice:      params.MinPrice,
		MaxPrice:      params.MaxPrice,
		Sort:          sortKey,
		Desc:          params.Order == "desc",
		Page:          params.Page,
		PerPage:       params.PerPage,
	}, nil
}
