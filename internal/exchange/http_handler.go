package exchange

import (
	"errors"
	"net/http"
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

type convertParams struct {
	From   string  `validate:"required,currency"`
	To     string  `validate:"required,currency"`
	Amount float64 `validate:"gte=0"`
}

// ConversionOut is the external shape of a conversion result.
type ConversionOut struct {
	Converted float64  `json:"converted"`
	RateUsed  float64  `json:"rate_used"`
	Via       []string `json:"via"`
}

// Convert handles GET /exchange?from=EUR&to=GBP&amount=10
func (h *HTTPHandler) Convert(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	var details []httpx.ErrorDetail
	params := convertParams{
		From: values.Get("from"),
		To:   values.Get("to"),
	}

	amountRaw := values.Get("amount")
	if amountRaw == "" {
		details = append(details, httpx.ErrorDetail{Field: "amount", Message: "is required"})
	} else {
		f, err := strconv.ParseFloat(amountRaw, 64)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "amount", Message: "must be a number"})
		} else {
			params.Amount = f
		}
	}

	details = append(details, httpx.ValidateStruct(params)...)
	if len(details) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	conv, err := h.service.Convert(r.Context(), params.From, params.To, params.Amount)
	if err != nil {
		var pairErr *UnsupportedPairError
		switch {
		case errors.As(err, &pairErr):
			httpx.JSONError(w, http.StatusBadRequest, "UNSUPPORTED_PAIR", pairErr.Error(), nil)
		case errors.Is(err, dataset.ErrNotLoaded):
			httpx.JSONError(w, http.StatusInternalServerError, "DATASET_UNAVAILABLE",
				"Exchange rates dataset not loaded", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSON(w, http.StatusOK, ConversionOut{
		Converted: conv.Converted,
		RateUsed:  conv.RateUsed,
		Via:       conv.Via,
	})
}
