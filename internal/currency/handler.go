package currency

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/roamly/tripsplit/pkg/response"
)

// Handler handles currency HTTP requests
type Handler struct {
	converter *Converter
	validate  *validator.Validate
}

// NewHandler creates a new currency handler
func NewHandler(converter *Converter, validate *validator.Validate) *Handler {
	return &Handler{converter: converter, validate: validate}
}

// Routes returns the currency router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/rate", h.GetRate)
	r.Post("/convert", h.Convert)

	return r
}

// ConvertRequest represents a conversion request
type ConvertRequest struct {
	Amount string `json:"amount" validate:"required"`
	From   string `json:"from" validate:"required,len=3"`
	To     string `json:"to" validate:"required,len=3"`
}

// ConvertResponse represents a conversion result
type ConvertResponse struct {
	Amount    string `json:"amount"`
	From      string `json:"from"`
	To        string `json:"to"`
	Rate      string `json:"rate"`
	Converted string `json:"converted"`
}

// GetRate godoc
// @Summary Get an exchange rate
// @Tags currency
// @Produce json
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /currency/rate [get]
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	from := strings.ToUpper(r.URL.Query().Get("from"))
	to := strings.ToUpper(r.URL.Query().Get("to"))
	if len(from) != 3 || len(to) != 3 {
		response.BadRequest(w, "from and to must be 3-letter currency codes")
		return
	}

	rate, err := h.converter.GetRate(r.Context(), from, to)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"from": from,
		"to":   to,
		"rate": rate.String(),
	})
}

// Convert godoc
// @Summary Convert an amount
// @Tags currency
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion request"
// @Success 200 {object} response.Envelope{data=ConvertResponse}
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /currency/convert [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		response.BadRequest(w, "amount must be a non-negative number")
		return
	}

	from := strings.ToUpper(req.From)
	to := strings.ToUpper(req.To)

	rate, err := h.converter.GetRate(r.Context(), from, to)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, &ConvertResponse{
		Amount:    amount.StringFixed(2),
		From:      from,
		To:        to,
		Rate:      rate.String(),
		Converted: amount.Mul(rate).Round(2).StringFixed(2),
	})
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrRateUnavailable) {
		response.Error(w, http.StatusBadGateway, "RATE_UNAVAILABLE", "Exchange rate service unavailable")
		return
	}
	response.InternalError(w, "Something went wrong")
}
