package debt

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roamly/tripsplit/internal/group"
	"github.com/roamly/tripsplit/pkg/middleware"
	"github.com/roamly/tripsplit/pkg/response"
)

// Handler handles debt HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new debt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the debt router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/balances", h.Balances)
	r.Post("/simplify", h.Simplify)
	r.Post("/{id}/settle", h.Settle)

	return r
}

// List godoc
// @Summary List debts
// @Description With group_id, lists the group's current simplified debts. Without it, lists the caller's unsettled debts across all groups.
// @Tags debts
// @Produce json
// @Param group_id query int false "Group ID"
// @Success 200 {object} response.Envelope{data=[]DebtResponse}
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /debts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var debts []*Debt
	var err error
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		groupID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			response.BadRequest(w, "Invalid group_id")
			return
		}
		debts, err = h.service.ListGroupDebts(r.Context(), groupID, userID)
	} else {
		debts, err = h.service.ListUserDebts(r.Context(), userID)
	}
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]*DebtResponse, 0, len(debts))
	for _, d := range debts {
		resp = append(resp, d.ToResponse())
	}

	response.JSON(w, http.StatusOK, resp)
}

// Balances godoc
// @Summary Preview net balances
// @Description Computes each member's net position from the expense ledger without changing stored debts. Positive means the group owes them.
// @Tags debts
// @Produce json
// @Param group_id query int true "Group ID"
// @Success 200 {object} response.Envelope{data=[]BalanceResponse}
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /debts/balances [get]
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(r.URL.Query().Get("group_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "group_id query parameter is required")
		return
	}

	net, currency, err := h.service.NetBalances(r.Context(), groupID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]*BalanceResponse, 0, len(net))
	for id, balance := range net {
		resp = append(resp, &BalanceResponse{
			UserID:   id,
			Balance:  balance.StringFixed(2),
			Currency: currency,
		})
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].UserID < resp[j].UserID })

	response.JSON(w, http.StatusOK, resp)
}

// Simplify godoc
// @Summary Simplify group debts
// @Description Recomputes debts from the full expense ledger and replaces all unsettled debts with a minimal transfer set
// @Tags debts
// @Produce json
// @Param group_id query int true "Group ID"
// @Success 200 {object} response.Envelope{data=SimplifyResponse}
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /debts/simplify [post]
func (h *Handler) Simplify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(r.URL.Query().Get("group_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "group_id query parameter is required")
		return
	}

	result, err := h.service.Simplify(r.Context(), groupID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := &SimplifyResponse{Debts: make([]*DebtResponse, 0, len(result.Debts))}
	for _, d := range result.Debts {
		resp.Debts = append(resp.Debts, d.ToResponse())
	}
	if !result.Leftover.IsZero() {
		resp.Leftover = result.Leftover.StringFixed(2)
	}

	response.JSON(w, http.StatusOK, resp)
}

// Settle godoc
// @Summary Settle a debt
// @Description Marks a debt as paid. Only the debtor can settle, and settlement is final.
// @Tags debts
// @Produce json
// @Param id path int true "Debt ID"
// @Success 200 {object} response.Envelope{data=DebtResponse}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /debts/{id}/settle [post]
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	debtID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid debt ID")
		return
	}

	d, err := h.service.Settle(r.Context(), debtID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, d.ToResponse())
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDebtNotFound):
		response.NotFound(w, "Debt not found")
	case errors.Is(err, ErrNotDebtor):
		response.Forbidden(w, "Only the debtor can settle this debt")
	case errors.Is(err, ErrAlreadySettled):
		response.Conflict(w, "Debt is already settled")
	case errors.Is(err, ErrSimplifyInProgress):
		response.Conflict(w, "A simplification is already running for this group")
	case errors.Is(err, group.ErrNotMember):
		response.Forbidden(w, "You are not a member of this group")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
