package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/roamly/tripsplit/internal/expense/split"
	"github.com/roamly/tripsplit/internal/group"
	"github.com/roamly/tripsplit/pkg/middleware"
	"github.com/roamly/tripsplit/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new expense handler
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListByGroup)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})

	return r
}

// Create godoc
// @Summary Create an expense
// @Description Creates an expense and calculates splits with the EQUAL, PERCENTAGE or EXACT strategy. Omit participants on an EQUAL split to divide across all group members.
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense details"
// @Success 201 {object} response.Envelope{data=ExpenseResponse}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	result, err := h.service.CreateExpense(r.Context(), payerID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := result.Expense.ToResponse()
	resp.Splits = make([]*SplitResponse, len(result.Splits))
	for i, s := range result.Splits {
		resp.Splits[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusCreated, resp)
}

// GetByID godoc
// @Summary Get an expense
// @Description Retrieves an expense with all of its splits
// @Tags expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} response.Envelope{data=ExpenseResponse}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	result, err := h.service.GetExpense(r.Context(), id, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := result.Expense.ToResponse()
	resp.Splits = make([]*SplitResponse, len(result.Splits))
	for i, s := range result.Splits {
		resp.Splits[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// ListByGroup godoc
// @Summary List group expenses
// @Description Paginated expense listing for a group, optionally filtered by trip or category
// @Tags expenses
// @Produce json
// @Param group_id query int true "Group ID"
// @Param trip_id query int false "Trip ID"
// @Param category query string false "Category"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} response.Envelope{data=[]ExpenseResponse}
// @Security BearerAuth
// @Router /expenses [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
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

	var filter ExpenseFilter
	if raw := r.URL.Query().Get("trip_id"); raw != "" {
		tripID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid trip_id")
			return
		}
		filter.TripID = &tripID
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		cat := Category(raw)
		if !cat.Valid() {
			response.BadRequest(w, "Invalid category")
			return
		}
		filter.Category = &cat
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	expenses, total, err := h.service.ListExpenses(r.Context(), groupID, userID, filter, page, perPage)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = e.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Update godoc
// @Summary Update an expense
// @Description Updates descriptive fields. Amounts and splits are immutable.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param request body UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=ExpenseResponse}
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	e, err := h.service.UpdateExpense(r.Context(), id, userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete godoc
// @Summary Delete an expense
// @Description Removes an expense and its splits. Balances change on the next simplification.
// @Tags expenses
// @Param id path int true "Expense ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), id, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrExpenseNotFound):
		response.NotFound(w, "Expense not found")
	case errors.Is(err, ErrNotPayer):
		response.Forbidden(w, "Only the payer can modify this expense")
	case errors.Is(err, group.ErrNotMember):
		response.Forbidden(w, "All participants must be members of the group")
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrSplitSumMismatch),
		errors.Is(err, split.ErrNoParticipants),
		errors.Is(err, split.ErrInvalidPercentages),
		errors.Is(err, split.ErrMissingPercentage),
		errors.Is(err, split.ErrMissingExactAmount),
		errors.Is(err, split.ErrNegativeAmount),
		errors.Is(err, split.ErrPercentageOutOfRange),
		errors.Is(err, split.ErrUnknownSplitType):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Something went wrong")
	}
}
