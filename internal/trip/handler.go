package trip

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/roamly/tripsplit/internal/group"
	"github.com/roamly/tripsplit/pkg/middleware"
	"github.com/roamly/tripsplit/pkg/response"
)

// Handler handles trip HTTP requests
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new trip handler
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes returns the trip router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})

	return r
}

// Create godoc
// @Summary Create a trip
// @Tags trips
// @Accept json
// @Produce json
// @Param request body CreateTripRequest true "Trip details"
// @Success 201 {object} response.Envelope{data=TripResponse}
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /trips [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	t, err := h.service.CreateTrip(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, t.ToResponse())
}

// List godoc
// @Summary List trips in a group
// @Tags trips
// @Produce json
// @Param group_id query int true "Group ID"
// @Success 200 {object} response.Envelope{data=[]TripResponse}
// @Security BearerAuth
// @Router /trips [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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

	trips, err := h.service.ListTrips(r.Context(), groupID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]*TripResponse, 0, len(trips))
	for _, t := range trips {
		resp = append(resp, t.ToResponse())
	}

	response.JSON(w, http.StatusOK, resp)
}

// Get godoc
// @Summary Get a trip
// @Tags trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} response.Envelope{data=TripResponse}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /trips/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	tripID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	t, err := h.service.GetTrip(r.Context(), tripID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse())
}

// Update godoc
// @Summary Update a trip
// @Tags trips
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param request body UpdateTripRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=TripResponse}
// @Security BearerAuth
// @Router /trips/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	tripID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	var req UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	t, err := h.service.UpdateTrip(r.Context(), tripID, userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse())
}

// Delete godoc
// @Summary Delete a trip
// @Description Removes a trip. Expenses tagged with it lose the tag but are kept.
// @Tags trips
// @Param id path int true "Trip ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /trips/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	tripID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	if err := h.service.DeleteTrip(r.Context(), tripID, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Trip deleted"})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTripNotFound):
		response.NotFound(w, "Trip not found")
	case errors.Is(err, ErrInvalidDates):
		response.BadRequest(w, "Invalid trip dates")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(w, "Invalid trip status")
	case errors.Is(err, group.ErrNotMember):
		response.Forbidden(w, "You are not a member of this group")
	case errors.Is(err, group.ErrNotAdmin):
		response.Forbidden(w, "Only the trip creator can perform this action")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
