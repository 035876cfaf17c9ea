package location

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

// Handler handles location HTTP requests
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new location handler
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes returns the location router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/ping", h.Ping)
	r.Put("/sharing", h.SetSharing)
	r.Get("/", h.GroupLocations)
	r.Post("/alerts", h.RaiseAlert)
	r.Get("/alerts", h.ListAlerts)

	return r
}

// PingRequest reports the caller's current position
type PingRequest struct {
	GroupID   int64   `json:"group_id" validate:"required,gt=0"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// SharingRequest toggles location sharing in a group
type SharingRequest struct {
	GroupID int64 `json:"group_id" validate:"required,gt=0"`
	Enabled *bool `json:"enabled" validate:"required"`
}

// AlertRequest raises a route alert for the group
type AlertRequest struct {
	GroupID   int64   `json:"group_id" validate:"required,gt=0"`
	Message   string  `json:"message" validate:"required,min=1,max=255"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Ping godoc
// @Summary Report current position
// @Tags locations
// @Accept json
// @Produce json
// @Param request body PingRequest true "Position"
// @Success 200 {object} response.Envelope{data=MemberLocation}
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /locations/ping [post]
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req PingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	loc, err := h.service.Ping(r.Context(), req.GroupID, userID, req.Latitude, req.Longitude)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, loc)
}

// SetSharing godoc
// @Summary Toggle location sharing
// @Description Turning sharing off also deletes the stored position
// @Tags locations
// @Accept json
// @Produce json
// @Param request body SharingRequest true "Sharing toggle"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /locations/sharing [put]
func (h *Handler) SetSharing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SharingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	if err := h.service.SetSharing(r.Context(), req.GroupID, userID, *req.Enabled); err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

// GroupLocations godoc
// @Summary List member positions
// @Description Positions of group members who currently share their location
// @Tags locations
// @Produce json
// @Param group_id query int true "Group ID"
// @Success 200 {object} response.Envelope{data=[]MemberLocation}
// @Security BearerAuth
// @Router /locations [get]
func (h *Handler) GroupLocations(w http.ResponseWriter, r *http.Request) {
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

	locations, err := h.service.GroupLocations(r.Context(), groupID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, locations)
}

// RaiseAlert godoc
// @Summary Raise a route alert
// @Description Stores an alert and notifies every other group member
// @Tags locations
// @Accept json
// @Produce json
// @Param request body AlertRequest true "Alert details"
// @Success 201 {object} response.Envelope{data=Alert}
// @Security BearerAuth
// @Router /locations/alerts [post]
func (h *Handler) RaiseAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req AlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	a, err := h.service.RaiseAlert(r.Context(), req.GroupID, userID, req.Message, req.Latitude, req.Longitude)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, a)
}

// ListAlerts godoc
// @Summary List group alerts
// @Tags locations
// @Produce json
// @Param group_id query int true "Group ID"
// @Param limit query int false "Max alerts" default(50)
// @Success 200 {object} response.Envelope{data=[]Alert}
// @Security BearerAuth
// @Router /locations/alerts [get]
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
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

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	alerts, err := h.service.ListAlerts(r.Context(), groupID, userID, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, alerts)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSharingDisabled):
		response.Forbidden(w, "Enable location sharing for this group first")
	case errors.Is(err, group.ErrNotMember):
		response.Forbidden(w, "You are not a member of this group")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
