package group

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/roamly/tripsplit/pkg/middleware"
	"github.com/roamly/tripsplit/pkg/response"
)

// Handler handles group HTTP requests
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new group handler
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes returns the group router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/join", h.Join)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/invite-code", h.RegenerateInviteCode)
		r.Get("/members", h.GetMembers)
		r.Delete("/members/{userID}", h.RemoveMember)
	})

	return r
}

// Create godoc
// @Summary Create a group
// @Description Creates a new group with the caller as admin
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} response.Envelope{data=GroupResponse}
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	g, err := h.service.CreateGroup(r.Context(), userID, &req)
	if err != nil {
		response.InternalError(w, "Something went wrong")
		return
	}

	response.JSON(w, http.StatusCreated, g.ToResponse(nil))
}

// List godoc
// @Summary List my groups
// @Tags groups
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.Envelope{data=[]GroupResponse}
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	groups, total, err := h.service.ListGroups(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Something went wrong")
		return
	}

	resp := make([]*GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, g.ToResponse(nil))
	}

	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

// Get godoc
// @Summary Get a group
// @Description Retrieves a group with its member list
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} response.Envelope{data=GroupResponse}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	g, members, err := h.service.GetGroup(r.Context(), groupID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(members))
}

// Update godoc
// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body UpdateGroupRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=GroupResponse}
// @Security BearerAuth
// @Router /groups/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	g, err := h.service.UpdateGroup(r.Context(), groupID, userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(nil))
}

// Delete godoc
// @Summary Delete a group
// @Description Deactivates a group. History is kept but the group disappears from listings.
// @Tags groups
// @Param id path int true "Group ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	if err := h.service.DeleteGroup(r.Context(), groupID, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Group deleted"})
}

// Join godoc
// @Summary Join a group by invite code
// @Tags groups
// @Accept json
// @Produce json
// @Param request body JoinGroupRequest true "Invite code"
// @Success 200 {object} response.Envelope{data=GroupResponse}
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /groups/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	g, err := h.service.JoinByCode(r.Context(), userID, req.InviteCode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(nil))
}

// RegenerateInviteCode godoc
// @Summary Regenerate the invite code
// @Description Replaces the group invite code. The old code stops working.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} response.Envelope{data=GroupResponse}
// @Security BearerAuth
// @Router /groups/{id}/invite-code [post]
func (h *Handler) RegenerateInviteCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	g, err := h.service.RegenerateInviteCode(r.Context(), groupID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(nil))
}

// GetMembers godoc
// @Summary List group members
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} response.Envelope{data=[]MemberResponse}
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	members, err := h.service.GetMembers(r.Context(), groupID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]*MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, m.ToResponse())
	}

	response.JSON(w, http.StatusOK, resp)
}

// RemoveMember godoc
// @Summary Remove a member
// @Description Admins can remove any member except the creator. Members can leave themselves.
// @Tags groups
// @Param id path int true "Group ID"
// @Param userID path int true "User ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /groups/{id}/members/{userID} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), groupID, callerID, targetID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, "Group not found")
	case errors.Is(err, ErrInvalidInviteCode):
		response.NotFound(w, "Invalid invite code")
	case errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, "Member not found")
	case errors.Is(err, ErrMemberAlreadyExists):
		response.Conflict(w, "Already a member of this group")
	case errors.Is(err, ErrNotMember):
		response.Forbidden(w, "You are not a member of this group")
	case errors.Is(err, ErrNotAdmin):
		response.Forbidden(w, "Only group admins can perform this action")
	case errors.Is(err, ErrCannotRemoveAdmin):
		response.Forbidden(w, "The group creator cannot be removed")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
