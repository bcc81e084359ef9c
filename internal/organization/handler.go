package organization

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PlanifyOrg/planify/pkg/middleware"
	"github.com/PlanifyOrg/planify/pkg/response"
)

// Handler handles HTTP requests for organization operations
type Handler struct {
	service *Service
}

// NewHandler creates a new organization handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for organization endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	// Membership
	r.Get("/{id}/members", h.GetMembers)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{userId}", h.RemoveMember)
	r.Post("/{id}/admins", h.AddAdmin)
	r.Delete("/{id}/admins/{userId}", h.RemoveAdmin)

	return r
}

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// Create handles POST /organizations
// @Summary      Create an organization
// @Description  Create an organization; the creator becomes its first admin
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body CreateOrganizationRequest true "Organization creation request"
// @Success      201 {object} response.APIResponse{data=OrganizationResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /organizations [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	o, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create organization")
		return
	}

	resp := o.ToResponse()
	resp.AdminIDs = []int64{creatorID}
	resp.MemberIDs = []int64{creatorID}
	response.JSON(w, http.StatusCreated, resp)
}

// List handles GET /organizations
// @Summary      List organizations
// @Description  Organizations of the current user, or every organization with all=true
// @Tags         organizations
// @Produce      json
// @Param        all query bool false "List every organization"
// @Success      200 {object} response.APIResponse{data=[]OrganizationResponse}
// @Router       /organizations [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		orgs []*Organization
		err  error
	)

	if r.URL.Query().Get("all") == "true" {
		orgs, err = h.service.List(r.Context())
	} else {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		orgs, err = h.service.ListByUserID(r.Context(), userID)
	}
	if err != nil {
		response.InternalError(w, "Failed to list organizations")
		return
	}

	resp := make([]*OrganizationResponse, len(orgs))
	for i, o := range orgs {
		resp[i] = o.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /organizations/{id}
// @Summary      Get organization by ID
// @Description  Get an organization with its members and admins
// @Tags         organizations
// @Produce      json
// @Param        id path int true "Organization ID"
// @Success      200 {object} response.APIResponse{data=OrganizationResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}

	o, members, err := h.service.GetByIDWithMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrganizationNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get organization")
		return
	}

	response.JSON(w, http.StatusOK, o.ToResponse().WithMembers(members))
}

// Update handles PUT /organizations/{id}
// @Summary      Update an organization
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id path int true "Organization ID"
// @Param        request body UpdateOrganizationRequest true "Organization update request"
// @Success      200 {object} response.APIResponse{data=OrganizationResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}

	var req UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	o, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update organization")
		return
	}

	response.JSON(w, http.StatusOK, o.ToResponse())
}

// Delete handles DELETE /organizations/{id}
// @Summary      Delete an organization
// @Tags         organizations
// @Produce      json
// @Param        id path int true "Organization ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err, "Failed to delete organization")
		return
	}

	response.Message(w, http.StatusOK, "Organization deleted successfully")
}

// GetMembers handles GET /organizations/{id}/members
// @Summary      List organization members
// @Tags         organizations
// @Produce      json
// @Param        id path int true "Organization ID"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id}/members [get]
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}

	members, err := h.service.GetMembers(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get members")
		return
	}

	resp := make([]*MemberResponse, len(members))
	for i, m := range members {
		resp[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// AddMember handles POST /organizations/{id}/members
// @Summary      Add a member
// @Description  Add a user to the organization; adding an existing member succeeds
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id path int true "Organization ID"
// @Param        request body MemberRequest true "Member"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	h.membershipFromBody(w, r, h.service.AddMember, "Member added successfully")
}

// RemoveMember handles DELETE /organizations/{id}/members/{userId}
// @Summary      Remove a member
// @Description  Remove a user from the organization, including any admin status
// @Tags         organizations
// @Produce      json
// @Param        id path int true "Organization ID"
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id}/members/{userId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	h.membershipFromPath(w, r, h.service.RemoveMember, "Member removed successfully")
}

// AddAdmin handles POST /organizations/{id}/admins
// @Summary      Add an admin
// @Description  Promote a user to admin, adding them as a member first when needed
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id path int true "Organization ID"
// @Param        request body MemberRequest true "Admin"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id}/admins [post]
func (h *Handler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	h.membershipFromBody(w, r, h.service.AddAdmin, "Admin added successfully")
}

// RemoveAdmin handles DELETE /organizations/{id}/admins/{userId}
// @Summary      Remove an admin
// @Description  Demote an admin; the user stays a member
// @Tags         organizations
// @Produce      json
// @Param        id path int true "Organization ID"
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /organizations/{id}/admins/{userId} [delete]
func (h *Handler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	h.membershipFromPath(w, r, h.service.RemoveAdmin, "Admin removed successfully")
}

type membershipOp func(ctx context.Context, orgID, userID int64) error

func (h *Handler) membershipFromBody(w http.ResponseWriter, r *http.Request, op membershipOp, message string) {
	orgID, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}

	var req MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		response.BadRequest(w, "User ID is required")
		return
	}

	h.runMembership(w, r, op, orgID, req.UserID, message)
}

func (h *Handler) membershipFromPath(w http.ResponseWriter, r *http.Request, op membershipOp, message string) {
	orgID, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}
	userID, err := parseID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	h.runMembership(w, r, op, orgID, userID, message)
}

func (h *Handler) runMembership(w http.ResponseWriter, r *http.Request, op membershipOp, orgID, userID int64, message string) {
	if err := op(r.Context(), orgID, userID); err != nil {
		if errors.Is(err, ErrOrganizationNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update membership")
		return
	}

	response.Message(w, http.StatusOK, message)
}
