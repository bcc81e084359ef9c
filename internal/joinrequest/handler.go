package joinrequest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PlanifyOrg/planify/pkg/middleware"
	"github.com/PlanifyOrg/planify/pkg/response"
)

// Handler handles HTTP requests for join requests
type Handler struct {
	service *Service
}

// NewHandler creates a new join request handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /join-requests
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)

	return r
}

// OrganizationRoutes returns the router mounted at /organizations/{id}/join-requests
func (h *Handler) OrganizationRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListPending)

	return r
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeOptional decodes a JSON body; an empty body is allowed.
func decodeOptional(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Create handles POST /organizations/{id}/join-requests
// @Summary      Request to join an organization
// @Description  Files a pending join request. Fails when the user is already a member or has a pending request.
// @Tags         join-requests
// @Accept       json
// @Produce      json
// @Param        id path int true "Organization ID"
// @Param        request body CreateRequest false "Requesting user, defaults to the caller"
// @Success      201 {object} response.APIResponse{data=JoinRequestResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /organizations/{id}/join-requests [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}

	var req CreateRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	userID, ok := middleware.ResolveUserID(r.Context(), req.UserID)
	if !ok {
		response.BadRequest(w, "User ID is required")
		return
	}

	j, err := h.service.Create(r.Context(), orgID, userID)
	if err != nil {
		response.WithStatus(w, http.StatusBadRequest, err)
		return
	}

	response.JSON(w, http.StatusCreated, j.ToResponse())
}

// ListPending handles GET /organizations/{id}/join-requests
// @Summary      List pending join requests
// @Tags         join-requests
// @Produce      json
// @Param        id path int true "Organization ID"
// @Success      200 {object} response.APIResponse{data=[]JoinRequestResponse}
// @Router       /organizations/{id}/join-requests [get]
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid organization ID")
		return
	}

	requests, err := h.service.ListPending(r.Context(), orgID)
	if err != nil {
		response.InternalError(w, "Failed to list join requests")
		return
	}

	resp := make([]*JoinRequestResponse, len(requests))
	for i, j := range requests {
		resp[i] = j.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /join-requests/{id}
// @Summary      Get a join request
// @Tags         join-requests
// @Produce      json
// @Param        id path int true "Join request ID"
// @Success      200 {object} response.APIResponse{data=JoinRequestResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /join-requests/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid join request ID")
		return
	}

	j, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrJoinRequestNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get join request")
		return
	}

	response.JSON(w, http.StatusOK, j.ToResponse())
}

// Approve handles POST /join-requests/{id}/approve
// @Summary      Approve a join request
// @Description  Approves a pending request and adds the requester to the organization
// @Tags         join-requests
// @Accept       json
// @Produce      json
// @Param        id path int true "Join request ID"
// @Param        request body ReviewRequest false "Reviewer, defaults to the caller"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /join-requests/{id}/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Approve, "Join request approved")
}

// Reject handles POST /join-requests/{id}/reject
// @Summary      Reject a join request
// @Tags         join-requests
// @Accept       json
// @Produce      json
// @Param        id path int true "Join request ID"
// @Param        request body ReviewRequest false "Reviewer, defaults to the caller"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /join-requests/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Reject, "Join request rejected")
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, requestID, reviewerID int64) error, message string) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid join request ID")
		return
	}

	var req ReviewRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	reviewerID, err := middleware.ActingUserID(r.Context(), req.ReviewerID)
	if errors.Is(err, middleware.ErrActingAsOther) {
		response.Forbidden(w, "You can only review as yourself")
		return
	}
	if err != nil {
		response.BadRequest(w, "Reviewer ID is required")
		return
	}

	if err := op(r.Context(), id, reviewerID); err != nil {
		response.WithStatus(w, http.StatusBadRequest, err)
		return
	}

	response.Message(w, http.StatusOK, message)
}
