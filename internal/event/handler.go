package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PlanifyOrg/planify/pkg/middleware"
	"github.com/PlanifyOrg/planify/pkg/response"
)

// Handler handles HTTP requests for event operations
type Handler struct {
	service *Service
}

// NewHandler creates a new event handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for event endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/participants", h.AddParticipant)
	r.Delete("/{id}/participants/{userId}", h.RemoveParticipant)

	return r
}

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// Create handles POST /events
// @Summary      Create an event
// @Description  Create a draft event; the organizer becomes its first participant
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body CreateEventRequest true "Event creation request"
// @Success      201 {object} response.APIResponse{data=EventResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /events [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Create(r.Context(), organizerID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create event")
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse())
}

// List handles GET /events
// @Summary      List my events
// @Description  Events the current user organizes or participates in, or those of an organization
// @Tags         events
// @Produce      json
// @Param        organization_id query int false "Organization ID"
// @Success      200 {object} response.APIResponse{data=[]EventResponse}
// @Router       /events [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		events []*Event
		err    error
	)

	if orgParam := r.URL.Query().Get("organization_id"); orgParam != "" {
		orgID, perr := strconv.ParseInt(orgParam, 10, 64)
		if perr != nil {
			response.BadRequest(w, "Invalid organization ID")
			return
		}
		events, err = h.service.ListByOrganizationID(r.Context(), orgID)
	} else {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		events, err = h.service.ListByUserID(r.Context(), userID)
	}
	if err != nil {
		response.InternalError(w, "Failed to list events")
		return
	}

	resp := make([]*EventResponse, len(events))
	for i, e := range events {
		resp[i] = e.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /events/{id}
// @Summary      Get event by ID
// @Tags         events
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	e, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get event")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Update handles PUT /events/{id}
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id path int true "Event ID"
// @Param        request body UpdateEventRequest true "Event update request"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Update(r.Context(), id, requesterID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update event")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /events/{id}
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), id, requesterID); err != nil {
		response.FromError(w, err, "Failed to delete event")
		return
	}

	response.Message(w, http.StatusOK, "Event deleted successfully")
}

// AddParticipant handles POST /events/{id}/participants
// @Summary      Add a participant to an event
// @Description  Adds the user and sends them an event invitation notification
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id path int true "Event ID"
// @Param        request body AddParticipantRequest true "Participant"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id}/participants [post]
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	var req AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		response.BadRequest(w, "User ID is required")
		return
	}

	requesterID, _ := middleware.GetUserID(r.Context())
	if err := h.service.AddParticipant(r.Context(), id, req.UserID, requesterID); err != nil {
		if errors.Is(err, ErrAlreadyParticipant) {
			response.BadRequest(w, err.Error())
			return
		}
		response.FromError(w, err, "Failed to add participant")
		return
	}

	response.Message(w, http.StatusOK, "Participant added successfully")
}

// RemoveParticipant handles DELETE /events/{id}/participants/{userId}
// @Summary      Remove a participant from an event
// @Tags         events
// @Produce      json
// @Param        id path int true "Event ID"
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id}/participants/{userId} [delete]
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}
	userID, err := parseID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), id, userID); err != nil {
		response.FromError(w, err, "Failed to remove participant")
		return
	}

	response.Message(w, http.StatusOK, "Participant removed successfully")
}
