package meeting

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PlanifyOrg/planify/internal/authz"
	"github.com/PlanifyOrg/planify/pkg/apperror"
	"github.com/PlanifyOrg/planify/pkg/middleware"
	"github.com/PlanifyOrg/planify/pkg/response"
)

// Handler handles HTTP requests for meeting operations
type Handler struct {
	service *Service
}

// NewHandler creates a new meeting handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for meeting endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/flag", h.Flag)
	r.Post("/{id}/unflag", h.Unflag)

	r.Post("/{id}/participants", h.AddParticipant)
	r.Delete("/{id}/participants/{userId}", h.RemoveParticipant)
	r.Post("/{id}/checkin", h.CheckIn)

	r.Post("/{id}/agenda", h.AddAgendaItem)
	r.Post("/{id}/agenda/{itemId}/complete", h.CompleteAgendaItem)

	r.Post("/{id}/documents", h.AddDocument)
	r.Put("/{id}/documents/{docId}", h.UpdateDocument)

	return r
}

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// decodeOptional decodes a JSON body; an empty body is allowed.
func decodeOptional(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// actingUser resolves the requester named in a body and writes the error response when it cannot.
func actingUser(w http.ResponseWriter, r *http.Request, explicit int64) (int64, bool) {
	userID, err := middleware.ActingUserID(r.Context(), explicit)
	switch {
	case errors.Is(err, middleware.ErrActingAsOther):
		response.Forbidden(w, "You can only act as yourself")
		return 0, false
	case err != nil:
		response.BadRequest(w, "Requester ID is required")
		return 0, false
	}
	return userID, true
}

// Create handles POST /meetings
// @Summary      Schedule a meeting
// @Description  Creates a meeting; the caller becomes a participant and the other participants are notified
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        request body CreateMeetingRequest true "Meeting creation request"
// @Success      201 {object} response.APIResponse{data=MeetingResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /meetings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create meeting")
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// List handles GET /meetings
// @Summary      List meetings
// @Description  Meetings of an event, or those the current user created or participates in
// @Tags         meetings
// @Produce      json
// @Param        event_id query int false "Event ID"
// @Success      200 {object} response.APIResponse{data=[]MeetingResponse}
// @Router       /meetings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		meetings []*Meeting
		err      error
	)

	if eventParam := r.URL.Query().Get("event_id"); eventParam != "" {
		eventID, perr := strconv.ParseInt(eventParam, 10, 64)
		if perr != nil {
			response.BadRequest(w, "Invalid event ID")
			return
		}
		meetings, err = h.service.ListByEventID(r.Context(), eventID)
	} else {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		meetings, err = h.service.ListByUserID(r.Context(), userID)
	}
	if err != nil {
		response.InternalError(w, "Failed to list meetings")
		return
	}

	resp := make([]*MeetingResponse, len(meetings))
	for i, m := range meetings {
		resp[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /meetings/{id}
// @Summary      Get meeting by ID
// @Description  Includes participants, agenda and documents
// @Tags         meetings
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=MeetingResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	m, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get meeting")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Update handles PUT /meetings/{id}
// @Summary      Update a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        request body UpdateMeetingRequest true "Meeting update request"
// @Success      200 {object} response.APIResponse{data=MeetingResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.Update(r.Context(), id, requesterID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update meeting")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Delete handles DELETE /meetings/{id}
// @Summary      Delete a meeting
// @Description  Organization admins only. Removes participants, agenda and documents too.
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        request body DeleteRequest false "Requester, defaults to the caller"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	var req DeleteRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	requesterID, ok := actingUser(w, r, req.RequesterID)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, requesterID); err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound), errors.Is(err, authz.ErrNoOrganization):
			response.WithStatus(w, http.StatusNotFound, err)
		case errors.Is(err, apperror.ErrForbidden):
			response.WithStatus(w, http.StatusForbidden, err)
		default:
			response.InternalError(w, "Failed to delete meeting")
		}
		return
	}

	response.Message(w, http.StatusOK, "Meeting deleted successfully")
}

// Flag handles POST /meetings/{id}/flag
// @Summary      Flag a meeting for deletion
// @Description  Marks the meeting for review and notifies the organization's admins
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        request body FlagRequest false "Flagging user, defaults to the caller"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/flag [post]
func (h *Handler) Flag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	var req FlagRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	userID, ok := middleware.ResolveUserID(r.Context(), req.UserID)
	if !ok {
		response.BadRequest(w, "User ID is required")
		return
	}

	if err := h.service.Flag(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to flag meeting")
		return
	}

	response.Message(w, http.StatusOK, "Meeting flagged for deletion")
}

// Unflag handles POST /meetings/{id}/unflag
// @Summary      Clear a deletion flag
// @Tags         meetings
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/unflag [post]
func (h *Handler) Unflag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	if err := h.service.Unflag(r.Context(), id); err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to unflag meeting")
		return
	}

	response.Message(w, http.StatusOK, "Meeting unflagged")
}

// AddParticipant handles POST /meetings/{id}/participants
// @Summary      Add a participant to a meeting
// @Description  Requester must be the meeting creator or an organization admin
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        request body ParticipantRequest true "Participant and requester"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/participants [post]
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	var req ParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		response.BadRequest(w, "User ID is required")
		return
	}
	requesterID, ok := actingUser(w, r, req.RequesterID)
	if !ok {
		return
	}

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

// RemoveParticipant handles DELETE /meetings/{id}/participants/{userId}
// @Summary      Remove a participant from a meeting
// @Tags         meetings
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/participants/{userId} [delete]
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}
	userID, err := parseID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), id, userID, requesterID); err != nil {
		response.FromError(w, err, "Failed to remove participant")
		return
	}

	response.Message(w, http.StatusOK, "Participant removed successfully")
}

// CheckIn handles POST /meetings/{id}/checkin
// @Summary      Check in to a meeting
// @Description  Users may only check themselves in
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        request body CheckInRequest false "User, defaults to the caller"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/checkin [post]
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	var req CheckInRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	userID, err := middleware.ActingUserID(r.Context(), req.UserID)
	if errors.Is(err, middleware.ErrActingAsOther) {
		response.Forbidden(w, "You can only check yourself in")
		return
	}
	if err != nil {
		response.BadRequest(w, "User ID is required")
		return
	}

	if err := h.service.CheckIn(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrParticipantNotFound) || errors.Is(err, ErrAlreadyCheckedIn) {
			response.WithStatus(w, http.StatusNotFound, err)
			return
		}
		response.InternalError(w, "Failed to check in")
		return
	}

	response.Message(w, http.StatusOK, "Checked in successfully")
}

// AddAgendaItem handles POST /meetings/{id}/agenda
// @Summary      Add an agenda item
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        request body AgendaItemRequest true "Agenda item"
// @Success      201 {object} response.APIResponse{data=AgendaItemResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/agenda [post]
func (h *Handler) AddAgendaItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req AgendaItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	item, err := h.service.AddAgendaItem(r.Context(), id, requesterID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to add agenda item")
		return
	}

	response.JSON(w, http.StatusCreated, item.ToResponse())
}

// CompleteAgendaItem handles POST /meetings/{id}/agenda/{itemId}/complete
// @Summary      Complete an agenda item
// @Tags         meetings
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        itemId path int true "Agenda item ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/agenda/{itemId}/complete [post]
func (h *Handler) CompleteAgendaItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}
	itemID, err := parseID(r, "itemId")
	if err != nil {
		response.BadRequest(w, "Invalid agenda item ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.CompleteAgendaItem(r.Context(), id, itemID, requesterID); err != nil {
		response.FromError(w, err, "Failed to complete agenda item")
		return
	}

	response.Message(w, http.StatusOK, "Agenda item completed")
}

// AddDocument handles POST /meetings/{id}/documents
// @Summary      Attach a document
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        request body DocumentRequest true "Document"
// @Success      201 {object} response.APIResponse{data=DocumentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/documents [post]
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	d, err := h.service.AddDocument(r.Context(), id, requesterID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to add document")
		return
	}

	response.JSON(w, http.StatusCreated, d.ToResponse())
}

// UpdateDocument handles PUT /meetings/{id}/documents/{docId}
// @Summary      Update a document
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Param        docId path int true "Document ID"
// @Param        request body UpdateDocumentRequest true "Document update"
// @Success      200 {object} response.APIResponse{data=DocumentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{id}/documents/{docId} [put]
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}
	docID, err := parseID(r, "docId")
	if err != nil {
		response.BadRequest(w, "Invalid document ID")
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	d, err := h.service.UpdateDocument(r.Context(), id, docID, requesterID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update document")
		return
	}

	response.JSON(w, http.StatusOK, d.ToResponse())
}
