// HTTP-хендлеры встреч
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// ListMeetings возвращает все встречи.
//
// @Summary      List meetings
// @Tags         meeting
// @Produce      json
// @Success      200 {object} shared.MeetingListResponse
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /meeting [get]
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.Meetings.List(r.Context())
	if err != nil {
		h.fail(w, r, "An error occurred", err)
		return
	}

	items := make([]shared.MeetingItem, 0, len(list))
	for _, m := range list {
		items = append(items, shared.MeetingItem{Meeting: toMeeting(m), ViewMeeting: viewMeetingLink(m.ID)})
	}
	writeJSON(w, http.StatusOK, shared.MeetingListResponse{Msg: "List of all meetings", Meetings: items})
}

// GetMeeting возвращает встречу с участниками.
//
// @Summary      Show meeting
// @Tags         meeting
// @Produce      json
// @Param        id path string true "Meeting ID"
// @Success      200 {object} shared.MeetingResponse
// @Failure      404 {object} shared.ErrorResponse "Meeting not found"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /meeting/{id} [get]
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Meeting not found", err)
		return
	}

	m, err := h.Svc.Meetings.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Meeting not found", err)
		return
	}

	item := shared.MeetingItem{Meeting: toMeetingDetails(m), ViewMeeting: listMeetingsLink()}
	writeJSON(w, http.StatusOK, shared.MeetingResponse{Msg: "Meeting information", Meeting: item})
}

// CreateMeeting создаёт встречу; создатель становится её участником.
//
// @Summary      Create meeting
// @Description  Time format: YYYYMMDDHHMM[SS] followed by a time zone, e.g. 201801151330UTC.
// @Tags         meeting
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body shared.MeetingRequest true "Meeting"
// @Success      201 {object} shared.MeetingResponse
// @Failure      400 {object} shared.ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} shared.ErrorResponse "Unauthorized"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /meeting [post]
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req shared.MeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "An error occurred", err)
		return
	}

	m, err := h.Svc.Meetings.Create(r.Context(), principal, meetingInput(req))
	if err != nil {
		h.fail(w, r, "An error occurred", err)
		return
	}

	writeJSON(w, http.StatusCreated, shared.MeetingResponse{Msg: "Meeting created", Meeting: meetingItem(m)})
}

// UpdateMeeting полностью заменяет title, description и time встречи.
//
// @Summary      Update meeting
// @Description  Only a current attendee may update the meeting.
// @Tags         meeting
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Meeting ID"
// @Param        request body shared.MeetingRequest true "Meeting"
// @Success      200 {object} shared.MeetingResponse
// @Failure      400 {object} shared.ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} shared.ErrorResponse "Unauthorized"
// @Failure      403 {object} shared.ErrorResponse "User not registered for meeting"
// @Failure      404 {object} shared.ErrorResponse "Meeting not found"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /meeting/{id} [put]
func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Meeting not found", err)
		return
	}

	var req shared.MeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Error during update", err)
		return
	}

	m, err := h.Svc.Meetings.Update(r.Context(), principal, id, meetingInput(req))
	if err != nil {
		h.fail(w, r, updateFailureMsg(err), err)
		return
	}

	writeJSON(w, http.StatusOK, shared.MeetingResponse{Msg: "Meeting updated", Meeting: meetingItem(m)})
}

// DeleteMeeting удаляет встречу и всех её участников.
//
// @Summary      Delete meeting
// @Description  Only a current attendee may delete the meeting.
// @Tags         meeting
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Meeting ID"
// @Success      200 {object} shared.MeetingDeletedResponse
// @Failure      401 {object} shared.ErrorResponse "Unauthorized"
// @Failure      403 {object} shared.ErrorResponse "User not registered for meeting"
// @Failure      404 {object} shared.ErrorResponse "Meeting not found"
// @Failure      500 {object} shared.ErrorResponse "Deletion failed, attendees restored"
// @Router       /meeting/{id} [delete]
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Meeting not found", err)
		return
	}

	if err := h.Svc.Meetings.Delete(r.Context(), principal, id); err != nil {
		msg := "Deletion failed"
		switch StatusOf(err) {
		case http.StatusForbidden:
			msg = "User not registered for meeting, delete operation not successful"
		case http.StatusNotFound:
			msg = "Meeting not found"
		}
		h.fail(w, r, msg, err)
		return
	}

	writeJSON(w, http.StatusOK, shared.MeetingDeletedResponse{Msg: "Meeting deleted", Create: createMeetingLink()})
}

// principal достаёт пользователя, положенного middleware.Authenticate.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	u, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", serr.ErrInvalidCredentials)
	}
	return u, ok
}

func meetingInput(req shared.MeetingRequest) service.MeetingInput {
	return service.MeetingInput{Title: req.Title, Description: req.Description, Time: req.Time}
}

func updateFailureMsg(err error) string {
	switch StatusOf(err) {
	case http.StatusForbidden:
		return "User not registered for meeting, update not successful"
	case http.StatusNotFound:
		return "Meeting not found"
	}
	return "Error during update"
}
