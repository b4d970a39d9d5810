// HTTP-хендлеры записи на встречу
package api

import (
	"net/http"

	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// RegisterForMeeting записывает пользователя user_id на встречу meeting_id.
//
// @Summary      Register for meeting
// @Tags         registration
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body shared.RegistrationRequest true "Meeting and user"
// @Success      201 {object} shared.RegistrationResponse
// @Failure      400 {object} shared.ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} shared.ErrorResponse "Unauthorized"
// @Failure      404 {object} shared.ErrorResponse "Meeting or user not found"
// @Failure      409 {object} shared.ErrorResponse "User is already registered for meeting"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /meeting/registration [post]
func (h *Handler) RegisterForMeeting(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.principal(w, r); !ok {
		return
	}

	var req shared.RegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "An error occurred", err)
		return
	}

	var v serr.ValidationError
	meetingID, err := uuid.Parse(req.MeetingID)
	if err != nil {
		v.Add("meeting_id", "meeting_id must be a UUID")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		v.Add("user_id", "user_id must be a UUID")
	}
	if err := v.Err(); err != nil {
		h.fail(w, r, "An error occurred", err)
		return
	}

	reg, err := h.Svc.Registrations.Register(r.Context(), meetingID, userID)
	if err != nil {
		msg := "An error occurred"
		switch StatusOf(err) {
		case http.StatusConflict:
			msg = "User is already registered for meeting"
		case http.StatusNotFound:
			msg = "Meeting or user not found"
		}
		h.fail(w, r, msg, err)
		return
	}

	writeJSON(w, http.StatusCreated, shared.RegistrationResponse{
		Msg:        "User registered for the meeting",
		Meeting:    toMeetingDetails(reg.Meeting),
		User:       toUser(reg.User),
		Unregister: unregisterLink(reg.Meeting.ID),
	})
}

// UnregisterFromMeeting отписывает текущего пользователя от встречи {id}.
//
// @Summary      Unregister from meeting
// @Tags         registration
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Meeting ID"
// @Success      200 {object} shared.RegistrationResponse
// @Failure      401 {object} shared.ErrorResponse "Unauthorized"
// @Failure      403 {object} shared.ErrorResponse "User not registered for meeting"
// @Failure      404 {object} shared.ErrorResponse "Meeting not found"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /meeting/registration/{id} [delete]
func (h *Handler) UnregisterFromMeeting(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Meeting not found", err)
		return
	}

	reg, err := h.Svc.Registrations.Unregister(r.Context(), principal, id)
	if err != nil {
		msg := "An error occurred"
		switch StatusOf(err) {
		case http.StatusForbidden:
			msg = "User not registered for meeting, delete operation not successful"
		case http.StatusNotFound:
			msg = "Meeting not found"
		}
		h.fail(w, r, msg, err)
		return
	}

	writeJSON(w, http.StatusOK, shared.RegistrationResponse{
		Msg:      "User unregistered for the meeting",
		Meeting:  toMeetingDetails(reg.Meeting),
		User:     toUser(reg.User),
		Register: registerLink(),
	})
}
