package api

import (
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// Формирование ответов: перевод серверных моделей в DTO и гипермедиа-ссылки.
// Ссылки не хранятся в моделях и добавляются только здесь.

// PathPrefix — префикс ссылок в ответах.
const PathPrefix = "api/v1"

func signInLink() *shared.Link {
	return &shared.Link{Href: PathPrefix + "/user/signin", Method: "POST", Params: "email, password"}
}

func listMeetingsLink() *shared.Link {
	return &shared.Link{Href: PathPrefix + "/meeting", Method: "GET"}
}

func viewMeetingLink(id uuid.UUID) *shared.Link {
	return &shared.Link{Href: PathPrefix + "/meeting/" + id.String(), Method: "GET"}
}

func createMeetingLink() *shared.Link {
	return &shared.Link{Href: PathPrefix + "/meeting", Method: "POST", Params: "title, description, time"}
}

func registerLink() *shared.Link {
	return &shared.Link{Href: PathPrefix + "/meeting/registration", Method: "POST", Params: "user_id, meeting_id"}
}

func unregisterLink(meetingID uuid.UUID) *shared.Link {
	return &shared.Link{Href: PathPrefix + "/meeting/registration/" + meetingID.String(), Method: "DELETE"}
}

func toUser(u models.User) shared.User {
	return shared.User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toUsers(list []models.User) []shared.User {
	out := make([]shared.User, 0, len(list))
	for _, u := range list {
		out = append(out, toUser(u))
	}
	return out
}

func toMeeting(m models.Meeting) shared.Meeting {
	return shared.Meeting{
		ID:          m.ID.String(),
		Title:       m.Title,
		Description: m.Description,
		Time:        m.Time,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toMeetingDetails(d models.MeetingDetails) shared.Meeting {
	m := toMeeting(d.Meeting)
	m.Users = toUsers(d.Attendees)
	return m
}

// meetingItem — встреча с участниками и ссылкой на её просмотр.
func meetingItem(d models.MeetingDetails) shared.MeetingItem {
	return shared.MeetingItem{Meeting: toMeetingDetails(d), ViewMeeting: viewMeetingLink(d.ID)}
}
