package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting — запись встречи. Участники хранятся отдельно (meeting_users).
type Meeting struct {
	ID          uuid.UUID
	Title       string
	Description string
	Time        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MeetingDetails — встреча вместе с текущими участниками.
type MeetingDetails struct {
	Meeting
	Attendees []User
}

// Attendance — связь участия: кто и когда записан на встречу.
type Attendance struct {
	UserID       uuid.UUID
	RegisteredAt time.Time
}

// Registration — результат записи/отписки: обновлённые встреча и пользователь.
type Registration struct {
	Meeting MeetingDetails
	User    User
}
