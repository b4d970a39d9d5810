package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// Action — действие над встречей, требующее прав.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// DenyReason — почему действие запрещено.
type DenyReason string

// ReasonNotRegistered — пользователь не участник встречи.
const ReasonNotRegistered DenyReason = "not_registered"

// Decision — результат проверки прав.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Err возвращает ошибку отказа, которая одновременно
// ErrUnauthorized и ErrNotRegistered. Для Allowed — nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return denied()
}

func denied() error {
	return fmt.Errorf("%w: %w", serr.ErrUnauthorized, serr.ErrNotRegistered)
}

// Authorize решает, может ли пользователь выполнить action над встречей.
//
// Менять и удалять встречу может любой её текущий участник,
// кем бы она ни была создана. Вызывается только для существующей встречи.
func Authorize(userID uuid.UUID, meeting models.MeetingDetails, action Action) Decision {
	switch action {
	case ActionUpdate, ActionDelete:
		for _, u := range meeting.Attendees {
			if u.ID == userID {
				return Decision{Allowed: true}
			}
		}
	}
	return Decision{Reason: ReasonNotRegistered}
}
