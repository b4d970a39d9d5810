package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// RegistrationsService записывает пользователей на встречи и отписывает их.
type RegistrationsService struct {
	meetings MeetingsRepo
	users    UsersRepo
	tx       Transactor
}

// NewRegistrationsService создаёт новый RegistrationsService.
func NewRegistrationsService(meetings MeetingsRepo, users UsersRepo, tx Transactor) *RegistrationsService {
	return &RegistrationsService{meetings: meetings, users: users, tx: tx}
}

// Register записывает пользователя userID на встречу meetingID.
//
// Ошибки:
//   - ErrNotFound — нет встречи или пользователя
//   - ErrAlreadyRegistered — пользователь уже участник, ничего не меняется
func (s *RegistrationsService) Register(ctx context.Context, meetingID, userID uuid.UUID) (models.Registration, error) {
	var out models.Registration
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.meetings.GetByID(ctx, meetingID)
		if err != nil {
			return err
		}
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		ok, err := s.meetings.IsAttendee(ctx, meetingID, userID)
		if err != nil {
			return err
		}
		if ok {
			return serr.ErrAlreadyRegistered
		}
		// первичный ключ meeting_users защищает от гонки двух одновременных записей
		if err := s.meetings.Attach(ctx, meetingID, userID); err != nil {
			return err
		}

		attendees, err := s.meetings.ListAttendees(ctx, meetingID)
		if err != nil {
			return err
		}
		out = models.Registration{
			Meeting: models.MeetingDetails{Meeting: m, Attendees: attendees},
			User:    u,
		}
		return nil
	})
	if err != nil {
		return models.Registration{}, err
	}
	return out, nil
}

// Unregister отписывает principal от встречи meetingID.
//
// Ошибки:
//   - ErrNotFound — нет встречи
//   - ErrUnauthorized + ErrNotRegistered — principal не участник, ничего не меняется
func (s *RegistrationsService) Unregister(ctx context.Context, principal models.User, meetingID uuid.UUID) (models.Registration, error) {
	var out models.Registration
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.meetings.GetByID(ctx, meetingID)
		if err != nil {
			return err
		}

		ok, err := s.meetings.IsAttendee(ctx, meetingID, principal.ID)
		if err != nil {
			return err
		}
		if !ok {
			return denied()
		}
		if err := s.meetings.Detach(ctx, meetingID, principal.ID); err != nil {
			if errors.Is(err, serr.ErrNotRegistered) {
				return denied()
			}
			return err
		}

		attendees, err := s.meetings.ListAttendees(ctx, meetingID)
		if err != nil {
			return err
		}
		out = models.Registration{
			Meeting: models.MeetingDetails{Meeting: m, Attendees: attendees},
			User:    principal,
		}
		return nil
	})
	if err != nil {
		return models.Registration{}, err
	}
	return out, nil
}
