package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// MeetingsService — создание, просмотр, изменение и удаление встреч.
//
// Каждая изменяющая операция выполняется в одной транзакции,
// так что читатели не видят промежуточных состояний.
type MeetingsService struct {
	meetings MeetingsRepo
	tx       Transactor
}

// NewMeetingsService создаёт новый MeetingsService.
func NewMeetingsService(meetings MeetingsRepo, tx Transactor) *MeetingsService {
	return &MeetingsService{meetings: meetings, tx: tx}
}

// Create создаёт встречу и записывает на неё создателя.
//
// Невалидные поля — ValidationError, в хранилище при этом ничего не пишется.
func (s *MeetingsService) Create(ctx context.Context, creator models.User, in MeetingInput) (models.MeetingDetails, error) {
	f, err := in.parse()
	if err != nil {
		return models.MeetingDetails{}, err
	}

	var out models.MeetingDetails
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.meetings.Create(ctx, f.title, f.description, f.at)
		if err != nil {
			return err
		}
		if err := s.meetings.Attach(ctx, m.ID, creator.ID); err != nil {
			return err
		}
		out, err = s.details(ctx, m)
		return err
	})
	if err != nil {
		return models.MeetingDetails{}, err
	}
	return out, nil
}

// List возвращает все встречи.
func (s *MeetingsService) List(ctx context.Context) ([]models.Meeting, error) {
	return s.meetings.List(ctx)
}

// Get возвращает встречу вместе с участниками или ErrNotFound.
func (s *MeetingsService) Get(ctx context.Context, id uuid.UUID) (models.MeetingDetails, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return models.MeetingDetails{}, err
	}
	return s.details(ctx, m)
}

// Update полностью заменяет title, description и time встречи.
//
// Порядок проверок: поля, существование встречи, права (участник встречи).
func (s *MeetingsService) Update(ctx context.Context, principal models.User, id uuid.UUID, in MeetingInput) (models.MeetingDetails, error) {
	f, err := in.parse()
	if err != nil {
		return models.MeetingDetails{}, err
	}

	var out models.MeetingDetails
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := Authorize(principal.ID, current, ActionUpdate).Err(); err != nil {
			return err
		}

		m, err := s.meetings.Update(ctx, id, f.title, f.description, f.at)
		if err != nil {
			return err
		}
		out = models.MeetingDetails{Meeting: m, Attendees: current.Attendees}
		return nil
	})
	if err != nil {
		return models.MeetingDetails{}, err
	}
	return out, nil
}

// Delete удаляет встречу в две фазы: сначала отписывает всех участников,
// затем удаляет саму запись.
//
// Если удаление записи не удалось, обратно записываются ровно те связи,
// которые сняла первая фаза (с исходным временем записи), и наружу уходит
// ErrStorage. Восстановленное состояние коммитится.
func (s *MeetingsService) Delete(ctx context.Context, principal models.User, id uuid.UUID) error {
	var failed error

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := Authorize(principal.ID, current, ActionDelete).Err(); err != nil {
			return err
		}

		detached, err := s.meetings.DetachAll(ctx, id)
		if err != nil {
			return err
		}

		delErr := s.meetings.Delete(ctx, id)
		if delErr == nil {
			return nil
		}

		// компенсация: возвращаем всех, кого сняли, а не снимок из load
		if err := s.meetings.Restore(ctx, id, detached); err != nil {
			return errors.Join(delErr, fmt.Errorf("restore attendees: %w", err))
		}
		failed = delErr
		if !errors.Is(failed, serr.ErrStorage) {
			failed = fmt.Errorf("%w: %v", serr.ErrStorage, delErr)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return failed
}

func (s *MeetingsService) load(ctx context.Context, id uuid.UUID) (models.MeetingDetails, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return models.MeetingDetails{}, err
	}
	return s.details(ctx, m)
}

func (s *MeetingsService) details(ctx context.Context, m models.Meeting) (models.MeetingDetails, error) {
	users, err := s.meetings.ListAttendees(ctx, m.ID)
	if err != nil {
		return models.MeetingDetails{}, err
	}
	return models.MeetingDetails{Meeting: m, Attendees: users}, nil
}
