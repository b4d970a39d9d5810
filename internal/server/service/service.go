// Package service содержит бизнес-логику приложения (встречи и пользователи).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/config"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users    UsersRepo
	Sessions SessionsRepo
	Meetings MeetingsRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth          *AuthService
	Authenticator *TokenAuthenticator
	Meetings      *MeetingsService
	Registrations *RegistrationsService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService и TokenAuthenticator (хэширование пароля, JWT).
func NewServices(repos Repositories, tx Transactor, cfg *config.Config) *Services {
	return &Services{
		Auth:          NewAuthService(repos.Users, repos.Sessions, tx, cfg),
		Authenticator: NewTokenAuthenticator(repos.Users, cfg.Auth),
		Meetings:      NewMeetingsService(repos.Meetings, tx),
		Registrations: NewRegistrationsService(repos.Meetings, repos.Users, tx),
	}
}

// Transactor выполняет fn в одной транзакции хранилища.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UsersRepo — репозиторий пользователей (регистрация, вход, аутентификация).
type UsersRepo interface {
	Create(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (uuid.UUID, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// SessionsRepo — репозиторий refresh-сессий.
type SessionsRepo interface {
	Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error)
	GetByRefreshHash(ctx context.Context, refreshHash []byte) (id uuid.UUID, userID uuid.UUID, expiresAt time.Time, revokedAt *time.Time, replacedBy *uuid.UUID, err error)
	RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// MeetingsRepo — репозиторий встреч и участия в них.
type MeetingsRepo interface {
	Create(ctx context.Context, title, description string, at time.Time) (models.Meeting, error)
	List(ctx context.Context) ([]models.Meeting, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Meeting, error)
	Update(ctx context.Context, id uuid.UUID, title, description string, at time.Time) (models.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error

	IsAttendee(ctx context.Context, meetingID, userID uuid.UUID) (bool, error)
	ListAttendees(ctx context.Context, meetingID uuid.UUID) ([]models.User, error)
	Attach(ctx context.Context, meetingID, userID uuid.UUID) error
	Detach(ctx context.Context, meetingID, userID uuid.UUID) error
	DetachAll(ctx context.Context, meetingID uuid.UUID) ([]models.Attendance, error)
	Restore(ctx context.Context, meetingID uuid.UUID, list []models.Attendance) error
}
