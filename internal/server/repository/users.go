package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// UsersRepository — хранилище учётных данных пользователей.
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет пользователя. Занятый email — ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID

	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)

	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return uuid.Nil, serr.ErrAlreadyExists
		}
		return uuid.Nil, storageErr(err)
	}

	return id, nil
}

// GetByEmail возвращает id и хэш пароля для входа.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (uuid.UUID, string, error) {
	var (
		id   uuid.UUID
		hash string
	)

	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email=$1`,
		email,
	).Scan(&id, &hash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, "", serr.ErrNotFound
		}
		return uuid.Nil, "", storageErr(err)
	}

	return id, hash, nil
}

// GetByID возвращает пользователя без хэша пароля.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User

	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id=$1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, storageErr(err)
	}

	return u, nil
}
