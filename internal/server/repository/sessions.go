package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// SessionsRepository отвечает за хранение и управление refresh-сессиями пользователя.
//
// Используется для:
//   - хранения refresh-токенов (в виде хэшей)
//   - реализации refresh token rotation
//   - отзыва всех сессий при повторном использовании refresh-токена
type SessionsRepository struct {
	db *sql.DB
}

// NewSessionsRepository создает новый SessionsRepository.
func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create создает новую refresh-сессию пользователя.
//
// Возвращает:
//   - id созданной сессии
//   - ErrAlreadyExists при совпадении хэша или ErrStorage при других ошибках БД
func (r *SessionsRepository) Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO sessions (user_id, refresh_hash, expires_at)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		userID, refreshHash, expiresAt,
	).Scan(&id)

	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return uuid.Nil, serr.ErrAlreadyExists
		}
		return uuid.Nil, storageErr(err)
	}
	return id, nil
}

// GetByRefreshHash возвращает сессию по хэшу refresh-токена.
//
// Возвращает:
//   - id сессии
//   - id пользователя
//   - expiresAt
//   - revokedAt (nil если активна)
//   - replacedBy (nil если не была заменена)
//
// Ошибки:
//   - ErrInvalidCredentials если сессия не найдена или ErrStorage при ошибке БД
func (r *SessionsRepository) GetByRefreshHash(ctx context.Context, refreshHash []byte) (uuid.UUID, uuid.UUID, time.Time, *time.Time, *uuid.UUID, error) {
	var (
		sessID    uuid.UUID
		userID    uuid.UUID
		expiresAt time.Time

		revokedAt sql.NullTime
		replaced  sql.NullString
	)

	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, revoked_at, replaced_by
		   FROM sessions
		  WHERE refresh_hash=$1`,
		refreshHash,
	).Scan(&sessID, &userID, &expiresAt, &revokedAt, &replaced)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, uuid.Nil, time.Time{}, nil, nil, serr.ErrInvalidCredentials
		}
		return uuid.Nil, uuid.Nil, time.Time{}, nil, nil, storageErr(err)
	}

	var revokedPtr *time.Time
	if revokedAt.Valid {
		t := revokedAt.Time
		revokedPtr = &t
	}

	var replacedPtr *uuid.UUID
	if replaced.Valid {
		if id, e := uuid.Parse(replaced.String); e == nil {
			replacedPtr = &id
		}
	}

	return sessID, userID, expiresAt, revokedPtr, replacedPtr, nil
}

// RevokeAndReplace отзывает старую refresh-сессию
// и помечает ее замененной новой.
func (r *SessionsRepository) RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE sessions
		    SET revoked_at = now(),
		        replaced_by = $2
		  WHERE id = $1
		    AND revoked_at IS NULL`,
		oldID, newID,
	)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// RevokeAllForUser отзывает все активные refresh-сессии пользователя.
func (r *SessionsRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE sessions
		    SET revoked_at = now()
		  WHERE user_id = $1
		    AND revoked_at IS NULL`,
		userID,
	)
	if err != nil {
		return storageErr(err)
	}
	return nil
}
