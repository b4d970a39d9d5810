package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/config"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// TokenAuthenticator превращает bearer-токен в пользователя.
//
// Ничего не меняет в хранилище. Передаётся в middleware явно.
type TokenAuthenticator struct {
	verifier *crypto.JWTVerifier
	users    UsersRepo
}

// NewTokenAuthenticator создаёт TokenAuthenticator по настройкам auth.
func NewTokenAuthenticator(users UsersRepo, cfg config.AuthConfig) *TokenAuthenticator {
	return &TokenAuthenticator{
		verifier: crypto.NewJWTVerifier(cfg.JWT.SigningKey, cfg.Issuer, cfg.Audience),
		users:    users,
	}
}

// Authenticate проверяет токен и находит его владельца.
//
// Ошибки:
//   - ErrInvalidCredentials — подпись, срок, issuer/audience или subject не прошли проверку
//   - ErrPrincipalNotFound — токен корректен, но пользователя уже нет
func (a *TokenAuthenticator) Authenticate(ctx context.Context, token string) (models.User, error) {
	sub, err := a.verifier.Verify(token)
	if err != nil {
		return models.User{}, err
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return models.User{}, serr.ErrInvalidCredentials
	}

	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrPrincipalNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
