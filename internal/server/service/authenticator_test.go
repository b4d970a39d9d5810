package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

func newAuthenticator(t *testing.T) (*service.TokenAuthenticator, *mocks.MockUsersRepo) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)
	return service.NewTokenAuthenticator(users, testConfig().Auth), users
}

func token(t *testing.T, sub string, ttl time.Duration, key string) string {
	t.Helper()
	tok, err := crypto.NewAccessToken(sub, crypto.JWTConfig{
		Issuer:     "test",
		Audience:   "test",
		SigningKey: key,
		AccessTTL:  ttl,
	})
	require.NoError(t, err)
	return tok
}

func TestTokenAuthenticator_OK(t *testing.T) {
	auth, users := newAuthenticator(t)
	id := uuid.New()

	users.EXPECT().
		GetByID(gomock.Any(), id).
		Return(models.User{ID: id, Name: "Alice"}, nil)

	u, err := auth.Authenticate(context.Background(), token(t, id.String(), time.Minute, testSigningKey))
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
}

// пользователь удалён после выдачи токена
func TestTokenAuthenticator_PrincipalNotFound(t *testing.T) {
	auth, users := newAuthenticator(t)
	id := uuid.New()

	users.EXPECT().
		GetByID(gomock.Any(), id).
		Return(models.User{}, serr.ErrNotFound)

	_, err := auth.Authenticate(context.Background(), token(t, id.String(), time.Minute, testSigningKey))
	require.ErrorIs(t, err, serr.ErrPrincipalNotFound)
	require.NotErrorIs(t, err, serr.ErrInvalidCredentials)
}

func TestTokenAuthenticator_InvalidCredentials(t *testing.T) {
	auth, _ := newAuthenticator(t)

	cases := map[string]string{
		"garbage":       "not.a.jwt",
		"empty":         "",
		"wrong key":     token(t, uuid.NewString(), time.Minute, "another-key-another-key-another-key"),
		"expired":       token(t, uuid.NewString(), -time.Minute, testSigningKey),
		"non-uuid user": token(t, "42", time.Minute, testSigningKey),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Authenticate(context.Background(), tok)
			require.ErrorIs(t, err, serr.ErrInvalidCredentials)
		})
	}
}
