package crypto_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-meetings/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

const testKey = "supersecretkeysupersecretkey123456"

func testJWTConfig() crypt.JWTConfig {
	return crypt.JWTConfig{
		Issuer:     "meetings",
		Audience:   "meetings-cli",
		SigningKey: testKey,
		AccessTTL:  5 * time.Minute,
	}
}

func TestNewAccessToken_VerifyRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	tokenStr, err := crypt.NewAccessToken("user-123", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	v := crypt.NewJWTVerifier(cfg.SigningKey, cfg.Issuer, cfg.Audience)
	sub, err := v.Verify(tokenStr)
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	cfg.AccessTTL = -time.Minute

	tokenStr, err := crypt.NewAccessToken("user-123", cfg)
	require.NoError(t, err)

	_, err = crypt.NewJWTVerifier(cfg.SigningKey, "", "").Verify(tokenStr)
	require.ErrorIs(t, err, serr.ErrInvalidCredentials)
	require.ErrorIs(t, err, crypt.ErrTokenExpired)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	good, err := crypt.NewAccessToken("user-123", cfg)
	require.NoError(t, err)

	noSub, err := crypt.NewAccessToken("", cfg)
	require.NoError(t, err)

	// подпись другим алгоритмом
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier *crypt.JWTVerifier
		token    string
	}{
		{"empty", crypt.NewJWTVerifier(testKey, "", ""), "  "},
		{"garbage", crypt.NewJWTVerifier(testKey, "", ""), "not.a.jwt"},
		{"wrong key", crypt.NewJWTVerifier("another-key-another-key-another-key", "", ""), good},
		{"wrong issuer", crypt.NewJWTVerifier(testKey, "someone-else", ""), good},
		{"wrong audience", crypt.NewJWTVerifier(testKey, "", "browser"), good},
		{"empty subject", crypt.NewJWTVerifier(testKey, "", ""), noSub},
		{"wrong method", crypt.NewJWTVerifier(testKey, "", ""), hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Verify(tt.token)
			require.ErrorIs(t, err, serr.ErrInvalidCredentials)
		})
	}
}
