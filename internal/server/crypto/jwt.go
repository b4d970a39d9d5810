// Package crypto содержит криптографические примитивы сервера.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и проверку JWT access-токенов;
//   - хэширование паролей (argon2id, bcrypt);
//   - генерацию refresh-токенов.
package crypto

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// JWTConfig описывает параметры генерации JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит стандартные RegisteredClaims (iss, aud, sub, iat, exp).
// Используется алгоритм подписи HS256.
func NewAccessToken(userID string, cfg JWTConfig) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Audience:  []string{cfg.Audience},
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// JWTVerifier инкапсулирует параметры проверки JWT access-токенов.
type JWTVerifier struct {
	SigningKey string // симметричный ключ для подписи (HS256)
	Issuer     string // ожидаемый issuer (опционально)
	Audience   string // ожидаемая audience (опционально)
}

// NewJWTVerifier создаёт новый JWTVerifier с заданными параметрами.
func NewJWTVerifier(signingKey, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{SigningKey: signingKey, Issuer: issuer, Audience: audience}
}

// ErrTokenExpired — токен подписан верно, но срок его жизни истёк.
// Всегда идёт в паре с ErrInvalidCredentials.
var ErrTokenExpired = errors.New("token expired")

// Verify проверяет подпись, срок жизни, issuer и audience токена
// и возвращает subject (id пользователя).
//
// Любая проблема с токеном — serr.ErrInvalidCredentials.
func (v *JWTVerifier) Verify(tokenStr string) (string, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return "", serr.ErrInvalidCredentials
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(v.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.Join(serr.ErrInvalidCredentials, ErrTokenExpired)
		}
		return "", serr.ErrInvalidCredentials
	}

	if v.Issuer != "" && claims.Issuer != v.Issuer {
		return "", serr.ErrInvalidCredentials
	}
	if v.Audience != "" && !slices.Contains(claims.Audience, v.Audience) {
		return "", serr.ErrInvalidCredentials
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", serr.ErrInvalidCredentials
	}
	return sub, nil
}
