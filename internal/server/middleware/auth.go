// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// principalKey — ключ контекста, под которым хранится аутентифицированный пользователь.
const principalKey ctxKey = "principal"

// Authenticator проверяет bearer-токен и возвращает его владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// PrincipalFromContext извлекает аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - пользователя
//   - false, если пользователь не аутентифицирован
func PrincipalFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(principalKey).(models.User)
	return u, ok
}

// WithPrincipal кладёт пользователя в контекст.
func WithPrincipal(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, principalKey, u)
}

// Authenticate возвращает HTTP middleware для проверки access-токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - передаёт токен в auth
//   - сохраняет пользователя в context.Context
//
// Неверный токен или удалённый пользователь — 401 Unauthorized.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				writeUnauthorized(w, "missing bearer token", serr.ErrInvalidCredentials)
				return
			}

			user, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, serr.ErrPrincipalNotFound):
					writeUnauthorized(w, "user no longer exists", serr.ErrPrincipalNotFound)
				case errors.Is(err, serr.ErrInvalidCredentials):
					writeUnauthorized(w, "invalid token", serr.ErrInvalidCredentials)
				default:
					writeJSON(w, http.StatusInternalServerError, shared.ErrorResponse{
						Msg:   "authentication failed",
						Error: serr.ErrInternal.Error(),
					})
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), user)))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, msg string, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="meetings"`)
	writeJSON(w, http.StatusUnauthorized, shared.ErrorResponse{Msg: msg, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
