// Package http реализует маршрутизацию HTTP-слоя сервера встреч.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - проверку access-токенов на защищённых маршрутах;
//   - rate limit на регистрацию и вход.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/api"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/middleware"
)

// Options — необязательные настройки роутера.
type Options struct {
	// MaxBodyBytes ограничивает размер тела запроса; 0 — без ограничения.
	MaxBodyBytes int64
	// RateLimiter, если задан, ограничивает POST /user и POST /user/signin.
	RateLimiter *middleware.RateLimiter
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования и восстановления после panic для всех запросов;
//   - публичные маршруты пользователя и чтения встреч под префиксом /api/v1;
//   - группу маршрутов, требующих bearer-токен;
//   - swagger UI на /swagger/*.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.Logger(h.Log))
	r.Use(chimw.Recoverer)
	if opts.MaxBodyBytes > 0 {
		r.Use(chimw.RequestSize(opts.MaxBodyBytes))
	}

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	limited := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		limited = opts.RateLimiter.Limit
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Публичные пути
		r.Route("/user", func(r chi.Router) {
			r.With(limited).Post("/", h.CreateUser)
			r.With(limited).Post("/signin", h.SignIn)
			r.Post("/refresh", h.Refresh)
		})
		r.Get("/meeting", h.ListMeetings)
		r.Get("/meeting/{id}", h.GetMeeting)

		// защищены пути
		r.Group(func(r chi.Router) {
			// проверка access токена
			r.Use(middleware.Authenticate(h.Svc.Authenticator))

			r.Post("/meeting", h.CreateMeeting)
			r.Put("/meeting/{id}", h.UpdateMeeting)
			r.Delete("/meeting/{id}", h.DeleteMeeting)
			r.Post("/meeting/registration", h.RegisterForMeeting)
			r.Delete("/meeting/registration/{id}", h.UnregisterFromMeeting)
		})
	})

	return r
}
