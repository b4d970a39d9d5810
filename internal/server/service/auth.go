package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/config"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// AuthService реализует бизнес-логику аутентификации и управления сессиями.
//
// Ответственность:
//   - регистрация пользователей
//   - вход (sign in)
//   - выпуск access / refresh токенов
//   - обновление access токенов по refresh
//   - rotation refresh токенов
//   - reuse detection (защита от повторного использования refresh)
type AuthService struct {
	users    UsersRepo
	sessions SessionsRepo
	tx       Transactor

	hasher crypto.Hasher
	jwt    crypto.JWTConfig

	refreshTTL     time.Duration
	rotateRefresh  bool
	reuseDetection bool
}

// TokenPair представляет пару access / refresh токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, sessions SessionsRepo, tx Transactor, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tx:       tx,

		hasher: NewHasher(cfg.Password),
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},

		refreshTTL:     cfg.Auth.RefreshTTL,
		rotateRefresh:  cfg.Auth.Sessions.RotateRefresh,
		reuseDetection: cfg.Auth.Sessions.ReuseDetection,
	}
}

// NewHasher выбирает алгоритм хэширования паролей по конфигу.
// Проверка пароля работает для обоих форматов независимо от выбора.
func NewHasher(cfg config.PasswordConfig) crypto.Hasher {
	if strings.EqualFold(cfg.Hasher, "argon2id") {
		return crypto.Argon2Hasher{Params: crypto.Argon2Params{
			Time:      cfg.Argon2.Time,
			MemoryKiB: cfg.Argon2.MemoryKiB,
			Threads:   cfg.Argon2.Threads,
			KeyLen:    cfg.Argon2.KeyLen,
			SaltLen:   cfg.Argon2.SaltLen,
		}}
	}
	return crypto.BcryptHasher{Cost: cfg.Bcrypt.Cost}
}

// Register регистрирует нового пользователя.
//
// Валидация (все ошибки полей собираются вместе):
//   - name обязателен
//   - email обязателен и должен быть валидным
//   - пароль не короче 5 символов
//
// Возвращает:
//   - созданного пользователя
//   - ValidationError при некорректных данных или ErrAlreadyExists если email уже зарегистрирован
func (s *AuthService) Register(ctx context.Context, in UserInput) (models.User, error) {
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}

	var user models.User
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		id, err := s.users.Create(ctx, in.Name, in.Email, hash)
		if err != nil {
			return err
		}
		user, err = s.users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// SignIn аутентифицирует пользователя и выдаёт пару токенов.
//
// Поведение:
//   - не раскрывает факт существования email
//   - при успехе создаёт refresh-сессию
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) SignIn(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}
	// получаем юзера по email
	userID, hash, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	// проверяем пароль
	ok, err := s.hasher.Verify(password, hash)
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	if !ok {
		return TokenPair{}, serr.ErrInvalidCredentials
	}

	return s.issue(ctx, userID)
}

// Refresh обновляет access токен по refresh токену.
//
// Поддерживает:
//   - rotation refresh токенов
//   - reuse detection (отзыв всех сессий при атаке)
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials (неизвестный, просроченный или отозванный токен)
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}

	hash := crypto.HashRefreshToken(refreshToken)

	var (
		pair   TokenPair
		reused bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sessID, userID, expiresAt, revokedAt, _, err := s.sessions.GetByRefreshHash(ctx, hash)
		if err != nil {
			return err
		}

		now := time.Now()
		if expiresAt.Before(now) {
			return serr.ErrInvalidCredentials
		}

		// если токен уже отозван — значит кто-то пытается переиспользовать
		if revokedAt != nil {
			if s.reuseDetection {
				if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
					return err
				}
				// отзыв должен закоммититься, поэтому ошибку отдаём уже после транзакции
				reused = true
				return nil
			}
			return serr.ErrInvalidCredentials
		}

		access, err := crypto.NewAccessToken(userID.String(), s.jwt)
		if err != nil {
			return serr.ErrInternal
		}

		// если rotate_refresh выключен — возвращаем только новый access, refresh тот же
		if !s.rotateRefresh {
			pair = TokenPair{AccessToken: access, RefreshToken: refreshToken}
			return nil
		}

		// rotation: выдаём новый refresh, старый отзываем
		newRefresh, err := crypto.NewRefreshToken()
		if err != nil {
			return serr.ErrInternal
		}
		newID, err := s.sessions.Create(ctx, userID, crypto.HashRefreshToken(newRefresh), now.Add(s.refreshTTL))
		if err != nil {
			return err
		}
		// пометить старый как revoked и связать с новым
		if err := s.sessions.RevokeAndReplace(ctx, sessID, newID); err != nil {
			return err
		}

		pair = TokenPair{AccessToken: access, RefreshToken: newRefresh}
		return nil
	})
	if err != nil {
		return TokenPair{}, err
	}
	if reused {
		return TokenPair{}, serr.ErrInvalidCredentials
	}
	return pair, nil
}

func (s *AuthService) issue(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	access, err := crypto.NewAccessToken(userID.String(), s.jwt)
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	refresh, err := crypto.NewRefreshToken()
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	if _, err := s.sessions.Create(ctx, userID, crypto.HashRefreshToken(refresh), time.Now().Add(s.refreshTTL)); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
