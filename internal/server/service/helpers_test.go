package service_test

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/config"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service/mocks"
)

const testSigningKey = "supersecretkeysupersecretkey123456"

// Тестовый конфиг
func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:     "test",
			Audience:   "test",
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
			Sessions: config.SessionsConfig{
				RotateRefresh:  true,
				ReuseDetection: true,
			},
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: testSigningKey,
			},
		},
		Password: config.PasswordConfig{
			Hasher: "bcrypt",
			Bcrypt: config.BcryptConfig{Cost: 4},
		},
	}
}

// passthroughTx — транзакция, которая просто вызывает fn.
func passthroughTx(ctrl *gomock.Controller) *mocks.MockTransactor {
	tx := mocks.NewMockTransactor(ctrl)
	tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
	return tx
}
