// В этом файле описаны методы клиента для работы
// с эндпоинтами пользователя: регистрация, вход и обновление токенов.
package api

import (
	"context"

	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// PathPrefix — общий префикс маршрутов API.
const PathPrefix = "/api/v1"

// CreateUser регистрирует пользователя: POST /api/v1/user.
func (c *Client) CreateUser(ctx context.Context, name, email, password string) (shared.CreateUserResponse, error) {
	var resp shared.CreateUserResponse
	err := c.PostJSON(ctx, PathPrefix+"/user", shared.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &resp, "")
	return resp, err
}

// SignIn выполняет вход и получает пару токенов: POST /api/v1/user/signin.
func (c *Client) SignIn(ctx context.Context, email, password string) (shared.SignInResponse, error) {
	var resp shared.SignInResponse
	err := c.PostJSON(ctx, PathPrefix+"/user/signin", shared.SignInRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Refresh обновляет пару токенов по refresh токену: POST /api/v1/user/refresh.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (shared.SignInResponse, error) {
	var resp shared.SignInResponse
	err := c.PostJSON(ctx, PathPrefix+"/user/refresh", shared.RefreshRequest{RefreshToken: refreshToken}, &resp, "")
	return resp, err
}
