// HTTP-хендлеры регистрации, входа, refresh токенов
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/service"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// CreateUser обрабатывает регистрацию пользователя.
//
// @Summary      Create user
// @Description  Registers a new user. Password must be at least 5 characters.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body shared.CreateUserRequest true "User data"
// @Success      201 {object} shared.CreateUserResponse
// @Failure      400 {object} shared.ErrorResponse "Invalid input or bad JSON"
// @Failure      409 {object} shared.ErrorResponse "Email already registered"
// @Failure      429 {object} shared.ErrorResponse "Too many requests"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req shared.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "An error occurred", err)
		return
	}

	user, err := h.Svc.Auth.Register(r.Context(), service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, "An error occurred", err)
		return
	}

	writeJSON(w, http.StatusCreated, shared.CreateUserResponse{
		Msg:    "User created",
		User:   toUser(user),
		SignIn: signInLink(),
	})
}

// SignIn обрабатывает вход пользователя и выдачу пары токенов.
//
// @Summary      Sign in
// @Description  Returns a JWT access token and a refresh token.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body shared.SignInRequest true "Credentials"
// @Success      200 {object} shared.SignInResponse
// @Failure      400 {object} shared.ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} shared.ErrorResponse "Invalid credentials"
// @Failure      429 {object} shared.ErrorResponse "Too many requests"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /user/signin [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req shared.SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Could not sign in", err)
		return
	}

	pair, err := h.Svc.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "Could not sign in", err)
		return
	}

	writeJSON(w, http.StatusOK, shared.SignInResponse{
		Msg:          "User signed in",
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh обрабатывает обновление access-токена по refresh-токену.
//
// @Summary      Refresh tokens
// @Description  Exchanges a refresh token for a new token pair (refresh token rotation).
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body shared.RefreshRequest true "Refresh token"
// @Success      200 {object} shared.SignInResponse
// @Failure      400 {object} shared.ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} shared.ErrorResponse "Refresh token invalid, expired or revoked"
// @Failure      500 {object} shared.ErrorResponse "Internal server error"
// @Router       /user/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req shared.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Could not refresh token", err)
		return
	}

	pair, err := h.Svc.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, r, "Could not refresh token", err)
		return
	}

	writeJSON(w, http.StatusOK, shared.SignInResponse{
		Msg:          "Token refreshed",
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
