// Package models содержит модели HTTP API, общие для сервера и CLI-клиента.
//
// Сущности (User, Meeting) не содержат гипермедиа-подсказок:
// ссылки (Link) добавляются отдельным слоем формирования ответа.
package models

import (
	"time"

	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// User — публичное представление пользователя. Хэш пароля никогда не отдаётся.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Meeting — публичное представление встречи.
//
// Users заполняется только там, где ответ содержит список участников
// (GET /meeting/{id}).
type Meeting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Users       []User    `json:"users,omitempty"`
}

// Link — гипермедиа-подсказка о следующем возможном действии.
type Link struct {
	Href   string `json:"href"`
	Method string `json:"method"`
	Params string `json:"params,omitempty"`
}

// CreateUserRequest — тело POST /user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserResponse — ответ POST /user.
type CreateUserResponse struct {
	Msg    string `json:"msg"`
	User   User   `json:"user"`
	SignIn *Link  `json:"signin,omitempty"`
}

// SignInRequest — тело POST /user/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse — ответ POST /user/signin и POST /user/refresh.
type SignInResponse struct {
	Msg          string `json:"msg,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest — тело POST /user/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MeetingRequest — тело POST /meeting и PUT /meeting/{id}.
//
// Time передаётся строкой фиксированного формата YYYYMMDDHHMM[SS]<zone>,
// например "201801151330UTC".
type MeetingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// MeetingItem — встреча в ответе вместе с подсказкой, как её посмотреть.
type MeetingItem struct {
	Meeting
	ViewMeeting *Link `json:"view_meeting,omitempty"`
}

// MeetingResponse — ответ с одной встречей.
type MeetingResponse struct {
	Msg     string      `json:"msg"`
	Meeting MeetingItem `json:"meeting"`
}

// MeetingListResponse — ответ GET /meeting.
type MeetingListResponse struct {
	Msg      string        `json:"msg"`
	Meetings []MeetingItem `json:"meetings"`
}

// MeetingDeletedResponse — ответ DELETE /meeting/{id}.
type MeetingDeletedResponse struct {
	Msg    string `json:"msg"`
	Create *Link  `json:"create,omitempty"`
}

// RegistrationRequest — тело POST /meeting/registration.
type RegistrationRequest struct {
	MeetingID string `json:"meeting_id"`
	UserID    string `json:"user_id"`
}

// RegistrationResponse — ответ на запись/отписку: обновлённая пара встреча/пользователь.
type RegistrationResponse struct {
	Msg        string  `json:"msg"`
	Meeting    Meeting `json:"meeting"`
	User       User    `json:"user"`
	Register   *Link   `json:"register,omitempty"`
	Unregister *Link   `json:"unregister,omitempty"`
}

// ErrorResponse стандартный формат ошибки API.
type ErrorResponse struct {
	Msg    string            `json:"msg"`
	Error  string            `json:"error"`
	Fields []serr.FieldError `json:"fields,omitempty"`
}
