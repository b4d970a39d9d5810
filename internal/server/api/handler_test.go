package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/api"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/config"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-meetings/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-meetings/internal/shared/logger"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

type testDeps struct {
	h        *api.Handler
	users    *svcmocks.MockUsersRepo
	sessions *svcmocks.MockSessionsRepo
	meetings *svcmocks.MockMeetingsRepo
}

// newTestHandler создаёт Handler с моками и конфигом через dependency injection
func newTestHandler(t *testing.T) testDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := svcmocks.NewMockUsersRepo(ctrl)
	sessions := svcmocks.NewMockSessionsRepo(ctrl)
	meetings := svcmocks.NewMockMeetingsRepo(ctrl)

	tx := svcmocks.NewMockTransactor(ctrl)
	tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }).
		AnyTimes()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Issuer:     "issuer",
			Audience:   "audience",
			AccessTTL:  time.Minute,
			RefreshTTL: 24 * time.Hour,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
			Sessions: config.SessionsConfig{RotateRefresh: true, ReuseDetection: true},
		},
		Password: config.PasswordConfig{Hasher: "bcrypt", Bcrypt: config.BcryptConfig{Cost: 4}},
	}

	svc := service.NewServices(service.Repositories{Users: users, Sessions: sessions, Meetings: meetings}, tx, cfg)
	log := logger.New(logger.Options{Dir: t.TempDir()})

	return testDeps{h: api.NewHandler(svc, log), users: users, sessions: sessions, meetings: meetings}
}

func doJSON(t *testing.T, h http.HandlerFunc, method string, body any, principal *models.User) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/", &buf)
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), *principal))
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestStatusOf(t *testing.T) {
	var v serr.ValidationError
	v.Add("time", "bad")

	tests := []struct {
		err  error
		want int
	}{
		{&v, http.StatusBadRequest},
		{serr.ErrBadJSON, http.StatusBadRequest},
		{serr.ErrInvalidCredentials, http.StatusUnauthorized},
		{serr.ErrPrincipalNotFound, http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", serr.ErrUnauthorized, serr.ErrNotRegistered), http.StatusForbidden},
		{serr.ErrNotFound, http.StatusNotFound},
		{serr.ErrAlreadyRegistered, http.StatusConflict},
		{serr.ErrAlreadyExists, http.StatusConflict},
		{fmt.Errorf("%w: connection reset", serr.ErrStorage), http.StatusInternalServerError},
		{errors.New("anything"), http.StatusInternalServerError},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, api.StatusOf(tt.err), tt.err.Error())
	}
}

// детали ошибки хранилища не уходят клиенту
func TestWriteError_HidesStorageDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	api.WriteError(rr, http.StatusInternalServerError, "An error occurred",
		fmt.Errorf("%w: password authentication failed for user postgres", serr.ErrStorage))

	resp := decode[shared.ErrorResponse](t, rr)
	require.Equal(t, "An error occurred", resp.Msg)
	require.Equal(t, serr.ErrInternal.Error(), resp.Error)
	require.Equal(t, api.JsonContentType, rr.Header().Get(api.ContentType))
}

func TestCreateUser_Created(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.users.EXPECT().Create(gomock.Any(), "Alice", "alice@mail.com", gomock.Any()).Return(id, nil)
	d.users.EXPECT().GetByID(gomock.Any(), id).Return(models.User{ID: id, Name: "Alice", Email: "alice@mail.com"}, nil)

	rr := doJSON(t, d.h.CreateUser, http.MethodPost, shared.CreateUserRequest{
		Name: "Alice", Email: "alice@mail.com", Password: "12345",
	}, nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decode[shared.CreateUserResponse](t, rr)
	require.Equal(t, "User created", resp.Msg)
	require.Equal(t, id.String(), resp.User.ID)
	require.NotNil(t, resp.SignIn)
	require.Equal(t, "api/v1/user/signin", resp.SignIn.Href)
	require.Equal(t, "POST", resp.SignIn.Method)
}

func TestCreateUser_ValidationFields(t *testing.T) {
	d := newTestHandler(t)

	rr := doJSON(t, d.h.CreateUser, http.MethodPost, shared.CreateUserRequest{Email: "bad"}, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[shared.ErrorResponse](t, rr)
	require.Equal(t, serr.ErrInvalidInput.Error(), resp.Error)
	require.Len(t, resp.Fields, 3)
}

func TestCreateUser_BadJSON(t *testing.T) {
	d := newTestHandler(t)

	rr := doJSON(t, d.h.CreateUser, http.MethodPost, "{not json", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, serr.ErrBadJSON.Error(), decode[shared.ErrorResponse](t, rr).Error)
}

func TestCreateUser_Conflict(t *testing.T) {
	d := newTestHandler(t)
	d.users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(uuid.Nil, serr.ErrAlreadyExists)

	rr := doJSON(t, d.h.CreateUser, http.MethodPost, shared.CreateUserRequest{
		Name: "Alice", Email: "alice@mail.com", Password: "12345",
	}, nil)
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestSignIn(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()
	hash, err := crypto.BcryptHasher{Cost: 4}.Hash("12345")
	require.NoError(t, err)

	d.users.EXPECT().GetByEmail(gomock.Any(), "alice@mail.com").Return(id, hash, nil)
	d.sessions.EXPECT().Create(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(uuid.New(), nil)

	rr := doJSON(t, d.h.SignIn, http.MethodPost, shared.SignInRequest{Email: "alice@mail.com", Password: "12345"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[shared.SignInResponse](t, rr)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)

	d.users.EXPECT().GetByEmail(gomock.Any(), "alice@mail.com").Return(id, hash, nil)
	rr = doJSON(t, d.h.SignIn, http.MethodPost, shared.SignInRequest{Email: "alice@mail.com", Password: "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefresh_Unknown(t *testing.T) {
	d := newTestHandler(t)
	d.sessions.EXPECT().GetByRefreshHash(gomock.Any(), gomock.Any()).
		Return(uuid.Nil, uuid.Nil, time.Time{}, nil, nil, serr.ErrInvalidCredentials)

	rr := doJSON(t, d.h.Refresh, http.MethodPost, shared.RefreshRequest{RefreshToken: "nope"}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListMeetings_StorageError(t *testing.T) {
	d := newTestHandler(t)
	d.meetings.EXPECT().List(gomock.Any()).Return(nil, fmt.Errorf("%w: timeout", serr.ErrStorage))

	rr := doJSON(t, d.h.ListMeetings, http.MethodGet, "", nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCreateMeeting(t *testing.T) {
	d := newTestHandler(t)
	alice := models.User{ID: uuid.New(), Name: "Alice"}
	at := time.Date(2018, 1, 15, 13, 30, 0, 0, time.UTC)
	m := models.Meeting{ID: uuid.New(), Title: "Planning", Time: at}

	d.meetings.EXPECT().Create(gomock.Any(), "Planning", "sprint planning", at).Return(m, nil)
	d.meetings.EXPECT().Attach(gomock.Any(), m.ID, alice.ID).Return(nil)
	d.meetings.EXPECT().ListAttendees(gomock.Any(), m.ID).Return([]models.User{alice}, nil)

	rr := doJSON(t, d.h.CreateMeeting, http.MethodPost, shared.MeetingRequest{Title: "Planning", Description: "sprint planning", Time: "201801151330UTC"}, &alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decode[shared.MeetingResponse](t, rr)
	require.Equal(t, "Meeting created", resp.Msg)
	require.Len(t, resp.Meeting.Users, 1)
	require.Equal(t, "api/v1/meeting/"+m.ID.String(), resp.Meeting.ViewMeeting.Href)
}

// невалидное время — 400 с полем time, хранилище не трогается
func TestCreateMeeting_BadTime(t *testing.T) {
	d := newTestHandler(t)
	alice := models.User{ID: uuid.New()}

	rr := doJSON(t, d.h.CreateMeeting, http.MethodPost, shared.MeetingRequest{Title: "Planning", Description: "sprint planning", Time: "tomorrow"}, &alice)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decode[shared.ErrorResponse](t, rr)
	require.Len(t, resp.Fields, 1)
	require.Equal(t, "time", resp.Fields[0].Field)
}

func TestCreateMeeting_NoPrincipal(t *testing.T) {
	d := newTestHandler(t)

	rr := doJSON(t, d.h.CreateMeeting, http.MethodPost, shared.MeetingRequest{}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegisterForMeeting_BadIDs(t *testing.T) {
	d := newTestHandler(t)
	alice := models.User{ID: uuid.New()}

	rr := doJSON(t, d.h.RegisterForMeeting, http.MethodPost, shared.RegistrationRequest{MeetingID: "1", UserID: "2"}, &alice)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Len(t, decode[shared.ErrorResponse](t, rr).Fields, 2)
}
