package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/api"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/config"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service/servicetest"
	"github.com/IvanChernomyrdin/go-meetings/internal/shared/logger"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

type testServer struct {
	t     *testing.T
	srv   *httptest.Server
	store *servicetest.Store
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

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

	store := servicetest.NewStore()
	repos := service.Repositories{Users: store.Users(), Sessions: store.Sessions(), Meetings: store.Meetings()}
	svc := service.NewServices(repos, store, cfg)
	h := api.NewHandler(svc, logger.New(logger.Options{Dir: t.TempDir()}))

	srv := httptest.NewServer(NewRouter(h, opts))
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, store: store}
}

// do выполняет запрос и декодирует ответ в out (если out != nil).
func (s *testServer) do(method, path, token string, body any, out any) int {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) signUp(name string) (shared.User, string) {
	s.t.Helper()

	var created shared.CreateUserResponse
	code := s.do(http.MethodPost, "/api/v1/user", "", shared.CreateUserRequest{
		Name: name, Email: name + "@mail.com", Password: "secret",
	}, &created)
	require.Equal(s.t, http.StatusCreated, code)

	var tokens shared.SignInResponse
	code = s.do(http.MethodPost, "/api/v1/user/signin", "", shared.SignInRequest{
		Email: name + "@mail.com", Password: "secret",
	}, &tokens)
	require.Equal(s.t, http.StatusOK, code)
	return created.User, tokens.Token
}

// Полный сценарий: A создаёт встречу, записывает B, повторная запись — 409,
// B отписывается, A удаляет встречу.
func TestRouter_EndToEnd(t *testing.T) {
	s := newTestServer(t, Options{})

	_, tokenA := s.signUp("alice")
	bob, tokenB := s.signUp("bob")

	var created shared.MeetingResponse
	code := s.do(http.MethodPost, "/api/v1/meeting", tokenA, shared.MeetingRequest{
		Title: "Planning", Description: "Q1", Time: "201801151330UTC",
	}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, created.Meeting.Users, 1)
	meetingID := created.Meeting.ID

	var reg shared.RegistrationResponse
	code = s.do(http.MethodPost, "/api/v1/meeting/registration", tokenA, shared.RegistrationRequest{
		MeetingID: meetingID, UserID: bob.ID,
	}, &reg)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, reg.Meeting.Users, 2)
	require.Equal(t, "api/v1/meeting/registration/"+meetingID, reg.Unregister.Href)

	var conflict shared.ErrorResponse
	code = s.do(http.MethodPost, "/api/v1/meeting/registration", tokenA, shared.RegistrationRequest{
		MeetingID: meetingID, UserID: bob.ID,
	}, &conflict)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "User is already registered for meeting", conflict.Msg)

	var shown shared.MeetingResponse
	code = s.do(http.MethodGet, "/api/v1/meeting/"+meetingID, "", nil, &shown)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, shown.Meeting.Users, 2)

	code = s.do(http.MethodDelete, "/api/v1/meeting/registration/"+meetingID, tokenB, nil, &reg)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, reg.Meeting.Users, 1)
	require.Equal(t, bob.ID, reg.User.ID)

	// B уже не участник — ни отписаться, ни удалить
	code = s.do(http.MethodDelete, "/api/v1/meeting/registration/"+meetingID, tokenB, nil, nil)
	require.Equal(t, http.StatusForbidden, code)
	code = s.do(http.MethodDelete, "/api/v1/meeting/"+meetingID, tokenB, nil, nil)
	require.Equal(t, http.StatusForbidden, code)

	var deleted shared.MeetingDeletedResponse
	code = s.do(http.MethodDelete, "/api/v1/meeting/"+meetingID, tokenA, nil, &deleted)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Meeting deleted", deleted.Msg)
	require.Equal(t, "POST", deleted.Create.Method)

	var list shared.MeetingListResponse
	code = s.do(http.MethodGet, "/api/v1/meeting", "", nil, &list)
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, list.Meetings)

	code = s.do(http.MethodGet, "/api/v1/meeting/"+meetingID, "", nil, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestRouter_UpdateMeeting(t *testing.T) {
	s := newTestServer(t, Options{})
	_, tokenA := s.signUp("alice")
	_, tokenC := s.signUp("carol")

	var created shared.MeetingResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/meeting", tokenA,
		shared.MeetingRequest{Title: "Planning", Description: "sprint planning", Time: "201801151330UTC"}, &created))
	path := "/api/v1/meeting/" + created.Meeting.ID

	update := shared.MeetingRequest{Title: "Retro", Description: "retro notes", Time: "20180116090000Europe/Berlin"}
	require.Equal(t, http.StatusForbidden, s.do(http.MethodPut, path, tokenC, update, nil))

	var updated shared.MeetingResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, path, tokenA, update, &updated))
	require.Equal(t, "Retro", updated.Meeting.Title)
	require.True(t, time.Date(2018, 1, 16, 8, 0, 0, 0, time.UTC).Equal(updated.Meeting.Time))

	var bad shared.ErrorResponse
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, path, tokenA,
		shared.MeetingRequest{Title: "Retro", Description: "retro notes", Time: "2018-01-16"}, &bad))
	require.Len(t, bad.Fields, 1)
	require.Equal(t, "time", bad.Fields[0].Field)

	bad = shared.ErrorResponse{}
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, path, tokenA,
		shared.MeetingRequest{Title: "Retro", Description: " ", Time: "201801160900UTC"}, &bad))
	require.Len(t, bad.Fields, 1)
	require.Equal(t, "description", bad.Fields[0].Field)

	require.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/v1/meeting/not-a-uuid", tokenA, update, nil))
}

// удаление записи упало — 500, участники на месте
func TestRouter_DeleteMeeting_Compensated(t *testing.T) {
	s := newTestServer(t, Options{})
	_, tokenA := s.signUp("alice")
	bob, _ := s.signUp("bob")

	var created shared.MeetingResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/meeting", tokenA,
		shared.MeetingRequest{Title: "Planning", Description: "sprint planning", Time: "201801151330UTC"}, &created))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/meeting/registration", tokenA,
		shared.RegistrationRequest{MeetingID: created.Meeting.ID, UserID: bob.ID}, nil))

	s.store.FailDelete = errors.New("disk full")

	var failed shared.ErrorResponse
	code := s.do(http.MethodDelete, "/api/v1/meeting/"+created.Meeting.ID, tokenA, nil, &failed)
	require.Equal(t, http.StatusInternalServerError, code)
	require.NotContains(t, failed.Error, "disk full")

	var shown shared.MeetingResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/meeting/"+created.Meeting.ID, "", nil, &shown))
	require.Len(t, shown.Meeting.Users, 2)
}

func TestRouter_Unauthorized(t *testing.T) {
	s := newTestServer(t, Options{})

	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/meeting", "", shared.MeetingRequest{}, nil))
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/meeting", "garbage", shared.MeetingRequest{}, nil))
}

// токен корректен, но пользователя уже нет
func TestRouter_PrincipalDeleted(t *testing.T) {
	s := newTestServer(t, Options{})
	alice, token := s.signUp("alice")

	id := mustUUID(t, alice.ID)
	s.store.Users().Delete(id)

	var resp shared.ErrorResponse
	code := s.do(http.MethodPost, "/api/v1/meeting", token, shared.MeetingRequest{Title: "x", Description: "y", Time: "201801151330UTC"}, &resp)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "principal not found", resp.Error)
}

func TestRouter_RefreshRotation(t *testing.T) {
	s := newTestServer(t, Options{})
	_, _ = s.signUp("alice")

	var tokens shared.SignInResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/user/signin", "",
		shared.SignInRequest{Email: "alice@mail.com", Password: "secret"}, &tokens))

	var rotated shared.SignInResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/user/refresh", "",
		shared.RefreshRequest{RefreshToken: tokens.RefreshToken}, &rotated))
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// старый refresh повторно — отказ и отзыв всех сессий
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/user/refresh", "",
		shared.RefreshRequest{RefreshToken: tokens.RefreshToken}, nil))
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/user/refresh", "",
		shared.RefreshRequest{RefreshToken: rotated.RefreshToken}, nil))
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimiter: middleware.NewRateLimiter(0.001, 1, time.Minute)})

	body := shared.SignInRequest{Email: "nobody@mail.com", Password: "whatever"}
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/user/signin", "", body, nil))
	require.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/v1/user/signin", "", body, nil))

	// чтение встреч не ограничивается
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/meeting", "", nil, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/meeting", "", nil, nil))
}

func TestRouter_MaxBodyBytes(t *testing.T) {
	s := newTestServer(t, Options{MaxBodyBytes: 64})

	body := shared.CreateUserRequest{Name: strings.Repeat("a", 200), Email: "a@mail.com", Password: "secret"}
	require.Equal(t, http.StatusRequestEntityTooLarge, s.do(http.MethodPost, "/api/v1/user", "", body, nil))
}

func TestRouter_Swagger(t *testing.T) {
	s := newTestServer(t, Options{})

	resp, err := s.srv.Client().Get(s.srv.URL + "/swagger/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
