package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-meetings/internal/agent/api"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

func newServer(t *testing.T, mux *http.ServeMux) *api.Client {
	t.Helper()
	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_PostJSON_SetsHeadersAndDecodes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, float64(1), got["a"])

		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	c := newServer(t, mux)

	var resp map[string]any
	require.NoError(t, c.PostJSON(context.Background(), "/x", map[string]any{"a": 1}, &resp, "token-1"))
	require.Equal(t, true, resp["ok"])
}

func TestClient_GetJSON_NoBodyNoAuth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		require.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})
	c := newServer(t, mux)

	var resp map[string]any
	require.NoError(t, c.GetJSON(context.Background(), "/x", &resp, ""))
	require.Nil(t, resp)
}

func TestClient_ErrorResponseIsParsed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, shared.ErrorResponse{
			Msg:    "An error occurred",
			Error:  "invalid input",
			Fields: []serr.FieldError{{Field: "time", Message: "bad format"}},
		})
	})
	c := newServer(t, mux)

	err := c.PutJSON(context.Background(), "/x", map[string]string{}, nil, "t")
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, api.StatusOf(err))
	require.Equal(t, "An error occurred: invalid input\n  time: bad format", err.Error())
}

func TestClient_PlainTextError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	c := newServer(t, mux)

	err := c.DeleteJSON(context.Background(), "/x", nil, "")
	require.Equal(t, http.StatusBadGateway, api.StatusOf(err))
	require.Equal(t, "boom", err.Error())
}

func TestClient_Endpoints(t *testing.T) {
	const meetingID = "3f0e0b4e-8d3a-4c5e-9a6b-1f2e3d4c5b6a"

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/user", func(w http.ResponseWriter, r *http.Request) {
		var req shared.CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, shared.CreateUserRequest{Name: "alice", Email: "a@mail.com", Password: "secret"}, req)
		writeJSON(w, http.StatusCreated, shared.CreateUserResponse{Msg: "User created", User: shared.User{ID: "u1"}})
	})
	mux.HandleFunc("POST /api/v1/user/signin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, shared.SignInResponse{Token: "access", RefreshToken: "refresh"})
	})
	mux.HandleFunc("POST /api/v1/user/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req shared.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "refresh", req.RefreshToken)
		writeJSON(w, http.StatusOK, shared.SignInResponse{Token: "access-2", RefreshToken: "refresh-2"})
	})
	mux.HandleFunc("GET /api/v1/meeting", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, shared.MeetingListResponse{Msg: "List of all meetings"})
	})
	mux.HandleFunc("GET /api/v1/meeting/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, meetingID, r.PathValue("id"))
		writeJSON(w, http.StatusOK, shared.MeetingResponse{Msg: "Meeting information"})
	})
	mux.HandleFunc("DELETE /api/v1/meeting/registration/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusForbidden, shared.ErrorResponse{Msg: "User not registered for meeting, delete operation not successful"})
	})
	c := newServer(t, mux)
	ctx := context.Background()

	created, err := c.CreateUser(ctx, "alice", "a@mail.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", created.User.ID)

	tokens, err := c.SignIn(ctx, "a@mail.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "access", tokens.Token)

	rotated, err := c.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "refresh-2", rotated.RefreshToken)

	list, err := c.ListMeetings(ctx)
	require.NoError(t, err)
	require.Equal(t, "List of all meetings", list.Msg)

	shown, err := c.GetMeeting(ctx, meetingID)
	require.NoError(t, err)
	require.Equal(t, "Meeting information", shown.Msg)

	_, err = c.Unregister(ctx, "access", meetingID)
	require.Equal(t, http.StatusForbidden, api.StatusOf(err))
}
