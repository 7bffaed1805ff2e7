package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestCreateUserDecodesResponse(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("nickname"); got != "alice" {
			t.Errorf("expected nickname=alice, got %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1, "nickname": "alice"}`))
	}))
	defer srv.Close()

	user, err := client.CreateUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID != 1 || user.Nickname != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestNotFoundMapsToErrNotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "User not found"}`))
	}))
	defer srv.Close()

	_, err := client.GetUser(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateStatusesMapToErrDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"bad request", http.StatusBadRequest},
		{"conflict", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"detail": "Nickname already exists"}`))
			}))
			defer srv.Close()

			_, err := client.CreateUser(context.Background(), "alice")
			if !errors.Is(err, ErrDuplicate) {
				t.Fatalf("expected ErrDuplicate, got %v", err)
			}
		})
	}
}

func TestServerErrorMapsToRemoteError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "Internal server error"}`))
	}))
	defer srv.Close()

	_, err := client.GetTracks(context.Background())
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected *RemoteError, got %v", err)
	}
	if remoteErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", remoteErr.Status)
	}
	if remoteErr.Detail != "Internal server error" {
		t.Errorf("expected detail from body, got %q", remoteErr.Detail)
	}
}

func TestUnreachableServerMapsToTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, time.Second)

	_, err := client.GetTracks(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
}

func TestUserPointsDecodesBareNumber(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user-points/5" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`120`))
	}))
	defer srv.Close()

	points, err := client.UserPoints(context.Background(), 5)
	if err != nil {
		t.Fatalf("points: %v", err)
	}
	if points != 120 {
		t.Errorf("expected 120, got %d", points)
	}
}

func TestGetUserByNicknameEscapesPath(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/users/by-nickname/caf%C3%A9%20fan" {
			t.Errorf("unexpected escaped path %s", r.URL.EscapedPath())
		}
		w.Write([]byte(`{"id": 2, "nickname": "café fan"}`))
	}))
	defer srv.Close()

	user, err := client.GetUserByNickname(context.Background(), "café fan")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.Nickname != "café fan" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestLeaderboardPreservesOrder(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"nickname": "alice", "points": 120},
			{"nickname": "bob", "points": 85}
		]`))
	}))
	defer srv.Close()

	entries, err := client.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].Nickname != "alice" || entries[1].Nickname != "bob" {
		t.Errorf("unexpected entries: %v", entries)
	}
}
