package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ellavondegurechaff/fankee/fankee"
	"github.com/ellavondegurechaff/fankee/fankee/database/models"
)

// In-memory repositories backing the route tests. Not-found is signalled the
// same way the real ones do, with sql.ErrNoRows.
type memUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int64]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *memUserRepo) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	for _, user := range r.users {
		if user.Nickname == nickname {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memUserRepo) GetAll(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *memUserRepo) Delete(ctx context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

type memTrackRepo struct {
	tracks map[int64]*models.Track
}

func (r *memTrackRepo) Create(ctx context.Context, track *models.Track) error {
	track.ID = int64(len(r.tracks) + 1)
	r.tracks[track.ID] = track
	return nil
}

func (r *memTrackRepo) GetByID(ctx context.Context, id int64) (*models.Track, error) {
	track, ok := r.tracks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return track, nil
}

func (r *memTrackRepo) GetAll(ctx context.Context) ([]*models.Track, error) {
	tracks := make([]*models.Track, 0, len(r.tracks))
	for _, track := range r.tracks {
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func (r *memTrackRepo) Update(ctx context.Context, track *models.Track) error { return nil }
func (r *memTrackRepo) Delete(ctx context.Context, id int64) error {
	delete(r.tracks, id)
	return nil
}

type memMissionRepo struct {
	missions map[int64]*models.Mission
}

func (r *memMissionRepo) Create(ctx context.Context, mission *models.Mission) error {
	mission.ID = int64(len(r.missions) + 1)
	r.missions[mission.ID] = mission
	return nil
}

func (r *memMissionRepo) GetByID(ctx context.Context, id int64) (*models.Mission, error) {
	mission, ok := r.missions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return mission, nil
}

func (r *memMissionRepo) GetAll(ctx context.Context) ([]*models.Mission, error) {
	missions := make([]*models.Mission, 0, len(r.missions))
	for _, mission := range r.missions {
		missions = append(missions, mission)
	}
	return missions, nil
}

func (r *memMissionRepo) GetByTrackID(ctx context.Context, trackID int64) ([]*models.Mission, error) {
	var missions []*models.Mission
	for _, mission := range r.missions {
		if mission.TrackID == trackID {
			missions = append(missions, mission)
		}
	}
	return missions, nil
}

func (r *memMissionRepo) Update(ctx context.Context, mission *models.Mission) error { return nil }
func (r *memMissionRepo) Delete(ctx context.Context, id int64) error {
	delete(r.missions, id)
	return nil
}

type memCompletionRepo struct {
	nextID      int64
	completions map[int64]*models.CompletedMission
	points      map[int64]int64
	leaderboard []models.LeaderboardEntry
}

func newMemCompletionRepo() *memCompletionRepo {
	return &memCompletionRepo{
		nextID:      1,
		completions: make(map[int64]*models.CompletedMission),
		points:      make(map[int64]int64),
	}
}

func (r *memCompletionRepo) Create(ctx context.Context, completion *models.CompletedMission) error {
	completion.ID = r.nextID
	r.nextID++
	r.completions[completion.ID] = completion
	return nil
}

func (r *memCompletionRepo) GetByID(ctx context.Context, id int64) (*models.CompletedMission, error) {
	completion, ok := r.completions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return completion, nil
}

func (r *memCompletionRepo) GetAll(ctx context.Context) ([]*models.CompletedMission, error) {
	completions := make([]*models.CompletedMission, 0, len(r.completions))
	for _, completion := range r.completions {
		completions = append(completions, completion)
	}
	return completions, nil
}

func (r *memCompletionRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.CompletedMission, error) {
	var completions []*models.CompletedMission
	for _, completion := range r.completions {
		if completion.UserID == userID {
			completions = append(completions, completion)
		}
	}
	return completions, nil
}

func (r *memCompletionRepo) ExistsForPair(ctx context.Context, userID, missionID int64) (bool, error) {
	for _, completion := range r.completions {
		if completion.UserID == userID && completion.MissionID == missionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCompletionRepo) Delete(ctx context.Context, id int64) error {
	delete(r.completions, id)
	return nil
}

func (r *memCompletionRepo) GetUserPoints(ctx context.Context, userID int64) (int64, error) {
	return r.points[userID], nil
}

func (r *memCompletionRepo) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if r.leaderboard == nil {
		return []models.LeaderboardEntry{}, nil
	}
	return r.leaderboard, nil
}

func testApp() (*memUserRepo, *memTrackRepo, *memMissionRepo, *memCompletionRepo, http.Handler) {
	users := newMemUserRepo()
	tracks := &memTrackRepo{tracks: make(map[int64]*models.Track)}
	missions := &memMissionRepo{missions: make(map[int64]*models.Mission)}
	completions := newMemCompletionRepo()
	app := New(fankee.ServerConfig{}, Repositories{
		Users:       users,
		Tracks:      tracks,
		Missions:    missions,
		Completions: completions,
	})
	return users, tracks, missions, completions, adaptFiber(app)
}

// adaptFiber exposes the fiber app through app.Test as an http.Handler so the
// route tests can use plain httptest requests.
type fiberTester interface {
	Test(req *http.Request, msTimeout ...int) (*http.Response, error)
}

func adaptFiber(app fiberTester) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := app.Test(r, -1)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		for key, values := range resp.Header {
			for _, v := range values {
				w.Header().Add(key, v)
			}
		}
		w.WriteHeader(resp.StatusCode)
		io.Copy(w, resp.Body)
	})
}

func doRequest(t *testing.T, handler http.Handler, method, target string) (*httptest.ResponseRecorder, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return rec, body
}

func TestCreateUserRoute(t *testing.T) {
	_, _, _, _, handler := testApp()

	rec, body := doRequest(t, handler, http.MethodPost, "/users/?nickname=alice")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, body)
	}

	var user struct {
		ID       int64  `json:"id"`
		Nickname string `json:"nickname"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.ID != 1 || user.Nickname != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestCreateUserRequiresNickname(t *testing.T) {
	_, _, _, _, handler := testApp()

	rec, body := doRequest(t, handler, http.MethodPost, "/users/")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, body)
	}

	var eb struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eb.Detail == "" {
		t.Error("error body must carry a detail message")
	}
}

func TestGetUserNotFound(t *testing.T) {
	_, _, _, _, handler := testApp()

	rec, body := doRequest(t, handler, http.MethodGet, "/users/99")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, body)
	}

	var eb struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eb.Detail != "User not found" {
		t.Errorf("expected detail %q, got %q", "User not found", eb.Detail)
	}
}

func TestCreateCompletedMissionChecksReferences(t *testing.T) {
	users, _, missions, _, handler := testApp()
	users.Create(context.Background(), &models.User{Nickname: "alice"})

	rec, body := doRequest(t, handler, http.MethodPost, "/completed-missions/?user_id=1&mission_id=42")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown mission, got %d: %s", rec.Code, body)
	}

	missions.Create(context.Background(), &models.Mission{TrackID: 1, Title: "Stream the track", Points: 10})
	rec, body = doRequest(t, handler, http.MethodPost, "/completed-missions/?user_id=1&mission_id=1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, body)
	}
}

func TestUserPointsReturnsBareNumber(t *testing.T) {
	users, _, _, completions, handler := testApp()
	users.Create(context.Background(), &models.User{Nickname: "alice"})
	completions.points[1] = 120

	rec, body := doRequest(t, handler, http.MethodGet, "/user-points/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, body)
	}

	var points int64
	if err := json.Unmarshal(body, &points); err != nil {
		t.Fatalf("body must be a bare JSON number, got %q: %v", body, err)
	}
	if points != 120 {
		t.Errorf("expected 120, got %d", points)
	}
}

func TestLeaderboardRoute(t *testing.T) {
	_, _, _, completions, handler := testApp()
	completions.leaderboard = []models.LeaderboardEntry{
		{Nickname: "alice", Points: 120},
		{Nickname: "bob", Points: 85},
	}

	rec, body := doRequest(t, handler, http.MethodGet, "/leaderboard/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, body)
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 || entries[0].Nickname != "alice" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestDeleteUserRoute(t *testing.T) {
	users, _, _, _, handler := testApp()
	users.Create(context.Background(), &models.User{Nickname: "alice"})

	rec, body := doRequest(t, handler, http.MethodDelete, "/users/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, body)
	}

	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Message != "User deleted" {
		t.Errorf("expected confirmation message, got %q", msg.Message)
	}

	rec, _ = doRequest(t, handler, http.MethodDelete, "/users/1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete should 404, got %d", rec.Code)
	}
}
