package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ellavondegurechaff/fankee/fankee/logger"
)

// Client talks to the Fankee API over HTTP. Every call is bounded by the
// configured timeout; there are no retries, a failed call stays failed until
// the caller decides to try again.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ================== USERS ==================

func (c *Client) CreateUser(ctx context.Context, nickname string) (User, error) {
	var user User
	params := url.Values{"nickname": {nickname}}
	err := c.do(ctx, http.MethodPost, "/users/", params, &user)
	return user, err
}

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := c.do(ctx, http.MethodGet, "/users/", nil, &users)
	return users, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user)
	return user, err
}

func (c *Client) GetUserByNickname(ctx context.Context, nickname string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/users/by-nickname/"+url.PathEscape(nickname), nil, &user)
	return user, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, &confirmation{})
}

// ================== TRACKS ==================

func (c *Client) CreateTrack(ctx context.Context, title, artistName string) (Track, error) {
	var track Track
	params := url.Values{"title": {title}, "artist_name": {artistName}}
	err := c.do(ctx, http.MethodPost, "/tracks/", params, &track)
	return track, err
}

func (c *Client) GetTracks(ctx context.Context) ([]Track, error) {
	var tracks []Track
	err := c.do(ctx, http.MethodGet, "/tracks/", nil, &tracks)
	return tracks, err
}

func (c *Client) GetTrack(ctx context.Context, id int64) (Track, error) {
	var track Track
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tracks/%d", id), nil, &track)
	return track, err
}

// UpdateTrack sends only the fields given; nil means leave unchanged.
func (c *Client) UpdateTrack(ctx context.Context, id int64, title, artistName *string) (Track, error) {
	var track Track
	params := url.Values{}
	if title != nil {
		params.Set("title", *title)
	}
	if artistName != nil {
		params.Set("artist_name", *artistName)
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tracks/%d", id), params, &track)
	return track, err
}

func (c *Client) DeleteTrack(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tracks/%d", id), nil, &confirmation{})
}

// ================== MISSIONS ==================

func (c *Client) CreateMission(ctx context.Context, trackID int64, title string, points int64) (Mission, error) {
	var mission Mission
	params := url.Values{
		"track_id": {strconv.FormatInt(trackID, 10)},
		"title":    {title},
		"points":   {strconv.FormatInt(points, 10)},
	}
	err := c.do(ctx, http.MethodPost, "/missions/", params, &mission)
	return mission, err
}

func (c *Client) GetMissions(ctx context.Context) ([]Mission, error) {
	var missions []Mission
	err := c.do(ctx, http.MethodGet, "/missions/", nil, &missions)
	return missions, err
}

func (c *Client) GetMission(ctx context.Context, id int64) (Mission, error) {
	var mission Mission
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/missions/%d", id), nil, &mission)
	return mission, err
}

func (c *Client) MissionsByTrack(ctx context.Context, trackID int64) ([]Mission, error) {
	var missions []Mission
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/missions/by-track/%d", trackID), nil, &missions)
	return missions, err
}

func (c *Client) UpdateMission(ctx context.Context, id int64, title *string, points *int64) (Mission, error) {
	var mission Mission
	params := url.Values{}
	if title != nil {
		params.Set("title", *title)
	}
	if points != nil {
		params.Set("points", strconv.FormatInt(*points, 10))
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/missions/%d", id), params, &mission)
	return mission, err
}

func (c *Client) DeleteMission(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/missions/%d", id), nil, &confirmation{})
}

// ================== COMPLETED MISSIONS ==================

func (c *Client) CreateCompletedMission(ctx context.Context, userID, missionID int64) (CompletedMission, error) {
	var completed CompletedMission
	params := url.Values{
		"user_id":    {strconv.FormatInt(userID, 10)},
		"mission_id": {strconv.FormatInt(missionID, 10)},
	}
	err := c.do(ctx, http.MethodPost, "/completed-missions/", params, &completed)
	return completed, err
}

func (c *Client) GetCompletedMissions(ctx context.Context) ([]CompletedMission, error) {
	var completions []CompletedMission
	err := c.do(ctx, http.MethodGet, "/completed-missions/", nil, &completions)
	return completions, err
}

func (c *Client) CompletedMissionsByUser(ctx context.Context, userID int64) ([]CompletedMission, error) {
	var completions []CompletedMission
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/completed-missions/by-user/%d", userID), nil, &completions)
	return completions, err
}

func (c *Client) DeleteCompletedMission(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/completed-missions/%d", id), nil, &confirmation{})
}

// ================== LEADERBOARD ==================

func (c *Client) UserPoints(ctx context.Context, userID int64) (int64, error) {
	var points int64
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user-points/%d", userID), nil, &points)
	return points, err
}

func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := c.do(ctx, http.MethodGet, "/leaderboard/", nil, &entries)
	return entries, err
}

// do performs one request and folds every failure into the error taxonomy:
// network problems become *TransportError, 404 maps to ErrNotFound, duplicate
// creations map to ErrDuplicate, anything else non-2xx becomes *RemoteError.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, out interface{}) error {
	op := method + " " + path
	start := time.Now()
	err := c.doOnce(ctx, method, path, params, out)
	logger.LogRequest(op, time.Since(start), err)
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, params url.Values, out interface{}) error {
	op := method + " " + path

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapStatus(op, resp.StatusCode, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return &RemoteError{Op: op, Status: resp.StatusCode, Detail: fmt.Sprintf("malformed response: %v", err)}
		}
	}
	return nil
}

func (c *Client) mapStatus(op string, status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	switch status {
	case http.StatusNotFound:
		if eb.Detail != "" {
			return fmt.Errorf("%s: %w", eb.Detail, ErrNotFound)
		}
		return fmt.Errorf("gateway %s: %w", op, ErrNotFound)
	case http.StatusBadRequest, http.StatusConflict:
		if eb.Detail != "" {
			return fmt.Errorf("%s: %w", eb.Detail, ErrDuplicate)
		}
		return fmt.Errorf("gateway %s: %w", op, ErrDuplicate)
	default:
		return &RemoteError{Op: op, Status: status, Detail: eb.Detail}
	}
}
