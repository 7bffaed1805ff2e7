package gateway

import "time"

// Wire types returned by the Fankee API. Field names follow the server's JSON
// exactly; these are deliberately independent from the server's storage models.

type User struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

type Track struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
}

type Mission struct {
	ID      int64  `json:"id"`
	TrackID int64  `json:"track_id"`
	Title   string `json:"title"`
	Points  int64  `json:"points"`
}

type CompletedMission struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	MissionID   int64     `json:"mission_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type LeaderboardEntry struct {
	Nickname string `json:"nickname"`
	Points   int64  `json:"points"`
}

type confirmation struct {
	Message string `json:"message"`
}

type errorBody struct {
	Detail string `json:"detail"`
}
