package models

// LeaderboardEntry is a derived, read-only row: one user's nickname and their
// summed mission points. Rebuilt wholesale on every query, never stored.
type LeaderboardEntry struct {
	Nickname string `json:"nickname"`
	Points   int64  `json:"points"`
}
