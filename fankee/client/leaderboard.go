package client

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ellavondegurechaff/fankee/fankee/gateway"
)

// medals replace the numeric rank on the top three rows.
var medals = [...]string{"🥇", "🥈", "🥉"}

// RankedEntry is a leaderboard row with its display rank attached. Position
// is 1-based and purely positional: tied scores still get distinct positions.
type RankedEntry struct {
	Position int
	Medal    string
	Entry    gateway.LeaderboardEntry
}

// DisplayRank is what a renderer prints in the position column: a medal for
// the first three rows, the number for everyone else.
func (r RankedEntry) DisplayRank() string {
	if r.Medal != "" {
		return r.Medal
	}
	return strconv.Itoa(r.Position)
}

// Leaderboard holds the latest ranking fetched from the gateway. The gateway
// is the sole sorter; entries are kept and exposed in exactly the order
// received. An empty ranking is a valid state, not an error.
type Leaderboard struct {
	gw Gateway

	mu      sync.Mutex
	entries []gateway.LeaderboardEntry
}

func NewLeaderboard(gw Gateway) *Leaderboard {
	return &Leaderboard{gw: gw}
}

// Refresh replaces the whole ranking with the gateway's latest. On failure
// the previous ranking is kept.
func (l *Leaderboard) Refresh(ctx context.Context) ([]gateway.LeaderboardEntry, error) {
	entries, err := l.gw.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh leaderboard: %w", err)
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return entries, nil
}

// Entries returns the last fetched ranking in gateway order.
func (l *Leaderboard) Entries() []gateway.LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]gateway.LeaderboardEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Empty reports whether the last fetch produced zero entries. Renderers show
// a placeholder with a manual refresh affordance instead of a table.
func (l *Leaderboard) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) == 0
}

// AssignDisplayRanks decorates entries with their 1-based positions and
// medals for the top three. Input order is preserved untouched.
func AssignDisplayRanks(entries []gateway.LeaderboardEntry) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	for i, entry := range entries {
		r := RankedEntry{Position: i + 1, Entry: entry}
		if i < len(medals) {
			r.Medal = medals[i]
		}
		ranked[i] = r
	}
	return ranked
}

// IsCurrentUser reports whether a row belongs to the viewing user. Exact,
// case-sensitive nickname equality; used for highlighting only.
func IsCurrentUser(entry gateway.LeaderboardEntry, nickname string) bool {
	return entry.Nickname == nickname
}
