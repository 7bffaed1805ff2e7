package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/ellavondegurechaff/fankee/fankee/logger"
)

// Aggregator tracks each user's last confirmed point total. The gateway is
// the only source of totals; nothing here ever sums mission points locally,
// and there is no optimistic adjustment while a refresh is pending.
type Aggregator struct {
	gw Gateway

	mu     sync.Mutex
	totals map[int64]int64
}

func NewAggregator(gw Gateway) *Aggregator {
	return &Aggregator{
		gw:     gw,
		totals: make(map[int64]int64),
	}
}

// RefreshPoints fetches the authoritative total for a user. On failure the
// last confirmed total is returned alongside the error; the caller keeps
// showing the stale number rather than crashing or guessing.
func (a *Aggregator) RefreshPoints(ctx context.Context, userID int64) (int64, error) {
	points, err := a.gw.UserPoints(ctx, userID)
	if err != nil {
		a.mu.Lock()
		stale := a.totals[userID]
		a.mu.Unlock()
		return stale, fmt.Errorf("failed to refresh points for user %d: %w", userID, err)
	}

	a.mu.Lock()
	a.totals[userID] = points
	a.mu.Unlock()
	return points, nil
}

// Points returns the last confirmed total for a user, zero if never fetched.
func (a *Aggregator) Points(userID int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals[userID]
}

// MissionToggled implements ToggleListener: every successful toggle triggers
// an authoritative refetch. A failed refresh only logs; the stale total
// stays on display until the next successful refresh.
func (a *Aggregator) MissionToggled(ctx context.Context, userID int64) {
	if _, err := a.RefreshPoints(ctx, userID); err != nil {
		logger.LogError("Point refresh after toggle failed", err)
	}
}
