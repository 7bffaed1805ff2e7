package client

import (
	"context"
	"errors"
	"testing"

	"github.com/ellavondegurechaff/fankee/fankee/gateway"
)

func TestRefreshPointsStoresConfirmedTotal(t *testing.T) {
	gw := &fakeGateway{
		userPointsFunc: func(ctx context.Context, userID int64) (int64, error) {
			return 35, nil
		},
	}
	agg := NewAggregator(gw)

	points, err := agg.RefreshPoints(context.Background(), 1)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if points != 35 {
		t.Errorf("expected 35 points, got %d", points)
	}
	if got := agg.Points(1); got != 35 {
		t.Errorf("expected cached 35, got %d", got)
	}
}

func TestRefreshPointsFailureReturnsStaleTotal(t *testing.T) {
	fail := false
	gw := &fakeGateway{
		userPointsFunc: func(ctx context.Context, userID int64) (int64, error) {
			if fail {
				return 0, errors.New("gateway down")
			}
			return 50, nil
		},
	}
	agg := NewAggregator(gw)

	if _, err := agg.RefreshPoints(context.Background(), 1); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	fail = true
	stale, err := agg.RefreshPoints(context.Background(), 1)
	if err == nil {
		t.Fatal("expected refresh to fail")
	}
	if stale != 50 {
		t.Errorf("expected stale total 50 alongside error, got %d", stale)
	}
	if got := agg.Points(1); got != 50 {
		t.Errorf("failed refresh must not clobber cached total, got %d", got)
	}
}

func TestAggregatorRefreshesAfterToggle(t *testing.T) {
	points := int64(0)
	gw := &fakeGateway{
		completionsFunc: emptyCompletions,
		createCompletionFunc: func(ctx context.Context, userID, missionID int64) (gateway.CompletedMission, error) {
			points += 25
			return gateway.CompletedMission{ID: 1, UserID: userID, MissionID: missionID}, nil
		},
		userPointsFunc: func(ctx context.Context, userID int64) (int64, error) {
			return points, nil
		},
	}
	engine := NewEngine(gw)
	agg := NewAggregator(gw)
	engine.AddListener(agg)

	if _, err := engine.ToggleMission(context.Background(), 1, 42); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := agg.Points(1); got != 25 {
		t.Errorf("expected 25 points after toggle refresh, got %d", got)
	}
}
