package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/ellavondegurechaff/fankee/fankee/gateway"
)

// Gateway is the slice of the Fankee API the client core consumes. The
// concrete implementation lives in the gateway package; tests substitute
// their own.
type Gateway interface {
	CreateUser(ctx context.Context, nickname string) (gateway.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (gateway.User, error)
	GetTracks(ctx context.Context) ([]gateway.Track, error)
	MissionsByTrack(ctx context.Context, trackID int64) ([]gateway.Mission, error)
	CompletedMissionsByUser(ctx context.Context, userID int64) ([]gateway.CompletedMission, error)
	CreateCompletedMission(ctx context.Context, userID, missionID int64) (gateway.CompletedMission, error)
	DeleteCompletedMission(ctx context.Context, id int64) error
	UserPoints(ctx context.Context, userID int64) (int64, error)
	Leaderboard(ctx context.Context) ([]gateway.LeaderboardEntry, error)
}

// ErrToggleInFlight is returned when a toggle is requested for a pair whose
// previous toggle has not resolved yet. Overlapping toggles would both read
// the same pre-toggle state and race to opposite operations, so the engine
// refuses the second one; callers disable the control and retry after the
// first call returns.
var ErrToggleInFlight = errors.New("toggle already in flight for this mission")

// CompletionState is the post-toggle state reported to the caller.
type CompletionState int

const (
	NotCompleted CompletionState = iota
	Completed
)

func (s CompletionState) String() string {
	if s == Completed {
		return "completed"
	}
	return "not completed"
}

// TrackLoadState tracks the lazy-load lifecycle of one track's mission list.
type TrackLoadState int

const (
	TrackNotLoaded TrackLoadState = iota
	TrackLoading
	TrackLoaded
	TrackFailed
)

// CompletionKey identifies one user's completion of one mission. All cache
// lookups go through the full pair; user identity is never implicit.
type CompletionKey struct {
	UserID    int64
	MissionID int64
}

// ToggleListener is notified after every successful toggle, with the user
// whose point total may have changed.
type ToggleListener interface {
	MissionToggled(ctx context.Context, userID int64)
}

const missionCacheSize = 256

// Engine owns the session-scoped caches of missions and completion records
// and the toggle operation that reconciles them with the gateway. The caches
// are rebuilt from the gateway on demand and never persisted.
type Engine struct {
	gw Gateway

	mu          sync.Mutex
	missions    *lru.Cache // track ID -> []gateway.Mission
	trackStates map[int64]TrackLoadState
	trackLoads  map[int64]chan struct{}
	completions map[CompletionKey]gateway.CompletedMission
	loadedUsers map[int64]bool
	inflight    map[CompletionKey]bool

	listeners []ToggleListener
}

func NewEngine(gw Gateway) *Engine {
	cache, _ := lru.New(missionCacheSize)
	return &Engine{
		gw:          gw,
		missions:    cache,
		trackStates: make(map[int64]TrackLoadState),
		trackLoads:  make(map[int64]chan struct{}),
		completions: make(map[CompletionKey]gateway.CompletedMission),
		loadedUsers: make(map[int64]bool),
		inflight:    make(map[CompletionKey]bool),
	}
}

// AddListener registers a listener for successful toggles. Not safe to call
// concurrently with toggles; register everything during setup.
func (e *Engine) AddListener(l ToggleListener) {
	e.listeners = append(e.listeners, l)
}

// LoadMissionsForTrack returns the track's missions, fetching them from the
// gateway on the first call and serving the cache afterwards. Concurrent
// calls for the same track coalesce into one fetch: later callers wait for
// the in-flight load and then re-check the cache. A track that does not
// exist or has no missions reports gateway.ErrNotFound and stays un-cached
// so a later call can retry.
func (e *Engine) LoadMissionsForTrack(ctx context.Context, trackID int64) ([]gateway.Mission, error) {
	var done chan struct{}
	for {
		e.mu.Lock()
		if cached, ok := e.missions.Get(trackID); ok {
			missions := cached.([]gateway.Mission)
			e.mu.Unlock()
			return missions, nil
		}
		pending, loading := e.trackLoads[trackID]
		if !loading {
			done = make(chan struct{})
			e.trackLoads[trackID] = done
			e.trackStates[trackID] = TrackLoading
			e.mu.Unlock()
			break
		}
		e.mu.Unlock()

		select {
		case <-pending:
			// Loop: cache hit if the load succeeded, own fetch if it failed.
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	missions, err := e.gw.MissionsByTrack(ctx, trackID)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.trackLoads, trackID)
	defer close(done)
	if err != nil {
		e.trackStates[trackID] = TrackFailed
		return nil, fmt.Errorf("failed to load missions for track %d: %w", trackID, err)
	}
	if len(missions) == 0 {
		e.trackStates[trackID] = TrackFailed
		return nil, fmt.Errorf("track %d has no missions: %w", trackID, gateway.ErrNotFound)
	}

	e.missions.Add(trackID, missions)
	e.trackStates[trackID] = TrackLoaded
	return missions, nil
}

// TrackState reports where a track sits in the load lifecycle.
func (e *Engine) TrackState(trackID int64) TrackLoadState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trackStates[trackID]
}

// InvalidateTrack drops a track's cached missions so the next load refetches.
func (e *Engine) InvalidateTrack(trackID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.missions.Remove(trackID)
	e.trackStates[trackID] = TrackNotLoaded
}

// LoadCompletionsForUser fetches all of a user's completion records, once.
// Records are keyed by (user, mission); if the gateway ever reports more than
// one record for a pair, the first wins and the rest are logged and ignored.
func (e *Engine) LoadCompletionsForUser(ctx context.Context, userID int64) ([]gateway.CompletedMission, error) {
	e.mu.Lock()
	if e.loadedUsers[userID] {
		completions := e.completionsForLocked(userID)
		e.mu.Unlock()
		return completions, nil
	}
	e.mu.Unlock()

	records, err := e.gw.CompletedMissionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions for user %d: %w", userID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, rec := range records {
		key := CompletionKey{UserID: rec.UserID, MissionID: rec.MissionID}
		if existing, ok := e.completions[key]; ok && existing.ID != rec.ID {
			slog.Warn("Duplicate completion record reported by gateway",
				slog.Int64("user_id", rec.UserID),
				slog.Int64("mission_id", rec.MissionID),
				slog.Int64("kept_id", existing.ID),
				slog.Int64("ignored_id", rec.ID))
			continue
		}
		e.completions[key] = rec
	}
	e.loadedUsers[userID] = true
	return e.completionsForLocked(userID), nil
}

// InvalidateCompletions drops a user's cached completion records.
func (e *Engine) InvalidateCompletions(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key := range e.completions {
		if key.UserID == userID {
			delete(e.completions, key)
		}
	}
	delete(e.loadedUsers, userID)
}

// IsCompleted reports the cached completion state for the exact pair.
func (e *Engine) IsCompleted(userID, missionID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.completions[CompletionKey{UserID: userID, MissionID: missionID}]
	return ok
}

// ToggleMission flips the completion state of one mission for one user.
// The cached state decides the direction: no record means create, a record
// means delete that exact record. The cache only changes after the gateway
// confirms, so a failed call leaves local state untouched. One toggle per
// pair may be in flight at a time.
func (e *Engine) ToggleMission(ctx context.Context, userID, missionID int64) (CompletionState, error) {
	key := CompletionKey{UserID: userID, MissionID: missionID}

	e.mu.Lock()
	if e.inflight[key] {
		e.mu.Unlock()
		return NotCompleted, ErrToggleInFlight
	}
	e.inflight[key] = true
	existing, completed := e.completions[key]
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inflight, key)
		e.mu.Unlock()
	}()

	var state CompletionState
	if !completed {
		record, err := e.gw.CreateCompletedMission(ctx, userID, missionID)
		if err != nil {
			return NotCompleted, fmt.Errorf("failed to complete mission %d: %w", missionID, err)
		}
		e.mu.Lock()
		e.completions[key] = record
		e.mu.Unlock()
		state = Completed
	} else {
		if err := e.gw.DeleteCompletedMission(ctx, existing.ID); err != nil {
			return Completed, fmt.Errorf("failed to un-complete mission %d: %w", missionID, err)
		}
		e.mu.Lock()
		delete(e.completions, key)
		e.mu.Unlock()
		state = NotCompleted
	}

	for _, l := range e.listeners {
		l.MissionToggled(ctx, userID)
	}
	return state, nil
}

func (e *Engine) completionsForLocked(userID int64) []gateway.CompletedMission {
	completions := make([]gateway.CompletedMission, 0)
	for key, rec := range e.completions {
		if key.UserID == userID {
			completions = append(completions, rec)
		}
	}
	return completions
}
