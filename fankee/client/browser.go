package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/ellavondegurechaff/fankee/fankee/gateway"
	"github.com/ellavondegurechaff/fankee/fankee/logger"
)

// trackSource implements fuzzy.Source over the track list so searches match
// against "title artist" in one pass.
type trackSource []gateway.Track

func (s trackSource) String(i int) string {
	return s[i].Title + " " + s[i].ArtistName
}

func (s trackSource) Len() int {
	return len(s)
}

// Browser drives the expandable track list for one viewing user. Expanding a
// track the first time kicks off the missions and completions loads together;
// the engine's caches make every later expand a local operation.
type Browser struct {
	engine *Engine
	gw     Gateway
	userID int64

	mu       sync.Mutex
	tracks   []gateway.Track
	expanded map[int64]bool
}

func NewBrowser(engine *Engine, gw Gateway, userID int64) *Browser {
	return &Browser{
		engine:   engine,
		gw:       gw,
		userID:   userID,
		expanded: make(map[int64]bool),
	}
}

// LoadTracks fetches the full track catalog.
func (b *Browser) LoadTracks(ctx context.Context) ([]gateway.Track, error) {
	tracks, err := b.gw.GetTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	b.mu.Lock()
	b.tracks = tracks
	b.mu.Unlock()
	return tracks, nil
}

// Tracks returns the last loaded catalog.
func (b *Browser) Tracks() []gateway.Track {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]gateway.Track, len(b.tracks))
	copy(out, b.tracks)
	return out
}

// Toggle flips a track between expanded and collapsed. Expanding loads the
// track's missions and the user's completions concurrently; the two loads are
// independent, either may finish first, and one failing does not stop the
// other — each failure is logged and the track still expands with whatever
// arrived.
func (b *Browser) Toggle(ctx context.Context, trackID int64) bool {
	b.mu.Lock()
	expanded := !b.expanded[trackID]
	b.expanded[trackID] = expanded
	b.mu.Unlock()

	if !expanded {
		return false
	}

	var g errgroup.Group
	g.Go(func() error {
		if _, err := b.engine.LoadMissionsForTrack(ctx, trackID); err != nil {
			logger.LogError("Mission load failed", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := b.engine.LoadCompletionsForUser(ctx, b.userID); err != nil {
			logger.LogError("Completion load failed", err)
		}
		return nil
	})
	_ = g.Wait()

	return true
}

// Expanded reports whether a track is currently expanded.
func (b *Browser) Expanded(trackID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expanded[trackID]
}

// Missions returns the cached missions for a track, empty until loaded.
func (b *Browser) Missions(trackID int64) []gateway.Mission {
	if cached, ok := b.engine.missions.Get(trackID); ok {
		return cached.([]gateway.Mission)
	}
	return nil
}

// IsCompleted reports the checkbox state for one mission, always scoped to
// the browsing user and the mission together.
func (b *Browser) IsCompleted(missionID int64) bool {
	return b.engine.IsCompleted(b.userID, missionID)
}

// ToggleMission completes or un-completes a mission for the browsing user.
func (b *Browser) ToggleMission(ctx context.Context, missionID int64) (CompletionState, error) {
	return b.engine.ToggleMission(ctx, b.userID, missionID)
}

// SearchTracks fuzzy-matches the query against track titles and artist names,
// best matches first. An empty query returns the whole catalog.
func (b *Browser) SearchTracks(query string) []gateway.Track {
	b.mu.Lock()
	tracks := make([]gateway.Track, len(b.tracks))
	copy(tracks, b.tracks)
	b.mu.Unlock()

	if query == "" {
		return tracks
	}

	matches := fuzzy.FindFrom(query, trackSource(tracks))
	results := make([]gateway.Track, 0, len(matches))
	for _, m := range matches {
		results = append(results, tracks[m.Index])
	}
	return results
}
