// Package leaderboard records and ranks best scores per player. A Service
// fronts a primary backend (the shared SQLite store) and a local fallback
// file, with timeouts and retries on every call.
package leaderboard

import (
	"context"
	"sort"
	"time"
)

// Entry is a player's best score.
type Entry struct {
	Player    string    `yaml:"player"`
	Score     int       `yaml:"score"`
	Nickname  string    `yaml:"nickname"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Backend stores one best score per player.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// SubmitScore records the entry if it beats the player's best.
	// It reports whether the stored score changed.
	SubmitScore(ctx context.Context, e Entry) (bool, error)
	// TopScores returns up to limit entries, best first.
	TopScores(ctx context.Context, limit int) ([]Entry, error)
	// PlayerScore returns the player's entry, or nil when there is none.
	PlayerScore(ctx context.Context, player string) (*Entry, error)
}

// Pinger is implemented by backends that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SortEntries orders entries by score descending; ties go to the earlier score.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}
