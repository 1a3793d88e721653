package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// fileData is the on-disk layout of the local score file.
type fileData struct {
	Entries []Entry `yaml:"entries"`
}

// FileBackend keeps each player's best score in a YAML file.
// It is the local fallback when the shared store is unreachable.
type FileBackend struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileBackend creates a backend for the given file. The file and its
// directory are created on the first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path, now: time.Now}
}

// Name returns "local".
func (f *FileBackend) Name() string {
	return "local"
}

// Path returns the score file location.
func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) load() (fileData, error) {
	var data fileData
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, fmt.Errorf("leaderboard: read %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("leaderboard: parse %s: %w", f.path, err)
	}
	return data, nil
}

// save writes to a temporary file and renames it over the old one.
func (f *FileBackend) save(data fileData) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("leaderboard: encode scores: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("leaderboard: create directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("leaderboard: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("leaderboard: replace %s: %w", f.path, err)
	}
	return nil
}

// SubmitScore stores the entry when it beats the player's previous best.
// Non-positive scores are never stored.
func (f *FileBackend) SubmitScore(ctx context.Context, e Entry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if e.Player == "" || e.Score <= 0 {
		return false, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return false, err
	}

	if e.Nickname == "" {
		e.Nickname = DefaultNickname
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = f.now()
	}

	for i := range data.Entries {
		if data.Entries[i].Player != e.Player {
			continue
		}
		if data.Entries[i].Score >= e.Score {
			return false, nil
		}
		data.Entries[i] = e
		return true, f.save(data)
	}

	data.Entries = append(data.Entries, e)
	return true, f.save(data)
}

// TopScores returns up to limit entries, best first.
func (f *FileBackend) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	data, err := f.load()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	SortEntries(data.Entries)
	if limit > 0 && len(data.Entries) > limit {
		data.Entries = data.Entries[:limit]
	}
	return data.Entries, nil
}

// PlayerScore returns the player's best entry, or nil.
func (f *FileBackend) PlayerScore(ctx context.Context, player string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	data, err := f.load()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, e := range data.Entries {
		if e.Player == player {
			return &e, nil
		}
	}
	return nil, nil
}

var _ Backend = (*FileBackend)(nil)
