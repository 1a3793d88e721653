package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/floppy/internal/leaderboard"
)

// Name identifies the store as a leaderboard backend.
func (s *Store) Name() string {
	return "sqlite"
}

// SubmitScore implements leaderboard.Backend. The row keeps the player's best
// score; a newer nickname always replaces the old one.
func (s *Store) SubmitScore(ctx context.Context, e leaderboard.Entry) (bool, error) {
	if e.Player == "" {
		return false, fmt.Errorf("storage: submit score: empty player")
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	before, err := s.PlayerScore(ctx, e.Player)
	if err != nil {
		return false, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leaderboard (player, nickname, score, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET
			nickname = CASE WHEN excluded.nickname != '' THEN excluded.nickname ELSE leaderboard.nickname END,
			updated_at = CASE WHEN excluded.score > leaderboard.score THEN excluded.updated_at ELSE leaderboard.updated_at END,
			score = MAX(leaderboard.score, excluded.score)`,
		e.Player, e.Nickname, e.Score, ts.UTC().Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot submit score: %w", err)
	}

	return before == nil || e.Score > before.Score, nil
}

// TopScores implements leaderboard.Backend.
func (s *Store) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = leaderboard.DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT player, nickname, score, updated_at
		 FROM leaderboard
		 ORDER BY score DESC, updated_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		var updatedAt any
		if err := rows.Scan(&e.Player, &e.Nickname, &e.Score, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Timestamp = parseTimestamp(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// PlayerScore implements leaderboard.Backend.
func (s *Store) PlayerScore(ctx context.Context, player string) (*leaderboard.Entry, error) {
	var e leaderboard.Entry
	var updatedAt any

	err := s.db.QueryRowContext(ctx,
		`SELECT player, nickname, score, updated_at FROM leaderboard WHERE player = ?`,
		player,
	).Scan(&e.Player, &e.Nickname, &e.Score, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player score: %w", err)
	}

	e.Timestamp = parseTimestamp(updatedAt)
	return &e, nil
}

// Ensure Store implements the leaderboard backend and its ping check.
var (
	_ leaderboard.Backend = (*Store)(nil)
	_ leaderboard.Pinger  = (*Store)(nil)
)
