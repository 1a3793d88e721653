package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScoreEntry is one finished run.
type ScoreEntry struct {
	ID        int64
	Player    string
	Score     int
	CreatedAt time.Time
}

// PlayerStats contains aggregated statistics over a player's runs.
type PlayerStats struct {
	Player     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// SaveScore records a finished run for the given player.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(player string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (player, score, created_at) VALUES (?, ?, ?)",
		player, score, s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best runs. An empty player means all players.
func (s *Store) TopRuns(player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, player, score, created_at
		 FROM scores
		 WHERE ? = '' OR player = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		player, player, limit,
	)
}

// RecentRuns retrieves the latest runs, newest first. An empty player means all players.
func (s *Store) RecentRuns(player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, player, score, created_at
		 FROM scores
		 WHERE ? = '' OR player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, player, limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearScores deletes the run history. An empty player clears every player.
func (s *Store) ClearScores(player string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE ? = '' OR player = ?", player, player)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GetPlayerStats retrieves aggregated statistics. An empty player covers all runs.
func (s *Store) GetPlayerStats(player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE ? = '' OR player = ?`,
		player, player,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE ? = '' OR player = ? ORDER BY id DESC LIMIT 1`,
		player, player,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// GetAllPlayerStats retrieves statistics for every player with at least one run.
func (s *Store) GetAllPlayerStats() (map[string]*PlayerStats, error) {
	rows, err := s.db.Query(
		`SELECT player, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY player`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all player stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PlayerStats)
	for rows.Next() {
		var ps PlayerStats
		var lastPlayed any
		if err := rows.Scan(&ps.Player, &ps.GamesCount, &ps.HighScore, &ps.AvgScore, &ps.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastPlayed = parseTimestamp(lastPlayed)
		stats[ps.Player] = &ps
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
