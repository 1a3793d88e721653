package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Well-known keys.
const (
	HighScoreKey = "highscore"
	NicknameKey  = "player_nickname"
)

// HighScoreTTL is how long a stored high score lives without being renewed.
const HighScoreTTL = 999 * 24 * time.Hour

// Get returns the value stored under key. Expired values are removed and
// reported as missing.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	var expiresAt int64
	err := s.db.QueryRow("SELECT value, expires_at FROM kv WHERE key = ?", key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %q: %w", key, err)
	}

	if expiresAt > 0 && s.now().Unix() >= expiresAt {
		if err := s.Delete(key); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value under key. A zero ttl never expires.
func (s *Store) Set(key, value string, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).Unix()
	}

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete %q: %w", key, err)
	}
	return nil
}

// PlayerHighScoreKey returns the key holding one player's high score, for
// stores shared by several players.
func PlayerHighScoreKey(player string) string {
	return HighScoreKey + ":" + player
}

// HighScoreValue returns the durable high score, or 0 when none is stored.
func (s *Store) HighScoreValue() (int, error) {
	return s.scoreValue(HighScoreKey)
}

// SetHighScoreValue stores the high score and renews its expiry.
func (s *Store) SetHighScoreValue(score int) error {
	return s.Set(HighScoreKey, strconv.Itoa(score), HighScoreTTL)
}

// PlayerHighScoreValue returns the durable high score of one player.
func (s *Store) PlayerHighScoreValue(player string) (int, error) {
	return s.scoreValue(PlayerHighScoreKey(player))
}

// SetPlayerHighScoreValue stores the high score of one player.
func (s *Store) SetPlayerHighScoreValue(player string, score int) error {
	return s.Set(PlayerHighScoreKey(player), strconv.Itoa(score), HighScoreTTL)
}

func (s *Store) scoreValue(key string) (int, error) {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return 0, err
	}
	score, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("storage: invalid high score %q: %w", v, err)
	}
	return score, nil
}

// Nickname returns the saved player nickname, or "".
func (s *Store) Nickname() (string, error) {
	v, _, err := s.Get(NicknameKey)
	return v, err
}

// SetNickname saves the player nickname. Empty names are ignored.
func (s *Store) SetNickname(nickname string) error {
	if nickname == "" {
		return nil
	}
	return s.Set(NicknameKey, nickname, 0)
}
