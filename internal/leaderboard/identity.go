package leaderboard

import (
	"errors"
	"fmt"
)

// DefaultNickname is used when a player has not chosen one.
const DefaultNickname = "Player"

// Identity is the player a score is recorded for.
type Identity struct {
	Player      string // Stable player key, e.g. "alice" or "alice@SHA256:..."
	Fingerprint string // SSH public key fingerprint, empty for local players
	Nickname    string // Display name attached to submissions
}

// Valid reports whether the identity can be used for submissions.
func (id Identity) Valid() bool {
	return id.Player != ""
}

// DisplayName returns the nickname, falling back to the default.
func (id Identity) DisplayName() string {
	if id.Nickname != "" {
		return id.Nickname
	}
	return DefaultNickname
}

// NewIdentity builds an identity from a user name and an optional key fingerprint.
// Players with a key are keyed by both so that two keys never share a record.
func NewIdentity(user, fingerprint, nickname string) Identity {
	player := user
	if user != "" && fingerprint != "" {
		player = user + "@" + fingerprint
	}
	return Identity{Player: player, Fingerprint: fingerprint, Nickname: nickname}
}

// ConnectionError reports a failed call to a leaderboard backend.
type ConnectionError struct {
	Op      string // connect, submit, top, player
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("leaderboard: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("leaderboard: %s via %s: %v", e.Op, e.Backend, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ErrNoIdentity is returned when no player identity is available.
var ErrNoIdentity = &ConnectionError{Op: "connect", Err: errors.New("no player identity")}
