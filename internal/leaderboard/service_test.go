package leaderboard

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend is an in-memory backend that can be told to fail or stall.
type memBackend struct {
	mu      sync.Mutex
	entries map[string]Entry
	fail    error
	stall   bool
	calls   int
}

func newMemBackend() *memBackend {
	return &memBackend{entries: make(map[string]Entry)}
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) call(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	fail, stall := m.fail, m.stall
	m.mu.Unlock()

	if stall {
		<-ctx.Done()
		return ctx.Err()
	}
	return fail
}

func (m *memBackend) SubmitScore(ctx context.Context, e Entry) (bool, error) {
	if err := m.call(ctx); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[e.Player]; ok && old.Score >= e.Score {
		return false, nil
	}
	m.entries[e.Player] = e
	return true, nil
}

func (m *memBackend) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	if err := m.call(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries {
		out = append(out, e)
	}
	SortEntries(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memBackend) PlayerScore(ctx context.Context, player string) (*Entry, error) {
	if err := m.call(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[player]; ok {
		return &e, nil
	}
	return nil, nil
}

var alice = NewIdentity("alice", "SHA256:abc", "Al")

func newTestService(t *testing.T, primary Backend) (*Service, *FileBackend) {
	t.Helper()
	local := NewFileBackend(filepath.Join(t.TempDir(), "scores.yaml"))
	svc := NewService(primary, local,
		WithIdentity(alice),
		WithTimeout(50*time.Millisecond),
		WithRetries(1),
		WithBackoff(time.Millisecond),
	)
	return svc, local
}

func TestNewIdentity(t *testing.T) {
	assert.Equal(t, "alice@SHA256:abc", alice.Player)
	assert.Equal(t, "bob", NewIdentity("bob", "", "").Player)
	assert.Equal(t, DefaultNickname, NewIdentity("bob", "", "").DisplayName())
	assert.False(t, NewIdentity("", "SHA256:abc", "").Valid())
}

func TestConnectWithoutIdentity(t *testing.T) {
	svc := NewService(newMemBackend(), nil)

	_, err := svc.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoIdentity)

	var cerr *ConnectionError
	assert.True(t, errors.As(err, &cerr))
}

func TestConnect(t *testing.T) {
	svc, _ := newTestService(t, newMemBackend())

	id, err := svc.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alice, id)
}

func TestSubmitScorePrimaryAndLocal(t *testing.T) {
	primary := newMemBackend()
	svc, local := newTestService(t, primary)
	ctx := context.Background()

	ok, err := svc.SubmitScore(ctx, alice, 12)
	require.NoError(t, err)
	assert.True(t, ok)

	remote, err := primary.PlayerScore(ctx, alice.Player)
	require.NoError(t, err)
	require.NotNil(t, remote)
	assert.Equal(t, 12, remote.Score)
	assert.Equal(t, "Al", remote.Nickname)

	saved, err := local.PlayerScore(ctx, alice.Player)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 12, saved.Score)
}

func TestSubmitScoreFallsBackLocally(t *testing.T) {
	primary := newMemBackend()
	primary.fail = errors.New("connection refused")
	svc, local := newTestService(t, primary)
	ctx := context.Background()

	ok, err := svc.SubmitScore(ctx, alice, 7)
	assert.True(t, ok, "local save should count as success")
	require.Error(t, err)

	var cerr *ConnectionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "submit", cerr.Op)
	assert.Equal(t, "mem", cerr.Backend)

	// One attempt plus one retry.
	assert.Equal(t, 2, primary.calls)

	saved, err := local.PlayerScore(ctx, alice.Player)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 7, saved.Score)
}

func TestSubmitLowerScoreWhilePrimaryDown(t *testing.T) {
	primary := newMemBackend()
	svc, _ := newTestService(t, primary)
	ctx := context.Background()

	_, err := svc.SubmitScore(ctx, alice, 20)
	require.NoError(t, err)

	primary.fail = errors.New("down")
	ok, err := svc.SubmitScore(ctx, alice, 5)
	assert.False(t, ok, "nothing new was stored anywhere")
	assert.Error(t, err)
}

func TestSubmitLowerScoreReportsNotImproved(t *testing.T) {
	primary := newMemBackend()
	svc, _ := newTestService(t, primary)
	ctx := context.Background()

	ok, err := svc.SubmitScore(ctx, alice, 20)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.SubmitScore(ctx, alice, 5)
	require.NoError(t, err)
	assert.False(t, ok, "5 does not beat 20")

	best, err := primary.PlayerScore(ctx, alice.Player)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 20, best.Score)
}

func TestSubmitScoreTimesOut(t *testing.T) {
	primary := newMemBackend()
	primary.stall = true
	svc, _ := newTestService(t, primary)

	start := time.Now()
	ok, err := svc.SubmitScore(context.Background(), alice, 3)
	assert.True(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSubmitScoreWithoutIdentity(t *testing.T) {
	svc, _ := newTestService(t, newMemBackend())

	ok, err := svc.SubmitScore(context.Background(), Identity{}, 10)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestTopScoresFallback(t *testing.T) {
	primary := newMemBackend()
	svc, local := newTestService(t, primary)
	ctx := context.Background()

	_, err := local.SubmitScore(ctx, Entry{Player: "bob", Score: 4})
	require.NoError(t, err)
	_, err = local.SubmitScore(ctx, Entry{Player: "carol", Score: 9})
	require.NoError(t, err)

	primary.fail = errors.New("down")
	entries, err := svc.TopScores(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "carol", entries[0].Player)
	assert.Equal(t, "bob", entries[1].Player)
}

func TestTopScoresPrimary(t *testing.T) {
	primary := newMemBackend()
	svc, _ := newTestService(t, primary)
	ctx := context.Background()

	for i, p := range []string{"a", "b", "c"} {
		_, err := primary.SubmitScore(ctx, Entry{Player: p, Score: i + 1})
		require.NoError(t, err)
	}

	entries, err := svc.TopScores(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Score)
	assert.Equal(t, 2, entries[1].Score)
}

func TestPlayerScore(t *testing.T) {
	primary := newMemBackend()
	svc, local := newTestService(t, primary)
	ctx := context.Background()

	entry, err := svc.PlayerScore(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = local.SubmitScore(ctx, Entry{Player: alice.Player, Score: 15})
	require.NoError(t, err)

	primary.fail = errors.New("down")
	entry, err = svc.PlayerScore(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 15, entry.Score)
}

func TestServiceWithoutPrimary(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	ok, err := svc.SubmitScore(ctx, alice, 8)
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := svc.TopScores(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].Score)
}
