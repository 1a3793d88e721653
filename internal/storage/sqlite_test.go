package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/floppy/internal/leaderboard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestStoreOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/sub/floppy.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, "sub", "floppy.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SetHighScoreValue(42); err != nil {
		t.Fatalf("SetHighScoreValue() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScoreValue()
	if err != nil {
		t.Fatalf("HighScoreValue() failed: %v", err)
	}
	if high != 42 {
		t.Errorf("Expected high score 42 after reopen, got %d", high)
	}
}

func TestStoreSaveAndRetrieveRuns(t *testing.T) {
	store := openTestStore(t)

	for _, run := range []struct {
		player string
		score  int
	}{
		{"alice", 100}, {"alice", 50}, {"alice", 200}, {"bob", 500},
	} {
		if _, err := store.SaveScore(run.player, run.score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopRuns("alice", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.TopRuns("", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(all) != 2 || all[0].Player != "bob" {
		t.Errorf("Expected bob first across all players, got %v", all)
	}

	recent, err := store.RecentRuns("alice", 1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 1 || recent[0].Score != 200 {
		t.Errorf("Expected the latest run (200), got %v", recent)
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be parsed")
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("alice", 100)
	store.SaveScore("alice", 200)
	store.SaveScore("bob", 300)

	if err := store.ClearScores("alice"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	alice, _ := store.TopRuns("alice", 10)
	if len(alice) != 0 {
		t.Errorf("Expected 0 alice scores after clear, got %d", len(alice))
	}
	bob, _ := store.TopRuns("bob", 10)
	if len(bob) != 1 {
		t.Errorf("bob scores should not be affected by clearing alice")
	}
}

func TestStorePlayerStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetPlayerStats("alice")
	if err != nil {
		t.Fatalf("GetPlayerStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveScore("alice", 10)
	store.SaveScore("alice", 30)
	store.SaveScore("bob", 5)

	stats, err = store.GetPlayerStats("alice")
	if err != nil {
		t.Fatalf("GetPlayerStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 30 || stats.AvgScore != 20 || stats.TotalScore != 40 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	all, err := store.GetAllPlayerStats()
	if err != nil {
		t.Fatalf("GetAllPlayerStats() failed: %v", err)
	}
	if len(all) != 2 || all["bob"].HighScore != 5 {
		t.Errorf("Unexpected all-player stats: %+v", all)
	}
}

func TestStoreKeyValueExpiry(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Set("token", "abc", time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if v, ok, _ := store.Get("token"); !ok || v != "abc" {
		t.Errorf("Expected abc, got %q ok=%v", v, ok)
	}

	now = now.Add(time.Hour)
	if _, ok, _ := store.Get("token"); ok {
		t.Error("value should expire after its ttl")
	}

	if err := store.Set("forever", "x", 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	now = now.Add(100000 * time.Hour)
	if _, ok, _ := store.Get("forever"); !ok {
		t.Error("value without ttl should not expire")
	}
}

func TestStoreHighScoreValue(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	high, err := store.HighScoreValue()
	if err != nil || high != 0 {
		t.Fatalf("Expected 0 with no high score, got %d (%v)", high, err)
	}

	if err := store.SetHighScoreValue(17); err != nil {
		t.Fatalf("SetHighScoreValue() failed: %v", err)
	}

	now = now.Add(998 * 24 * time.Hour)
	if high, _ := store.HighScoreValue(); high != 17 {
		t.Errorf("Expected 17 before expiry, got %d", high)
	}

	now = now.Add(24 * time.Hour)
	if high, _ := store.HighScoreValue(); high != 0 {
		t.Errorf("Expected high score to expire after 999 days, got %d", high)
	}
}

func TestStorePlayerHighScoreValue(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetHighScoreValue(50); err != nil {
		t.Fatalf("SetHighScoreValue() failed: %v", err)
	}
	if err := store.SetPlayerHighScoreValue("alice", 12); err != nil {
		t.Fatalf("SetPlayerHighScoreValue() failed: %v", err)
	}

	if high, _ := store.PlayerHighScoreValue("alice"); high != 12 {
		t.Errorf("Expected 12 for alice, got %d", high)
	}
	if high, _ := store.PlayerHighScoreValue("bob"); high != 0 {
		t.Errorf("Expected 0 for bob, got %d", high)
	}
	if high, _ := store.HighScoreValue(); high != 50 {
		t.Errorf("player scores should not touch the shared value, got %d", high)
	}
	if _, ok, _ := store.Get("highscore:alice"); !ok {
		t.Error("Expected alice's score under highscore:alice")
	}
}

func TestStoreNickname(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetNickname(""); err != nil {
		t.Fatalf("SetNickname() failed: %v", err)
	}
	if n, _ := store.Nickname(); n != "" {
		t.Errorf("empty nickname should be ignored, got %q", n)
	}

	store.SetNickname("Birdie")
	if n, _ := store.Nickname(); n != "Birdie" {
		t.Errorf("Expected Birdie, got %q", n)
	}
}

func TestStoreLeaderboardKeepsBest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	improved, err := store.SubmitScore(ctx, leaderboard.Entry{Player: "alice", Nickname: "Al", Score: 12, Timestamp: t0})
	if err != nil || !improved {
		t.Fatalf("first submit: improved=%v err=%v", improved, err)
	}

	improved, err = store.SubmitScore(ctx, leaderboard.Entry{Player: "alice", Score: 8, Timestamp: t0.Add(time.Hour)})
	if err != nil || improved {
		t.Fatalf("lower submit: improved=%v err=%v", improved, err)
	}

	e, err := store.PlayerScore(ctx, "alice")
	if err != nil {
		t.Fatalf("PlayerScore() failed: %v", err)
	}
	if e == nil || e.Score != 12 || e.Nickname != "Al" {
		t.Fatalf("Expected alice 12 Al, got %+v", e)
	}
	if !e.Timestamp.Equal(t0) {
		t.Errorf("timestamp should stay at the best score, got %v", e.Timestamp)
	}

	improved, _ = store.SubmitScore(ctx, leaderboard.Entry{Player: "alice", Nickname: "Ally", Score: 20, Timestamp: t0.Add(2 * time.Hour)})
	if !improved {
		t.Error("higher score should improve")
	}
	e, _ = store.PlayerScore(ctx, "alice")
	if e.Score != 20 || e.Nickname != "Ally" {
		t.Errorf("Expected alice 20 Ally, got %+v", e)
	}
}

func TestStoreLeaderboardTopScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	for i, e := range []leaderboard.Entry{
		{Player: "a", Score: 5},
		{Player: "b", Score: 9},
		{Player: "c", Score: 5},
		{Player: "d", Score: 1},
	} {
		e.Timestamp = t0.Add(time.Duration(i) * time.Minute)
		if _, err := store.SubmitScore(ctx, e); err != nil {
			t.Fatalf("SubmitScore() failed: %v", err)
		}
	}

	top, err := store.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(top))
	}
	if top[0].Player != "b" || top[1].Player != "a" || top[2].Player != "c" {
		t.Errorf("Unexpected order: %v", top)
	}

	missing, err := store.PlayerScore(ctx, "nobody")
	if err != nil || missing != nil {
		t.Errorf("Expected nil for unknown player, got %+v (%v)", missing, err)
	}
}

func TestStoreAsServicePrimary(t *testing.T) {
	store := openTestStore(t)
	local := leaderboard.NewFileBackend(filepath.Join(t.TempDir(), "scores.yaml"))
	id := leaderboard.NewIdentity("alice", "", "Al")
	svc := leaderboard.NewService(store, local, leaderboard.WithIdentity(id))
	ctx := context.Background()

	if _, err := svc.Connect(ctx); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	ok, err := svc.SubmitScore(ctx, id, 11)
	if err != nil || !ok {
		t.Fatalf("SubmitScore() ok=%v err=%v", ok, err)
	}

	e, err := svc.PlayerScore(ctx, id)
	if err != nil || e == nil || e.Score != 11 {
		t.Errorf("Expected 11 from the store, got %+v (%v)", e, err)
	}
}
