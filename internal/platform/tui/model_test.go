package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/floppy/internal/config"
	"github.com/vovakirdan/floppy/internal/core"
	"github.com/vovakirdan/floppy/internal/games/flappy"
	"github.com/vovakirdan/floppy/internal/leaderboard"
	"github.com/vovakirdan/floppy/internal/storage"
)

// downBackend is a primary leaderboard that is always unreachable.
type downBackend struct{}

func (downBackend) Name() string { return "remote" }

func (downBackend) SubmitScore(context.Context, leaderboard.Entry) (bool, error) {
	return false, errors.New("connection refused")
}

func (downBackend) TopScores(context.Context, int) ([]leaderboard.Entry, error) {
	return nil, errors.New("connection refused")
}

func (downBackend) PlayerScore(context.Context, string) (*leaderboard.Entry, error) {
	return nil, errors.New("connection refused")
}

func testOptions() Options {
	return Options{
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7},
		Flappy:  config.DefaultFlappyConfig(),
	}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "floppy.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func localService(t *testing.T, primary leaderboard.Backend, id leaderboard.Identity) (*leaderboard.Service, *leaderboard.FileBackend) {
	t.Helper()
	fallback := leaderboard.NewFileBackend(filepath.Join(t.TempDir(), "scores.yaml"))
	svc := leaderboard.NewService(primary, fallback,
		leaderboard.WithIdentity(id),
		leaderboard.WithRetries(0),
		leaderboard.WithBackoff(0),
	)
	return svc, fallback
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func TestModelFlapStartsGame(t *testing.T) {
	m := NewModel(testOptions())
	if m.game.Screen() != flappy.ScreenSplash {
		t.Fatalf("screen = %v, want Splash", m.game.Screen())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})

	if m.game.Screen() != flappy.ScreenPlaying {
		t.Errorf("screen = %v, want Playing", m.game.Screen())
	}
}

func TestModelMouseClickFlaps(t *testing.T) {
	m := NewModel(testOptions())

	m = update(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, TickMsg{})

	if m.game.Screen() != flappy.ScreenPlaying {
		t.Errorf("screen = %v, want Playing", m.game.Screen())
	}
}

func TestModelLoadsDurableHighScore(t *testing.T) {
	store := openTestStore(t)
	if err := store.SetHighScoreValue(23); err != nil {
		t.Fatalf("SetHighScoreValue failed: %v", err)
	}

	opts := testOptions()
	opts.Store = store
	m := NewModel(opts)

	if got := m.game.HighScore(); got != 23 {
		t.Errorf("HighScore = %d, want 23", got)
	}
}

func TestModelGameOverPersistsRunAndHighScore(t *testing.T) {
	store := openTestStore(t)
	opts := testOptions()
	opts.Store = store
	m := NewModel(opts)

	cmd := m.handleEvents([]core.Event{
		{Kind: core.EventHit},
		{Kind: core.EventNewHighScore, Value: 7},
		{Kind: core.EventGameOver, Value: 7},
	})
	if cmd != nil {
		t.Error("no command expected without a leaderboard")
	}
	if m.lastScore != 7 {
		t.Errorf("lastScore = %d, want 7", m.lastScore)
	}

	hs, err := store.HighScoreValue()
	if err != nil {
		t.Fatalf("HighScoreValue failed: %v", err)
	}
	if hs != 7 {
		t.Errorf("durable high score = %d, want 7", hs)
	}

	runs, err := store.TopRuns(LocalPlayer, 10)
	if err != nil {
		t.Fatalf("TopRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 7 {
		t.Errorf("runs = %+v, want one run of 7", runs)
	}
}

func TestModelPlayerScoresKeyedByIdentity(t *testing.T) {
	store := openTestStore(t)
	if err := store.SetHighScoreValue(99); err != nil {
		t.Fatalf("SetHighScoreValue failed: %v", err)
	}
	if err := store.SetPlayerHighScoreValue("gina", 33); err != nil {
		t.Fatalf("SetPlayerHighScoreValue failed: %v", err)
	}

	svc, _ := localService(t, nil, leaderboard.NewIdentity("gina", "", ""))
	opts := testOptions()
	opts.Store = store
	opts.Leaderboard = svc
	opts.PlayerScores = true
	m := NewModel(opts)

	if got := m.game.HighScore(); got != 33 {
		t.Fatalf("HighScore = %d, want 33", got)
	}

	m.handleEvents([]core.Event{{Kind: core.EventNewHighScore, Value: 40}})

	if hs, _ := store.PlayerHighScoreValue("gina"); hs != 40 {
		t.Errorf("player high score = %d, want 40", hs)
	}
	if hs, _ := store.HighScoreValue(); hs != 99 {
		t.Errorf("shared high score = %d, want 99 untouched", hs)
	}
}

func TestModelZeroScoreIsNotRecorded(t *testing.T) {
	store := openTestStore(t)
	opts := testOptions()
	opts.Store = store
	m := NewModel(opts)

	m.handleEvents([]core.Event{{Kind: core.EventGameOver, Value: 0}})

	runs, err := store.TopRuns(LocalPlayer, 10)
	if err != nil {
		t.Fatalf("TopRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %+v, want none", runs)
	}
}

func TestModelSubmitWithoutIdentity(t *testing.T) {
	svc, _ := localService(t, nil, leaderboard.Identity{})
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)
	m.lastScore = 5

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	if m.submitting {
		t.Error("should not submit without an identity")
	}
	if !m.statusErr || !strings.Contains(m.status, "Connect first") {
		t.Errorf("status = %q, want connect hint", m.status)
	}
}

func TestModelSubmitSavesScore(t *testing.T) {
	id := leaderboard.NewIdentity("alice", "", "Al")
	svc, fallback := localService(t, nil, id)
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)
	m.lastScore = 5

	next, cmd := m.submit(m.lastScore)
	m = next.(Model)
	if !m.submitting || cmd == nil {
		t.Fatal("submit should start a command")
	}

	m = update(t, m, submitCmd(context.Background(), svc, id, 5)())
	if m.submitting {
		t.Error("submitting should be cleared")
	}
	if !m.submitted {
		t.Error("score should be marked submitted")
	}
	if m.status != "Score 5 submitted" {
		t.Errorf("status = %q", m.status)
	}

	entry, err := fallback.PlayerScore(context.Background(), id.Player)
	if err != nil {
		t.Fatalf("PlayerScore failed: %v", err)
	}
	if entry == nil || entry.Score != 5 || entry.Nickname != "Al" {
		t.Errorf("entry = %+v, want Al with 5", entry)
	}

	// A second submit of the same run is refused.
	next, cmd = m.submit(m.lastScore)
	m = next.(Model)
	if cmd != nil {
		t.Error("resubmitting the same run should not start a command")
	}
}

func TestModelSubmitFallsBackLocally(t *testing.T) {
	id := leaderboard.NewIdentity("bob", "", "")
	svc, _ := localService(t, downBackend{}, id)
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)

	m = update(t, m, submitCmd(context.Background(), svc, id, 9)())

	if !m.submitted {
		t.Error("a local save should count as submitted")
	}
	if !m.statusErr || !strings.Contains(m.status, "saved locally") {
		t.Errorf("status = %q, want local save notice", m.status)
	}
}

func TestModelAutoSubmitAtGameOver(t *testing.T) {
	id := leaderboard.NewIdentity("carol", "", "")
	svc, _ := localService(t, nil, id)
	opts := testOptions()
	opts.Leaderboard = svc
	opts.AutoSubmit = true
	m := NewModel(opts)
	m.connected = true

	cmd := m.handleEvents([]core.Event{{Kind: core.EventGameOver, Value: 4}})
	if cmd == nil {
		t.Fatal("auto submit should return a command")
	}
	if !m.submitting {
		t.Error("model should be submitting")
	}
}

func TestModelConnectRaisesHighScore(t *testing.T) {
	id := leaderboard.NewIdentity("dave", "", "")
	svc, fallback := localService(t, nil, id)
	if _, err := fallback.SubmitScore(context.Background(), leaderboard.Entry{Player: id.Player, Score: 31}); err != nil {
		t.Fatalf("seed score failed: %v", err)
	}

	store := openTestStore(t)
	opts := testOptions()
	opts.Leaderboard = svc
	opts.Store = store
	m := NewModel(opts)

	m = update(t, m, connectCmd(context.Background(), svc)())

	if !m.connected {
		t.Fatal("model should be connected")
	}
	if got := m.game.HighScore(); got != 31 {
		t.Errorf("HighScore = %d, want 31", got)
	}
	hs, err := store.HighScoreValue()
	if err != nil {
		t.Fatalf("HighScoreValue failed: %v", err)
	}
	if hs != 31 {
		t.Errorf("durable high score = %d, want 31", hs)
	}
}

func TestModelConnectWithoutIdentity(t *testing.T) {
	svc, _ := localService(t, nil, leaderboard.Identity{})
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)

	m = update(t, m, connectCmd(context.Background(), svc)())

	if m.connected {
		t.Error("model should not be connected")
	}
	if !strings.Contains(m.status, "--player") {
		t.Errorf("status = %q, want identity hint", m.status)
	}
}

func TestModelLeaderboardPanel(t *testing.T) {
	id := leaderboard.NewIdentity("erin", "", "Erin")
	svc, fallback := localService(t, nil, id)
	ctx := context.Background()
	fallback.SubmitScore(ctx, leaderboard.Entry{Player: "frank", Nickname: "Frank", Score: 12})
	fallback.SubmitScore(ctx, leaderboard.Entry{Player: id.Player, Nickname: "Erin", Score: 20})

	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if !m.showBoard || !m.board.loading {
		t.Fatal("leaderboard should be open and loading")
	}

	m = update(t, m, topScoresCmd(ctx, svc, 10)())
	if m.board.loading {
		t.Error("panel should have finished loading")
	}
	if len(m.board.entries) != 2 || m.board.entries[0].Score != 20 {
		t.Fatalf("entries = %+v, want Erin first", m.board.entries)
	}

	view := m.View()
	if !strings.Contains(view, "LEADERBOARD") || !strings.Contains(view, "> Erin") {
		t.Errorf("view does not show the board:\n%s", view)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showBoard {
		t.Error("esc should close the leaderboard")
	}
}

func TestModelLeaderboardPausesPlay(t *testing.T) {
	svc, _ := localService(t, nil, leaderboard.Identity{})
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = update(t, m, TickMsg{})

	if !m.gameState.Paused {
		t.Error("opening the leaderboard while playing should pause")
	}
}

func TestModelClosingLeaderboardResumesPlay(t *testing.T) {
	svc, _ := localService(t, nil, leaderboard.Identity{})
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = update(t, m, TickMsg{})
	if !m.gameState.Paused {
		t.Fatal("opening the leaderboard while playing should pause")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, TickMsg{})
	if m.showBoard {
		t.Fatal("esc should close the leaderboard")
	}
	if m.gameState.Paused {
		t.Error("closing the leaderboard should resume the run it paused")
	}
}

func TestModelClosingLeaderboardBeforeTick(t *testing.T) {
	svc, _ := localService(t, nil, leaderboard.Identity{})
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = update(t, m, TickMsg{})

	if m.gameState.Paused {
		t.Error("a pause that never reached the game should be dropped")
	}
}

func TestModelClosingLeaderboardKeepsPlayerPause(t *testing.T) {
	svc, _ := localService(t, nil, leaderboard.Identity{})
	opts := testOptions()
	opts.Leaderboard = svc
	m := NewModel(opts)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = update(t, m, TickMsg{})
	if !m.gameState.Paused {
		t.Fatal("p should pause")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = update(t, m, TickMsg{})

	if !m.gameState.Paused {
		t.Error("the player's own pause should survive the leaderboard")
	}
}

func TestModelViewHasStatusLine(t *testing.T) {
	m := NewModel(testOptions())
	view := m.View()

	lines := strings.Split(view, "\n")
	if len(lines) != 24 {
		t.Errorf("view has %d lines, want 24", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "flap") {
		t.Errorf("status line = %q, want key help", lines[len(lines)-1])
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(testOptions())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if !next.(Model).Quitting() {
		t.Error("model should be quitting")
	}
	if next.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestModelScreenshot(t *testing.T) {
	opts := testOptions()
	opts.ScreenshotDir = t.TempDir()
	m := NewModel(opts)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	matches, err := filepath.Glob(filepath.Join(opts.ScreenshotDir, "flappy_*.txt"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("found %d screenshots, want 1", len(matches))
	}
	if !strings.Contains(m.status, "Screenshot saved") {
		t.Errorf("status = %q", m.status)
	}
}
