package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/floppy/internal/audio"
	"github.com/vovakirdan/floppy/internal/config"
	"github.com/vovakirdan/floppy/internal/core"
	"github.com/vovakirdan/floppy/internal/games/flappy"
	"github.com/vovakirdan/floppy/internal/leaderboard"
	"github.com/vovakirdan/floppy/internal/storage"
)

// LocalPlayer keys the run history of players without an identity.
const LocalPlayer = "local"

var (
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Options wires a Model to its collaborators. Only Flappy is required.
type Options struct {
	Runtime       core.RuntimeConfig
	Flappy        config.FlappyConfig
	Store         *storage.Store       // Run history and durable high score
	Leaderboard   *leaderboard.Service // Shared scores
	Audio         *audio.Player
	Logger        *log.Logger
	Context       context.Context // Cancels outstanding leaderboard calls
	AutoSubmit    bool            // Submit every finished run while connected
	PlayerScores  bool            // Key the durable high score by player (shared stores)
	ScreenshotDir string          // Defaults to ~/.floppy/screenshots
}

// Messages delivered by the asynchronous leaderboard commands.
type (
	connectedMsg struct {
		identity leaderboard.Identity
		best     *leaderboard.Entry
		err      error
	}

	submittedMsg struct {
		score int
		saved bool
		err   error
	}

	topScoresMsg struct {
		entries []leaderboard.Entry
		err     error
	}
)

// Model is the Bubble Tea model running one game session.
type Model struct {
	ctx        context.Context
	game       *flappy.Game
	screen     *core.Screen
	store      *storage.Store
	service    *leaderboard.Service
	audio      *audio.Player
	logger     *log.Logger
	config     core.RuntimeConfig
	opts       Options
	keyMapper  *KeyMapper
	help       help.Model
	spinner    spinner.Model
	board      leaderboardPanel
	inputFrame core.InputFrame
	gameState  core.GameState
	identity   leaderboard.Identity
	connected  bool
	lastScore  int // Final score of the last run, captured at game over
	submitted  bool
	submitting bool
	showBoard  bool
	boardPause bool // The panel paused the running game
	status     string
	statusErr  bool
	quitting   bool
}

// NewModel creates a model and resets the game to the splash screen.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.ReferenceTickRate
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		ctx:        ctx,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      opts.Store,
		service:    opts.Leaderboard,
		audio:      opts.Audio,
		logger:     logger,
		config:     cfg,
		opts:       opts,
		keyMapper:  NewKeyMapper(),
		help:       h,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		board:      newLeaderboardPanel(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		inputFrame: core.NewInputFrame(),
	}
	if m.service != nil {
		m.identity = m.service.Identity()
		if m.identity.Valid() {
			m.status = fmt.Sprintf("Connecting as %s...", m.identity.DisplayName())
		}
	}

	m.game = flappy.New(opts.Flappy, flappy.WithHighScore(m.loadHighScore()))
	m.game.Reset(cfg)
	m.gameState = m.game.State()
	logger.Debug("game ready", "game", m.game.Title(), "high_score", m.game.HighScore())
	return m
}

// highScorePlayer returns the player whose high score this session keeps,
// or "" when the store holds a single shared value.
func (m Model) highScorePlayer() string {
	if !m.opts.PlayerScores {
		return ""
	}
	if m.identity.Valid() {
		return m.identity.Player
	}
	return LocalPlayer
}

func (m Model) loadHighScore() int {
	if m.store == nil {
		return 0
	}
	var (
		hs  int
		err error
	)
	if player := m.highScorePlayer(); player != "" {
		hs, err = m.store.PlayerHighScoreValue(player)
	} else {
		hs, err = m.store.HighScoreValue()
	}
	if err != nil {
		m.logger.Warn("could not load high score", "err", err)
	}
	return hs
}

func (m Model) persistHighScore(score int) {
	if m.store == nil {
		return
	}
	var err error
	if player := m.highScorePlayer(); player != "" {
		err = m.store.SetPlayerHighScoreValue(player, score)
	} else {
		err = m.store.SetHighScoreValue(score)
	}
	if err != nil {
		m.logger.Error("could not persist high score", "score", score, "err", err)
	}
}

// gameHeight leaves the last terminal row for the status line.
func gameHeight(h int) int {
	return max(h-1, 1)
}

// Init starts the tick loop and connects players that already have an identity.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.config.TickDuration())}
	if m.service != nil && m.identity.Valid() {
		cmds = append(cmds, connectCmd(m.ctx, m.service))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.showBoard {
			if action := m.keyMapper.MapMouse(msg); action != core.ActionNone {
				m.inputFrame.Set(action)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		if !m.submitting && !m.board.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectedMsg:
		return m.handleConnected(msg)

	case submittedMsg:
		return m.handleSubmitted(msg)

	case topScoresMsg:
		m.board.Refresh(msg.entries, m.identity.Player, msg.err)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKey(msg)

	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
		return m, nil
	case core.ActionLeaderboard:
		return m.toggleBoard()
	}

	if m.showBoard {
		if action == core.ActionPause {
			return m.toggleBoard()
		}
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, cmd
	}

	switch action {
	case core.ActionConnect:
		return m.connect()
	case core.ActionSubmit:
		return m.submit(m.lastScore)
	default:
		if isGameAction(action) {
			m.inputFrame.Set(action)
		}
	}
	return m, nil
}

// handleResize refits the screen. World coordinates do not depend on the
// terminal size, so the running game keeps going.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.board.SetSize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickDuration())}
	if cmd := m.handleEvents(result.Events); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleEvents performs the side effects the simulation asked for.
func (m *Model) handleEvents(events []core.Event) tea.Cmd {
	if m.audio != nil {
		m.audio.PlayAll(events)
	}

	var cmd tea.Cmd
	for _, e := range events {
		switch e.Kind {
		case core.EventNewHighScore:
			m.persistHighScore(e.Value)

		case core.EventGameOver:
			m.lastScore = e.Value
			m.logger.Info("run finished", "score", e.Value, "round", m.game.Sessions())
			m.submitted = false
			m.saveRun(e.Value)
			if m.opts.AutoSubmit && m.connected && e.Value > 0 {
				var next tea.Model
				next, cmd = m.submit(e.Value)
				*m = next.(Model)
			}
		}
	}
	return cmd
}

// saveRun records a finished run in the history table.
func (m *Model) saveRun(score int) {
	if m.store == nil || score <= 0 {
		return
	}
	player := LocalPlayer
	if m.identity.Valid() {
		player = m.identity.Player
	}
	if _, err := m.store.SaveScore(player, score); err != nil {
		m.logger.Error("could not save run", "player", player, "score", score, "err", err)
	}
}

func (m Model) connect() (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m.setStatus("No leaderboard configured", true), nil
	}
	m = m.setStatus("Connecting...", false)
	return m, connectCmd(m.ctx, m.service)
}

func (m Model) handleConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.connected = false
		if errors.Is(msg.err, leaderboard.ErrNoIdentity) {
			return m.setStatus("No player identity: start with --player", true), nil
		}
		return m.setStatus("Connect failed: "+msg.err.Error(), true), nil
	}

	m.connected = true
	m.identity = msg.identity
	if msg.best != nil && m.game.RaiseHighScore(msg.best.Score) {
		m.persistHighScore(msg.best.Score)
	}
	return m.setStatus("Connected as "+m.identity.DisplayName(), false), nil
}

// submit starts an asynchronous submission of score.
func (m Model) submit(score int) (tea.Model, tea.Cmd) {
	switch {
	case m.service == nil:
		return m.setStatus("No leaderboard configured", true), nil
	case !m.identity.Valid():
		return m.setStatus("Connect first (press C)", true), nil
	case m.submitting:
		return m, nil
	case score <= 0:
		return m.setStatus("Nothing to submit yet", false), nil
	case m.submitted:
		return m.setStatus(fmt.Sprintf("Score %d already submitted", score), false), nil
	}

	m.submitting = true
	m = m.setStatus(fmt.Sprintf("Submitting %d...", score), false)
	return m, tea.Batch(submitCmd(m.ctx, m.service, m.identity, score), m.spinner.Tick)
}

func (m Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	var cerr *leaderboard.ConnectionError
	switch {
	case msg.err == nil && msg.saved:
		m.submitted = true
		m = m.setStatus(fmt.Sprintf("Score %d submitted", msg.score), false)
	case msg.err == nil:
		m.submitted = true
		m = m.setStatus(fmt.Sprintf("Score %d does not beat your best", msg.score), false)
	case msg.saved && errors.As(msg.err, &cerr):
		m.submitted = true
		m = m.setStatus(fmt.Sprintf("%s unreachable, score %d saved locally", cerr.Backend, msg.score), true)
	default:
		m = m.setStatus("Submit failed: "+msg.err.Error(), true)
	}

	if m.showBoard {
		m.board.SetLoading()
		return m, topScoresCmd(m.ctx, m.service, m.leaderboardLimit())
	}
	return m, nil
}

func (m Model) toggleBoard() (tea.Model, tea.Cmd) {
	if m.showBoard {
		m.showBoard = false
		if m.boardPause {
			// Resume only the pause the panel asked for.
			switch {
			case m.inputFrame.Has(core.ActionPause):
				delete(m.inputFrame.Actions, core.ActionPause)
			case m.game.Screen() == flappy.ScreenPlaying && m.gameState.Paused:
				m.inputFrame.Set(core.ActionPause)
			}
		}
		m.boardPause = false
		return m, nil
	}
	if m.service == nil {
		return m.setStatus("No leaderboard configured", true), nil
	}

	m.showBoard = true
	if m.game.Screen() == flappy.ScreenPlaying && !m.gameState.Paused {
		m.inputFrame.Set(core.ActionPause)
		m.boardPause = true
	}
	m.board.SetLoading()
	return m, tea.Batch(topScoresCmd(m.ctx, m.service, m.leaderboardLimit()), m.spinner.Tick)
}

func (m Model) leaderboardLimit() int {
	if l := m.opts.Flappy.Leaderboard.Limit; l > 0 {
		return l
	}
	return leaderboard.DefaultLimit
}

func (m Model) setStatus(text string, isErr bool) Model {
	m.status = text
	m.statusErr = isErr
	return m
}

// saveScreenshot saves the current screen to a text file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.logger.Warn("cannot resolve screenshot directory", "err", err)
			return
		}
		dir = filepath.Join(home, ".floppy", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "dir", dir, "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "path", path, "err", err)
		return
	}
	*m = m.setStatus("Screenshot saved to "+path, false)
}

// View renders the game, or the leaderboard panel, above the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.showBoard {
		body = lipgloss.PlaceVertical(m.screen.Height(), lipgloss.Center, m.board.View())
	} else {
		m.game.Render(m.screen)
		body = RenderScreen(m.screen)
	}
	return body + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	if m.status == "" {
		return m.help.View(m.keyMapper.Keys())
	}

	text := m.status
	if m.submitting || (m.showBoard && m.board.loading) {
		text = m.spinner.View() + " " + text
	}
	if m.statusErr {
		return statusErrorStyle.Render(text)
	}
	return statusStyle.Render(text)
}

// Quitting reports whether the player asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

func connectCmd(ctx context.Context, svc *leaderboard.Service) tea.Cmd {
	return func() tea.Msg {
		id, err := svc.Connect(ctx)
		if err != nil {
			return connectedMsg{err: err}
		}
		// A failed lookup only means the high score is not raised.
		best, _ := svc.PlayerScore(ctx, id)
		return connectedMsg{identity: id, best: best}
	}
}

func submitCmd(ctx context.Context, svc *leaderboard.Service, id leaderboard.Identity, score int) tea.Cmd {
	return func() tea.Msg {
		saved, err := svc.SubmitScore(ctx, id, score)
		return submittedMsg{score: score, saved: saved, err: err}
	}
}

func topScoresCmd(ctx context.Context, svc *leaderboard.Service, limit int) tea.Cmd {
	return func() tea.Msg {
		entries, err := svc.TopScores(ctx, limit)
		return topScoresMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
