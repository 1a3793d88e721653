package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/floppy/internal/audio"
	"github.com/vovakirdan/floppy/internal/config"
	"github.com/vovakirdan/floppy/internal/core"
	"github.com/vovakirdan/floppy/internal/leaderboard"
	"github.com/vovakirdan/floppy/internal/platform/tui"
	"github.com/vovakirdan/floppy/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagDebug      bool
	flagPlayer     string
	flagNickname   string
	flagMute       bool
	flagVolume     float64
	flagAutoSubmit bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game in the local terminal.

Controls:
  Space/Up/W/click  - Flap (also starts a run)
  R/Enter           - Replay from the score board
  P/Esc             - Pause
  C                 - Connect to the leaderboard
  S                 - Submit the last score
  L                 - Show the leaderboard
  Ctrl+S            - Screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Wide pipe gaps
  normal - Classic gaps, no progression
  hard   - Starts at 30% difficulty and speeds up with the score
  fixed  - No progression, stays at config's values

Scores are submitted as --player. Without it the game is fully playable,
but the leaderboard stays read-only.

Examples:
  floppy play
  floppy play --difficulty easy
  floppy play --player alice --nickname Al --auto-submit
  floppy play --config ./my-flappy.yaml --debug`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagDebug, "debug", false, "Draw hit-boxes")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name used for leaderboard submissions")
	playCmd.Flags().StringVar(&flagNickname, "nickname", "", "Nickname shown on the leaderboard (remembered)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.5, "Sound volume from 0 to 1")
	playCmd.Flags().BoolVar(&flagAutoSubmit, "auto-submit", false, "Submit every finished run while connected")
}

func runPlay(_ *cobra.Command, _ []string) {
	gameCfg, err := loadGameConfig(flagConfig, flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns the terminal, so logs only go to --log-file.
	logger, closeLog, err := newLogger("floppy", io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Debug:    flagDebug,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	nickname := resolveNickname(store, flagNickname, logger)
	svc := newLocalService(gameCfg.Leaderboard, store, leaderboard.NewIdentity(flagPlayer, "", nickname), logger)

	var player *audio.Player
	if !flagMute {
		player = audio.NewPlayer(flagVolume)
		if err := player.Init(); err != nil {
			logger.Warn("sound disabled", "err", err)
		}
		defer player.Close()
	}

	runErr := tui.Run(tui.Options{
		Runtime:     cfg,
		Flappy:      gameCfg,
		Store:       store,
		Leaderboard: svc,
		Audio:       player,
		Logger:      logger,
		AutoSubmit:  flagAutoSubmit || gameCfg.Leaderboard.AutoSubmit,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// resolveNickname remembers a new nickname, or recalls the stored one.
func resolveNickname(store *storage.Store, nickname string, logger *log.Logger) string {
	if store == nil {
		return nickname
	}
	if nickname != "" {
		if err := store.SetNickname(nickname); err != nil {
			logger.Warn("could not remember nickname", "err", err)
		}
		return nickname
	}
	saved, err := store.Nickname()
	if err != nil {
		logger.Warn("could not load nickname", "err", err)
	}
	return saved
}

// newLocalService builds the leaderboard facade for a local player: the
// SQLite store is the primary backend and the YAML file the fallback.
func newLocalService(lb config.LeaderboardConfig, store *storage.Store, id leaderboard.Identity, logger *log.Logger) *leaderboard.Service {
	var primary leaderboard.Backend
	if store != nil {
		primary = store
	}

	var fallback leaderboard.Backend
	if lb.FallbackPath != "" {
		if path, err := config.ExpandHome(lb.FallbackPath); err == nil {
			fallback = leaderboard.NewFileBackend(path)
		}
	}

	return leaderboard.NewService(primary, fallback,
		leaderboard.WithIdentity(id),
		leaderboard.WithTimeout(lb.Timeout()),
		leaderboard.WithRetries(lb.Retries),
		leaderboard.WithLogger(logger),
	)
}
