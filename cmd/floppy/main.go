// floppy is a terminal Flappy Bird with a shared leaderboard.
//
// Usage:
//
//	floppy play              - Play in the local terminal
//	floppy serve             - Start SSH server for remote play
//	floppy scores [player]   - Show run history, stats or the leaderboard
//	floppy config            - Print the effective game configuration
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--db <path>        - Set database path (default: ~/.floppy/floppy.db)
//	--log-file <path>  - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/floppy/internal/config"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogFile string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "floppy",
	Short: "Floppy Bird - flap through pipes in your terminal",
	Long: `Floppy Bird is a Flappy Bird clone for the terminal. Play locally or
host an SSH server, and compare scores on a shared leaderboard.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  scores   - View run history, stats and the leaderboard
  config   - Print the effective game configuration

Examples:
  floppy play
  floppy play --player alice --nickname Al
  floppy serve --ssh :2222
  floppy scores --leaderboard`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.floppy/floppy.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger opens the log destination. Without --log-file the fallback
// writer is used; the game passes io.Discard because it owns the terminal.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	w := fallback
	closer := func() {}

	if flagLogFile != "" {
		path, err := config.ExpandHome(flagLogFile)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closer, nil
}

// loadGameConfig loads the YAML configuration and applies a difficulty preset.
func loadGameConfig(path, difficulty string) (config.FlappyConfig, error) {
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return config.FlappyConfig{}, err
	}
	cfg, err := config.LoadFlappy(path)
	if err != nil {
		return config.FlappyConfig{}, err
	}
	config.ApplyFlappyPreset(&cfg, preset)
	return cfg, nil
}
