package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/floppy/internal/config"
	"github.com/vovakirdan/floppy/internal/leaderboard"
	"github.com/vovakirdan/floppy/internal/platform/tui"
	"github.com/vovakirdan/floppy/internal/storage"
)

var (
	flagLimit       int
	flagStats       bool
	flagLeaderboard bool
	flagClear       bool
	flagRecent      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [player]",
	Short: "Show run history, stats or the leaderboard",
	Long: `Display the best runs recorded in the scores database.

Without a player the runs of the local player are shown. Runs played with
--player are recorded under that name.

Examples:
  floppy scores
  floppy scores alice --recent
  floppy scores --stats
  floppy scores --leaderboard
  floppy scores alice --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-player statistics")
	scoresCmd.Flags().BoolVar(&flagLeaderboard, "leaderboard", false, "Show the leaderboard (with local fallback)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the run history of the player")
	scoresCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML (leaderboard settings)")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Order runs by date instead of score")
}

func runScores(_ *cobra.Command, args []string) {
	player := tui.LocalPlayer
	if len(args) == 1 {
		player = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		err = store.ClearScores(player)
		if err == nil {
			fmt.Printf("Cleared the run history of %s.\n", player)
		}
	case flagStats:
		err = printStats(store)
	case flagLeaderboard:
		err = printLeaderboard(store)
	default:
		err = printRuns(store, player)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printRuns(store *storage.Store, player string) error {
	var runs []storage.ScoreEntry
	var err error
	if flagRecent {
		runs, err = store.RecentRuns(player, flagLimit)
	} else {
		runs, err = store.TopRuns(player, flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Runs - %s\n", player)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'floppy play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range runs {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScoreValue(); err == nil && best > 0 {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printStats(store *storage.Store) error {
	all, err := store.GetAllPlayerStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	players := make([]string, 0, len(all))
	for p := range all {
		players = append(players, p)
	}
	sort.Strings(players)

	fmt.Printf("  %-24s  %-6s  %-6s  %-7s  %s\n", "Player", "Runs", "Best", "Avg", "Last played")
	fmt.Printf("  %-24s  %-6s  %-6s  %-7s  %s\n", "------", "----", "----", "---", "-----------")
	for _, p := range players {
		s := all[p]
		fmt.Printf("  %-24s  %-6d  %-6d  %-7.1f  %s\n",
			s.Player, s.GamesCount, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printLeaderboard(store *storage.Store) error {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return err
	}
	svc := newLocalService(cfg.Leaderboard, store, leaderboard.Identity{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := svc.TopScores(ctx, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Leaderboard")
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("No scores submitted yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "----", "------", "-----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-16s  %-6d  %s\n", i+1, e.Nickname, e.Score, e.Timestamp.Format("2006-01-02 15:04"))
	}
	return nil
}
