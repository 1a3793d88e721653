// Package tui runs the game inside Bubble Tea. It owns the tick loop, input
// mapping, sound, score persistence and the leaderboard panel; the game
// itself only simulates and draws into a core.Screen.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a command that sends the next tick after one tick period.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
