package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/floppy/internal/core"
)

// KeyMap defines the key bindings of the game screen.
type KeyMap struct {
	Flap        key.Binding
	Replay      key.Binding
	Pause       key.Binding
	Connect     key.Binding
	Submit      key.Binding
	Leaderboard key.Binding
	Screenshot  key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flap, k.Pause, k.Submit, k.Leaderboard, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flap, k.Replay, k.Pause},
		{k.Connect, k.Submit, k.Leaderboard},
		{k.Screenshot, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Flap: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "flap"),
		),
		Replay: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "replay"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Connect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "connect"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit"),
		),
		Leaderboard: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "leaderboard"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key and mouse messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to an action (may be ActionNone).
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Screenshot):
		return core.ActionScreenshot
	case key.Matches(msg, k.Flap):
		return core.ActionFlap
	case key.Matches(msg, k.Replay):
		return core.ActionReplay
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Connect):
		return core.ActionConnect
	case key.Matches(msg, k.Submit):
		return core.ActionSubmit
	case key.Matches(msg, k.Leaderboard):
		return core.ActionLeaderboard
	}
	return core.ActionNone
}

// MapMouse translates a mouse message. A left click anywhere below the HUD
// row flaps.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) core.Action {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return core.ActionNone
	}
	if msg.Y == 0 {
		return core.ActionNone
	}
	return core.ActionFlap
}

// isGameAction reports whether the simulation consumes the action.
// The rest are handled by the platform.
func isGameAction(a core.Action) bool {
	switch a {
	case core.ActionFlap, core.ActionReplay, core.ActionPause:
		return true
	}
	return false
}
