package core

// Action is a semantic input, decoupled from the physical key or mouse button.
type Action int

const (
	ActionNone        Action = iota
	ActionFlap               // Space, Up, W, left click - start a game or jump
	ActionReplay             // R, Enter - leave the score board
	ActionPause              // P, Esc - pause/unpause while playing
	ActionQuit               // Q, Ctrl+C
	ActionConnect            // C - connect a player identity
	ActionSubmit             // S - submit the last score to the leaderboard
	ActionLeaderboard        // L - toggle the leaderboard panel
	ActionScreenshot         // Ctrl+S
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionFlap:
		return "Flap"
	case ActionReplay:
		return "Replay"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	case ActionConnect:
		return "Connect"
	case ActionSubmit:
		return "Submit"
	case ActionLeaderboard:
		return "Leaderboard"
	case ActionScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
