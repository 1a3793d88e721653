package flappy

import (
	"time"

	"github.com/vovakirdan/floppy/internal/config"
	"github.com/vovakirdan/floppy/internal/core"
)

// ScreenState is the active top-level screen.
type ScreenState int

const (
	ScreenSplash ScreenState = iota
	ScreenPlaying
	ScreenGameOver
)

// String returns a human-readable name for the screen.
func (s ScreenState) String() string {
	switch s {
	case ScreenSplash:
		return "splash"
	case ScreenPlaying:
		return "playing"
	case ScreenGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameOverPhase is the step of the game over sequence.
type GameOverPhase int

const (
	PhaseNone       GameOverPhase = iota
	PhaseFalling                  // bird drops to the ground
	PhaseScoreboard               // score board slides in
	PhaseReady                    // replay accepted
	PhaseExiting                  // replay cooldown, input ignored
)

// String returns a human-readable name for the phase.
func (p GameOverPhase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseFalling:
		return "falling"
	case PhaseScoreboard:
		return "scoreboard"
	case PhaseReady:
		return "ready"
	case PhaseExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// choreography sequences the game over screen with timed phases.
type choreography struct {
	phase   GameOverPhase
	elapsed time.Duration
	timing  config.FlappyTiming
}

func (c *choreography) start() {
	c.phase = PhaseFalling
	c.elapsed = 0
}

func (c *choreography) reset() {
	c.phase = PhaseNone
	c.elapsed = 0
}

// duration returns the length of a timed phase; Ready and None are untimed.
func (c *choreography) duration(p GameOverPhase) (time.Duration, bool) {
	switch p {
	case PhaseFalling:
		return time.Duration(c.timing.FallMS) * time.Millisecond, true
	case PhaseScoreboard:
		return time.Duration(c.timing.ScoreboardMS) * time.Millisecond, true
	case PhaseExiting:
		return time.Duration(c.timing.ReplayCooldownMS) * time.Millisecond, true
	default:
		return 0, false
	}
}

// progress returns how far the current phase is, from 0 to 1.
func (c *choreography) progress() float64 {
	d, timed := c.duration(c.phase)
	if !timed {
		return 1
	}
	if d <= 0 {
		return 1
	}
	return core.ClampF(float64(c.elapsed)/float64(d), 0, 1)
}

// replay starts the exit cooldown. It only succeeds while the board is ready.
func (c *choreography) replay() bool {
	if c.phase != PhaseReady {
		return false
	}
	c.phase = PhaseExiting
	c.elapsed = 0
	return true
}

// advance moves the sequence forward. It returns the events of the phases
// entered and whether the exit cooldown has finished.
func (c *choreography) advance(dt time.Duration) (events []core.Event, done bool) {
	if _, timed := c.duration(c.phase); !timed {
		return nil, false
	}
	c.elapsed += dt

	for {
		d, timed := c.duration(c.phase)
		if !timed || c.elapsed < d {
			return events, false
		}
		c.elapsed -= d

		switch c.phase {
		case PhaseFalling:
			c.phase = PhaseScoreboard
			events = append(events, core.Event{Kind: core.EventDie}, core.Event{Kind: core.EventSwoosh})
		case PhaseScoreboard:
			c.phase = PhaseReady
			c.elapsed = 0
		case PhaseExiting:
			c.reset()
			return events, true
		}
	}
}

// easeInOutCubic shapes the fall animation.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}
