package core

import "time"

// ReferenceTickRate is the cadence the physics constants are tuned for.
const ReferenceTickRate = 60

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
	Debug    bool  // Draw hit-boxes
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: ReferenceTickRate,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the wall-clock length of one tick.
func (c RuntimeConfig) TickDuration() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = ReferenceTickRate
	}
	return time.Second / time.Duration(rate)
}

// TickScale returns the length of one tick measured in reference ticks.
// Per-tick physics constants are multiplied by it so that the game feels the
// same at any tick rate.
func (c RuntimeConfig) TickScale() float64 {
	if c.TickRate <= 0 {
		return 1
	}
	return float64(ReferenceTickRate) / float64(c.TickRate)
}

// GameState summarizes the game for the platform.
type GameState struct {
	Score     int  // Current score
	HighScore int  // Best score seen by this process
	GameOver  bool // Whether the last session has ended
	Paused    bool // Whether the game is paused
}

// EventKind identifies a side effect requested by the simulation.
type EventKind int

const (
	EventFlap         EventKind = iota // bird jumped
	EventPoint                         // pipe passed, score increased
	EventHit                           // terminal collision
	EventDie                           // bird reached the ground after a hit
	EventSwoosh                        // screen transition
	EventGameOver                      // session ended; Value holds the final score
	EventNewHighScore                  // Value holds the new high score
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventFlap:
		return "Flap"
	case EventPoint:
		return "Point"
	case EventHit:
		return "Hit"
	case EventDie:
		return "Die"
	case EventSwoosh:
		return "Swoosh"
	case EventGameOver:
		return "GameOver"
	case EventNewHighScore:
		return "NewHighScore"
	default:
		return "Unknown"
	}
}

// Event is a side effect emitted during a tick. The platform owns sound and I/O;
// the simulation only reports what happened.
type Event struct {
	Kind  EventKind
	Value int
}

// StepResult is returned by Step after each simulation tick.
type StepResult struct {
	State  GameState
	Events []Event
}

// Has reports whether an event of the given kind was emitted.
func (r StepResult) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
