package flappy

import (
	"github.com/vovakirdan/floppy/internal/core"
)

// Snapshot is a read-only view of the session for renderers and tests.
// During the game over fall BirdY and Rotation are the animated display
// values; the simulated bird itself stays frozen.
type Snapshot struct {
	Screen        ScreenState
	Phase         GameOverPhase
	PhaseProgress float64
	Paused        bool

	BirdY    float64
	Rotation float64
	Hitbox   core.Box
	Pipes    []Pipe

	Score       int
	HighScore   int
	FinalScore  int
	NewBest     bool
	Medal       Medal
	Cause       CollisionCause
	ReplayReady bool
}

// Snapshot captures the current session state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Screen:        g.screen,
		Phase:         g.over.phase,
		PhaseProgress: g.over.progress(),
		Paused:        g.paused,
		BirdY:         g.bird.Y,
		Rotation:      g.bird.Rotation(),
		Pipes:         append([]Pipe(nil), g.pipes.Pipes()...),
		Score:         g.score,
		HighScore:     g.highScore,
		FinalScore:    g.finalScore,
		NewBest:       g.newBest,
		Cause:         g.cause,
		ReplayReady:   g.over.phase == PhaseReady,
	}

	if g.screen == ScreenGameOver {
		s.BirdY, s.Rotation = g.fallPosition()
		s.Medal = MedalFor(g.finalScore)
	}
	s.Hitbox = g.collision.Hitbox(s.BirdY, s.Rotation)
	return s
}

// groundY is the sprite y at which a nose-down bird rests on the floor.
func (g *Game) groundY() float64 {
	p := g.cfg.Player
	return g.cfg.World.FlyAreaHeight - (p.Width+p.Height)/2
}

// fallPosition interpolates the bird from where it died to the ground.
func (g *Game) fallPosition() (y, rotation float64) {
	ground := g.groundY()
	from := min(g.fallFrom.Y, ground)
	fromRot := g.fallFrom.Rotation()

	if g.over.phase != PhaseFalling {
		return ground, 90
	}
	t := easeInOutCubic(g.over.progress())
	return from + (ground-from)*t, fromRot + (90-fromRot)*t
}
