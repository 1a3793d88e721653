package flappy

import (
	"math"

	"github.com/vovakirdan/floppy/internal/config"
	"github.com/vovakirdan/floppy/internal/core"
)

// CollisionCause describes what ended a session.
type CollisionCause int

const (
	CauseNone CollisionCause = iota
	CauseGround
	CausePipe
)

// String returns a human-readable name for the cause.
func (c CollisionCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseGround:
		return "ground"
	case CausePipe:
		return "pipe"
	default:
		return "unknown"
	}
}

// Outcome is the result of one collision pass.
type Outcome struct {
	Terminal bool
	Cause    CollisionCause
	Scored   int  // Pipes passed this tick
	Ceiling  bool // Bird was clamped to the ceiling
}

// CollisionEngine evaluates the bird against the world boundaries and pipes.
// All geometry is derived from simulation state and fixed sprite sizes.
type CollisionEngine struct {
	player    config.FlappyPlayer
	world     config.FlappyWorld
	pipeWidth float64
	tolerance float64
}

// NewCollisionEngine creates an engine for the given configuration.
func NewCollisionEngine(cfg config.FlappyConfig) *CollisionEngine {
	return &CollisionEngine{
		player:    cfg.Player,
		world:     cfg.World,
		pipeWidth: cfg.Obstacles.PipeWidth,
		tolerance: cfg.Obstacles.EdgeTolerance,
	}
}

// Bounds returns the axis-aligned bounding box of the rotated bird sprite.
func (e *CollisionEngine) Bounds(y, rotation float64) core.Box {
	rad := rotation * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	w, h := e.player.Width, e.player.Height

	boxW := w*cos + h*sin
	boxH := w*sin + h*cos
	cx := e.player.X + w/2
	cy := y + h/2
	return core.NewBox(cx-boxW/2, cy-boxH/2, boxW, boxH)
}

// Hitbox returns the bird's collision box. It is narrower than the sprite
// when tilted and vertically centred inside the rotated bounds.
func (e *CollisionEngine) Hitbox(y, rotation float64) core.Box {
	bounds := e.Bounds(y, rotation)
	w := e.player.Width - math.Sin(math.Abs(rotation)/90)*e.player.HitboxShrink
	h := (e.player.Height + bounds.Height) / 2
	left := bounds.Left + (bounds.Width-w)/2
	top := bounds.Top + (bounds.Height-h)/2
	return core.NewBox(left, top, w, h)
}

// PipeColumns returns the solid upper and lower boxes of a pipe as the engine sees them.
func (e *CollisionEngine) PipeColumns(p Pipe) (upper, lower core.Box) {
	left := p.X - e.tolerance
	return p.UpperBox(left, e.pipeWidth), p.LowerBox(left, e.pipeWidth, e.world.FlyAreaHeight)
}

// Check runs one collision pass. It may clamp the bird to the ceiling and
// marks pipes as passed. A terminal outcome never scores.
func (e *CollisionEngine) Check(bird *Bird, pipes []Pipe) Outcome {
	var out Outcome

	if e.Bounds(bird.Y, bird.Rotation()).Bottom() >= e.world.FlyAreaHeight {
		out.Terminal = true
		out.Cause = CauseGround
		return out
	}

	// Ceiling contact clamps position only; velocity is left untouched.
	hitbox := e.Hitbox(bird.Y, bird.Rotation())
	if hitbox.Top <= e.world.Ceiling {
		bird.Y = e.world.Ceiling
		out.Ceiling = true
		hitbox = e.Hitbox(bird.Y, bird.Rotation())
	}

	for _, p := range pipes {
		upper, lower := e.PipeColumns(p)
		if hitbox.Intersects(upper) || hitbox.Intersects(lower) {
			out.Terminal = true
			out.Cause = CausePipe
			return out
		}
	}

	for i := range pipes {
		if pipes[i].Passed {
			continue
		}
		if hitbox.Left > pipes[i].X-e.tolerance+e.pipeWidth {
			pipes[i].Passed = true
			out.Scored++
		}
	}

	return out
}
