package flappy

import (
	"math"

	"github.com/vovakirdan/floppy/internal/core"
)

// Pipe is a pair of solid columns with a gap between them.
// GapTop is the height of the upper column, GapBottom the height of the lower
// one; both are measured from the edges of the fly area.
type Pipe struct {
	X         float64 // Left edge
	GapTop    float64
	GapBottom float64
	Passed    bool // Set once the bird has cleared the pipe
}

// GapEnd returns the y-coordinate where the lower column starts.
func (p Pipe) GapEnd(flyArea float64) float64 {
	return flyArea - p.GapBottom
}

// UpperBox returns the upper column as a box starting at left.
func (p Pipe) UpperBox(left, width float64) core.Box {
	return core.NewBox(left, 0, width, p.GapTop)
}

// LowerBox returns the lower column as a box starting at left.
func (p Pipe) LowerBox(left, width, flyArea float64) core.Box {
	return core.NewBox(left, p.GapEnd(flyArea), width, p.GapBottom)
}

// Random is the uniform source used to place gaps. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// PipeManager owns the active pipes in spawn order.
type PipeManager struct {
	pipes    []Pipe
	rng      Random
	spawnX   float64
	cleanupX float64
}

// NewPipeManager creates a manager that spawns pipes at spawnX and removes
// them once they reach cleanupX.
func NewPipeManager(rng Random, spawnX, cleanupX float64) *PipeManager {
	return &PipeManager{
		pipes:    make([]Pipe, 0, 8),
		rng:      rng,
		spawnX:   spawnX,
		cleanupX: cleanupX,
	}
}

// Reset clears all pipes and swaps the random source.
func (pm *PipeManager) Reset(rng Random) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rng
}

// Clear removes all pipes.
func (pm *PipeManager) Clear() {
	pm.pipes = pm.pipes[:0]
}

// Spawn appends a pipe at the right edge with a random gap position and returns it.
func (pm *PipeManager) Spawn(flyArea, gapHeight, padding float64) Pipe {
	span := flyArea - gapHeight - 2*padding
	if span < 0 {
		span = 0
	}
	top := math.Floor(pm.rng.Float64()*span + padding)

	pipe := Pipe{
		X:         pm.spawnX,
		GapTop:    top,
		GapBottom: (flyArea - gapHeight) - top,
	}
	pm.pipes = append(pm.pipes, pipe)
	return pipe
}

// Advance scrolls every pipe left by dx.
func (pm *PipeManager) Advance(dx float64) {
	for i := range pm.pipes {
		pm.pipes[i].X -= dx
	}
}

// Prune removes pipes at or beyond the cleanup line and returns how many were removed.
func (pm *PipeManager) Prune() int {
	kept := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.X > pm.cleanupX {
			kept = append(kept, p)
		}
	}
	removed := len(pm.pipes) - len(kept)
	pm.pipes = kept
	return removed
}

// Pipes returns the active pipes. The slice is owned by the manager.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}
