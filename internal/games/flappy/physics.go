package flappy

import "github.com/vovakirdan/floppy/internal/core"

// Bird is the player's vertical state. Velocity is in world units per
// reference tick; positive values move the bird down.
type Bird struct {
	Y        float64
	Velocity float64
}

// ApplyGravity integrates one tick of constant acceleration.
// dt is the tick length in reference ticks (1 at 60 FPS).
func (b *Bird) ApplyGravity(gravity, dt float64) {
	b.Velocity += gravity * dt
	b.Y += b.Velocity * dt
}

// Jump replaces the current velocity with the jump impulse.
func (b *Bird) Jump(impulse float64) {
	b.Velocity = impulse
}

// CapFallSpeed limits downward velocity. A zero limit disables the cap.
func (b *Bird) CapFallSpeed(limit float64) {
	if limit > 0 && b.Velocity > limit {
		b.Velocity = limit
	}
}

// Rotation returns the sprite tilt in degrees, derived from velocity.
func (b Bird) Rotation() float64 {
	return core.ClampF(b.Velocity/10*90, -90, 90)
}
