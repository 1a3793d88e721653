// Package core provides the platform-neutral building blocks shared by the game
// and the terminal front end: geometry, the character screen buffer, input
// actions and per-tick results. It has no Bubble Tea dependency so that the
// simulation stays pure and testable.
package core

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box in world units.
// The simulation works in these units; the renderer scales them to cells.
type Box struct {
	Left, Top     float64
	Width, Height float64
}

// NewBox creates a box from its top-left corner and size.
func NewBox(left, top, width, height float64) Box {
	return Box{Left: left, Top: top, Width: width, Height: height}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Top + b.Height
}

// Intersects reports whether two boxes overlap.
// Boxes that only touch along an edge do not intersect.
func (b Box) Intersects(other Box) bool {
	if b.Left >= other.Right() || other.Left >= b.Right() {
		return false
	}
	if b.Top >= other.Bottom() || other.Top >= b.Bottom() {
		return false
	}
	return true
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
