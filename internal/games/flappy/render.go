package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/floppy/internal/core"
)

// Visual characters for rendering
const (
	BirdBodyChar  = '●'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '═'
	HitboxChar    = '+'
)

// viewport maps world units onto screen cells. Row 0 holds the HUD and the
// last row the ground; the fly area fills the rows in between.
type viewport struct {
	cols, rows int
	sx, sy     float64
}

func newViewport(dst *core.Screen, worldW, flyArea float64) viewport {
	rows := max(dst.Height()-2, 1)
	return viewport{
		cols: dst.Width(),
		rows: rows,
		sx:   float64(dst.Width()) / worldW,
		sy:   float64(rows) / flyArea,
	}
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x * v.sx))
}

func (v viewport) row(y float64) int {
	return 1 + int(math.Floor(y*v.sy))
}

func (v viewport) groundRow() int {
	return v.rows + 1
}

// rect converts a world box to a cell rectangle at least one cell in size.
func (v viewport) rect(b core.Box) core.Rect {
	x0, y0 := v.col(b.Left), v.row(b.Top)
	x1, y1 := v.col(b.Right()), v.row(b.Bottom())
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// Render draws the current session to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.Snapshot()
	vp := newViewport(dst, g.cfg.World.Width, g.cfg.World.FlyAreaHeight)

	dst.DrawHLine(0, vp.groundRow(), dst.Width(), GroundChar, core.ColorOrange)

	for _, p := range snap.Pipes {
		g.drawPipe(dst, vp, p)
	}
	g.drawBird(dst, vp, snap)

	if g.runtime.Debug {
		g.drawDebug(dst, vp, snap)
	}

	g.drawHUD(dst, snap)

	switch snap.Screen {
	case ScreenSplash:
		g.drawSplash(dst, snap)
	case ScreenPlaying:
		if snap.Paused {
			drawMessage(dst, (dst.Height()-5)/2, core.ColorYellow, "PAUSED", "Press P to resume")
		}
	case ScreenGameOver:
		g.drawScoreboard(dst, snap)
	}
}

func (g *Game) drawPipe(dst *core.Screen, vp viewport, p Pipe) {
	left := vp.col(p.X)
	width := max(vp.col(p.X+g.cfg.Obstacles.PipeWidth)-left, 1)
	upperEnd := vp.row(p.GapTop)
	lowerStart := vp.row(p.GapEnd(g.cfg.World.FlyAreaHeight))
	ground := vp.groundRow()

	for x := left; x < left+width; x++ {
		for y := 1; y < upperEnd; y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		if upperEnd > 1 {
			dst.SetColored(x, upperEnd-1, PipeCapTop, core.ColorBrightGreen)
		}
		for y := lowerStart; y < ground; y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		if lowerStart < ground {
			dst.SetColored(x, lowerStart, PipeCapBottom, core.ColorBrightGreen)
		}
	}
}

// beak picks the head glyph for the bird's tilt.
func beak(rotation float64) rune {
	switch {
	case rotation >= 60:
		return '▼'
	case rotation >= 20:
		return '◢'
	case rotation <= -20:
		return '◥'
	default:
		return '▶'
	}
}

func (g *Game) drawBird(dst *core.Screen, vp viewport, snap Snapshot) {
	p := g.cfg.Player
	r := vp.rect(core.NewBox(p.X, snap.BirdY, p.Width, p.Height))
	r.Y = core.Clamp(r.Y, 1, vp.rows)

	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			dst.SetColored(x, y, BirdBodyChar, core.ColorBrightYellow)
		}
	}
	dst.SetColored(r.Right()-1, r.Y, beak(snap.Rotation), core.ColorOrange)
}

// drawDebug outlines the bird hit-box and the pipe columns.
func (g *Game) drawDebug(dst *core.Screen, vp viewport, snap Snapshot) {
	for _, p := range snap.Pipes {
		upper, lower := g.collision.PipeColumns(p)
		dst.DrawBox(vp.rect(upper), core.ColorRed)
		dst.DrawBox(vp.rect(lower), core.ColorRed)
	}

	hb := vp.rect(snap.Hitbox)
	if hb.W < 2 || hb.H < 2 {
		dst.DrawRect(hb, HitboxChar, core.ColorCyan)
		return
	}
	dst.DrawBox(hb, core.ColorCyan)
}

func (g *Game) drawHUD(dst *core.Screen, snap Snapshot) {
	score := snap.Score
	if snap.Screen == ScreenGameOver {
		score = snap.FinalScore
	}
	dst.DrawTextColored(1, 0, fmt.Sprintf(" Score: %d ", score), core.ColorWhite)

	best := fmt.Sprintf(" Best: %d ", snap.HighScore)
	dst.DrawTextColored(dst.Width()-len(best)-1, 0, best, core.ColorGray)
}

func (g *Game) drawSplash(dst *core.Screen, snap Snapshot) {
	y := dst.Height()/2 - 3
	dst.DrawTextCentered(y, "F L O P P Y   B I R D", core.ColorBrightYellow)
	dst.DrawTextCentered(y+2, "Space, W, Up or click to flap", core.ColorWhite)
	if snap.HighScore > 0 {
		dst.DrawTextCentered(y+4, fmt.Sprintf("High score: %d", snap.HighScore), core.ColorGray)
	}
}

// medalColor maps a medal to its palette entry.
func medalColor(m Medal) core.Color {
	switch m {
	case MedalBronze:
		return core.ColorBronze
	case MedalSilver:
		return core.ColorSilver
	case MedalGold:
		return core.ColorGold
	case MedalPlatinum:
		return core.ColorPlatinum
	default:
		return core.ColorGray
	}
}

// drawScoreboard shows the result box. It slides up from the bottom during
// the scoreboard phase and is hidden while falling and exiting.
func (g *Game) drawScoreboard(dst *core.Screen, snap Snapshot) {
	if snap.Phase != PhaseScoreboard && snap.Phase != PhaseReady {
		return
	}

	lines := []string{
		"GAME OVER",
		fmt.Sprintf("Score: %d", snap.FinalScore),
		fmt.Sprintf("Best:  %d", snap.HighScore),
	}
	if snap.NewBest {
		lines[2] += "  NEW!"
	}

	boxW := 26
	boxH := len(lines) + 5
	target := (dst.Height() - boxH) / 2
	y := target
	if snap.Phase == PhaseScoreboard {
		y += int(float64(dst.Height()-target) * (1 - snap.PhaseProgress))
	}
	x := (dst.Width() - boxW) / 2
	r := core.NewRect(x, y, boxW, boxH)

	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.ColorWhite)
	for i, line := range lines {
		c := core.ColorWhite
		if i == 0 {
			c = core.ColorRed
		}
		dst.DrawTextColored(x+(boxW-len(line))/2, y+1+i, line, c)
	}

	medal := "Medal: none"
	if snap.Medal != MedalNone {
		medal = "Medal: " + snap.Medal.String()
	}
	dst.DrawTextColored(x+(boxW-len(medal))/2, y+len(lines)+2, medal, medalColor(snap.Medal))

	if snap.ReplayReady {
		hint := "R or Space to replay"
		dst.DrawTextColored(x+(boxW-len(hint))/2, y+boxH-2, hint, core.ColorGray)
	}
}

// drawMessage draws a framed two-line message centered horizontally.
func drawMessage(dst *core.Screen, y int, c core.Color, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	x := (dst.Width() - boxW) / 2
	r := core.NewRect(x, y, boxW, boxH)

	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, c)
	dst.DrawTextColored(x+(boxW-len(title))/2, y+1, title, c)
	dst.DrawTextColored(x+(boxW-len(subtitle))/2, y+3, subtitle, core.ColorWhite)
}
