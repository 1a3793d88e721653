// Package flappy implements a Flappy Bird-style game session.
// The player keeps a bird airborne through randomized gaps in scrolling pipes.
// The session is a fixed-timestep simulation driven one tick per Step call.
package flappy

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/floppy/internal/config"
	"github.com/vovakirdan/floppy/internal/core"
)

// Game owns all state of one player's play session: the bird, the pipes,
// the score and the screen state machine.
type Game struct {
	cfg        config.FlappyConfig
	runtime    core.RuntimeConfig
	difficulty *config.DifficultyManager
	collision  *CollisionEngine
	pipes      *PipeManager
	rng        Random
	fixedRNG   bool

	bird   Bird
	screen ScreenState
	over   choreography
	sim    periodicTask // physics and collision, once per tick
	spawn  periodicTask // pipe generation

	score      int
	highScore  int
	finalScore int
	newBest    bool
	cause      CollisionCause
	fallFrom   Bird // Bird state frozen at the terminal collision
	paused     bool
	ticks      int
	sessions   int

	events []core.Event
}

// Option customizes a Game.
type Option func(*Game)

// WithHighScore seeds the high score, usually from durable storage.
func WithHighScore(score int) Option {
	return func(g *Game) {
		g.highScore = score
	}
}

// WithRandom replaces the seeded random source used to place gaps.
func WithRandom(rng Random) Option {
	return func(g *Game) {
		g.rng = rng
		g.fixedRNG = true
	}
}

// New creates a game session. Call Reset before the first Step.
func New(cfg config.FlappyConfig, opts ...Option) *Game {
	g := &Game{
		cfg:        cfg,
		runtime:    core.DefaultConfig(),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		collision:  NewCollisionEngine(cfg),
		over:       choreography{timing: cfg.Timing},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(g.runtime.Seed))
	}
	g.pipes = NewPipeManager(g.rng, cfg.World.Width, cfg.World.CleanupX)
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Floppy Bird"
}

// Reset applies the runtime configuration and returns to the splash screen.
// The high score survives resets.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	if !g.fixedRNG {
		g.rng = rand.New(rand.NewSource(rc.Seed))
	}
	g.pipes.Reset(g.rng)
	g.sim.Stop()
	g.spawn.Stop()
	g.enterSplash()
	g.events = nil
}

// Step advances the session by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = nil

	switch g.screen {
	case ScreenSplash:
		if in.Has(core.ActionFlap) {
			g.startGame()
		}

	case ScreenPlaying:
		if in.Has(core.ActionPause) {
			g.paused = !g.paused
		}
		if g.paused {
			break
		}
		if in.Has(core.ActionFlap) {
			g.jump()
		}
		g.advanceTasks()

	case ScreenGameOver:
		if in.Has(core.ActionReplay) || in.Has(core.ActionFlap) {
			if g.over.replay() {
				g.emit(core.EventSwoosh, 0)
			}
		}
		events, done := g.over.advance(g.runtime.TickDuration())
		g.events = append(g.events, events...)
		if done {
			g.enterSplash()
		}
	}

	return core.StepResult{State: g.State(), Events: g.events}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.score,
		HighScore: g.highScore,
		GameOver:  g.screen == ScreenGameOver,
		Paused:    g.paused,
	}
}

// Screen returns the active screen.
func (g *Game) Screen() ScreenState {
	return g.screen
}

// Phase returns the game over phase, or PhaseNone outside the game over screen.
func (g *Game) Phase() GameOverPhase {
	return g.over.phase
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// HighScore returns the best score seen by this session.
func (g *Game) HighScore() int {
	return g.highScore
}

// RaiseHighScore lifts the high score when a better one is known elsewhere,
// for example on the shared leaderboard. It never lowers it.
func (g *Game) RaiseHighScore(score int) bool {
	if score <= g.highScore {
		return false
	}
	g.highScore = score
	return true
}

// Bird returns a copy of the bird state.
func (g *Game) Bird() Bird {
	return g.bird
}

// Sessions returns how many times the splash screen has been entered.
func (g *Game) Sessions() int {
	return g.sessions
}

func (g *Game) emit(kind core.EventKind, value int) {
	g.events = append(g.events, core.Event{Kind: kind, Value: value})
}

// enterSplash prepares a fresh round: bird at rest, no pipes, score zero.
func (g *Game) enterSplash() {
	g.screen = ScreenSplash
	g.over.reset()
	g.sim.Stop()
	g.spawn.Stop()
	g.pipes.Clear()

	g.bird = Bird{Y: g.cfg.Player.StartY}
	g.score = 0
	g.finalScore = 0
	g.newBest = false
	g.cause = CauseNone
	g.paused = false
	g.ticks = 0
	g.sessions++

	g.emit(core.EventSwoosh, 0)
}

// startGame leaves the splash screen, starts both tasks and performs the first jump.
func (g *Game) startGame() {
	g.screen = ScreenPlaying
	g.score = 0
	g.sim.Start(g.runtime.TickDuration())
	g.spawn.Start(g.spawnInterval())

	g.emit(core.EventSwoosh, 0)
	g.jump()
}

func (g *Game) jump() {
	g.bird.Jump(g.cfg.Physics.JumpImpulse)
	g.emit(core.EventFlap, 0)
}

// advanceTasks runs the simulation and spawn tasks for one tick of wall time.
func (g *Game) advanceTasks() {
	dt := g.runtime.TickDuration()

	for n := g.sim.Advance(dt); n > 0 && g.screen == ScreenPlaying; n-- {
		g.tick()
	}
	if g.screen != ScreenPlaying {
		return
	}

	for n := g.spawn.Advance(dt); n > 0; n-- {
		g.spawnPipe()
	}
}

// tick is one simulation step: gravity, scrolling, pruning, then collisions.
func (g *Game) tick() {
	dt := g.runtime.TickScale()
	g.ticks++

	g.bird.ApplyGravity(g.cfg.Physics.Gravity, dt)
	g.bird.CapFallSpeed(g.cfg.Physics.MaxFallSpeed)

	speed := g.difficulty.ScrollSpeed(g.cfg.World.ScrollSpeed, g.score, g.ticks)
	g.pipes.Advance(speed * dt)
	g.pipes.Prune()

	out := g.collision.Check(&g.bird, g.pipes.Pipes())
	if out.Terminal {
		g.endGame(out.Cause)
		return
	}
	for i := 0; i < out.Scored; i++ {
		g.score++
		g.emit(core.EventPoint, g.score)
	}
}

func (g *Game) spawnPipe() {
	gap := g.difficulty.GapHeight(g.cfg.Obstacles.GapHeight, g.score, g.ticks)
	g.pipes.Spawn(g.cfg.World.FlyAreaHeight, gap, g.cfg.Obstacles.Padding)
	g.spawn.SetPeriod(g.spawnInterval())
}

func (g *Game) spawnInterval() time.Duration {
	return g.difficulty.SpawnInterval(g.cfg.Obstacles.SpawnInterval(), g.score, g.ticks)
}

// endGame stops both tasks, records the result and starts the game over sequence.
func (g *Game) endGame(cause CollisionCause) {
	g.sim.Stop()
	g.spawn.Stop()

	g.screen = ScreenGameOver
	g.cause = cause
	g.finalScore = g.score
	g.fallFrom = g.bird
	g.over.start()

	g.emit(core.EventHit, 0)
	if g.score > g.highScore {
		g.highScore = g.score
		g.newBest = true
		g.emit(core.EventNewHighScore, g.highScore)
	}
	g.emit(core.EventGameOver, g.finalScore)
}
