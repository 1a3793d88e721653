// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

import (
	"fmt"
	"time"
)

// FlappyConfig contains all tunables of the game and its leaderboard.
// Distances are world units (the reference pixel grid); speeds and
// accelerations are per reference tick (60 Hz).
type FlappyConfig struct {
	Physics     FlappyPhysics     `yaml:"physics"`
	World       FlappyWorld       `yaml:"world"`
	Obstacles   FlappyObstacles   `yaml:"obstacles"`
	Player      FlappyPlayer      `yaml:"player"`
	Timing      FlappyTiming      `yaml:"timing"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// FlappyPhysics defines the bird's motion.
type FlappyPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"` // 0 disables the cap
}

// FlappyWorld defines the play area.
type FlappyWorld struct {
	Width         float64 `yaml:"width"`           // Pipes spawn at this x
	FlyAreaHeight float64 `yaml:"fly_area_height"` // Floor line
	Ceiling       float64 `yaml:"ceiling"`         // Ceiling line
	ScrollSpeed   float64 `yaml:"scroll_speed"`    // Pipe movement per tick
	CleanupX      float64 `yaml:"cleanup_x"`       // Pipes at or left of this x are removed
}

// FlappyObstacles defines pipe geometry and cadence.
type FlappyObstacles struct {
	PipeWidth       float64 `yaml:"pipe_width"`
	GapHeight       float64 `yaml:"gap_height"`
	Padding         float64 `yaml:"padding"`
	SpawnIntervalMS int     `yaml:"spawn_interval_ms"`
	EdgeTolerance   float64 `yaml:"edge_tolerance"` // Pipe hit area starts this far left of the pipe
}

// FlappyPlayer defines the bird sprite.
type FlappyPlayer struct {
	X            float64 `yaml:"x"`
	StartY       float64 `yaml:"start_y"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	HitboxShrink float64 `yaml:"hitbox_shrink"` // Max hit-box width reduction at full rotation
}

// FlappyTiming defines the game over choreography.
type FlappyTiming struct {
	FallMS           int `yaml:"fall_ms"`
	ScoreboardMS     int `yaml:"scoreboard_ms"`
	ReplayCooldownMS int `yaml:"replay_cooldown_ms"`
}

// LeaderboardConfig controls the score persistence facade.
type LeaderboardConfig struct {
	TimeoutMS    int    `yaml:"timeout_ms"`
	Retries      int    `yaml:"retries"`
	Limit        int    `yaml:"limit"`
	FallbackPath string `yaml:"fallback_path"`
	AutoSubmit   bool   `yaml:"auto_submit"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Added to scroll speed at max difficulty
	GapReduction      float64 `yaml:"gap_reduction"`      // Gap shrink at max difficulty
	IntervalReduction int     `yaml:"interval_reduction"` // Spawn interval shrink (ms) at max difficulty
}

// SpawnInterval returns the pipe spawn period.
func (o FlappyObstacles) SpawnInterval() time.Duration {
	return time.Duration(o.SpawnIntervalMS) * time.Millisecond
}

// Timeout returns the per-call leaderboard timeout.
func (l LeaderboardConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutMS) * time.Millisecond
}

// Validate reports configurations the simulation cannot run with.
func (c FlappyConfig) Validate() error {
	if c.World.FlyAreaHeight <= 0 {
		return fmt.Errorf("config: fly_area_height must be positive, got %v", c.World.FlyAreaHeight)
	}
	if c.World.Width <= 0 {
		return fmt.Errorf("config: world width must be positive, got %v", c.World.Width)
	}
	if c.Obstacles.GapHeight <= 0 {
		return fmt.Errorf("config: gap_height must be positive, got %v", c.Obstacles.GapHeight)
	}
	if c.Obstacles.GapHeight+2*c.Obstacles.Padding > c.World.FlyAreaHeight {
		return fmt.Errorf("config: gap_height %v plus padding %v does not fit fly area %v",
			c.Obstacles.GapHeight, c.Obstacles.Padding, c.World.FlyAreaHeight)
	}
	if c.Obstacles.SpawnIntervalMS <= 0 {
		return fmt.Errorf("config: spawn_interval_ms must be positive, got %d", c.Obstacles.SpawnIntervalMS)
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		return fmt.Errorf("config: player size must be positive, got %vx%v", c.Player.Width, c.Player.Height)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// EasyGapHeight is the pipe gap used by the easy preset.
const EasyGapHeight = 200

// ParsePreset validates a preset name. The empty string means "no preset".
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}
