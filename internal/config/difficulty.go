package config

import (
	"math"
	"time"
)

// Lower bounds that keep the game playable at maximum difficulty.
const (
	minGapHeight     = 60
	minSpawnInterval = 700 * time.Millisecond
)

// DifficultyManager derives scroll speed, gap height and spawn interval from
// the current score or elapsed ticks.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
// With progression disabled the level is 0, so base values are used unchanged.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.cfg.Enabled {
		return 0
	}
	if d.cfg.Progression.Type == "none" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// ScrollSpeed returns the pipe speed for the current level.
func (d *DifficultyManager) ScrollSpeed(base float64, score int, ticks int) float64 {
	return base * (1.0 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// GapHeight returns the gap height for the current level.
// It never shrinks below the playable minimum, nor grows past base.
func (d *DifficultyManager) GapHeight(base float64, score int, ticks int) float64 {
	result := base - d.Level(score, ticks)*d.cfg.Scaling.GapReduction
	return math.Max(result, math.Min(base, minGapHeight))
}

// SpawnInterval returns the pipe spawn period for the current level.
func (d *DifficultyManager) SpawnInterval(base time.Duration, score int, ticks int) time.Duration {
	reduction := time.Duration(d.Level(score, ticks)*float64(d.cfg.Scaling.IntervalReduction)) * time.Millisecond
	result := base - reduction
	if result < minSpawnInterval && base >= minSpawnInterval {
		result = minSpawnInterval
	}
	return result
}

func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
