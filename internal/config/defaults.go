package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in configuration. It matches the
// embedded defaults/flappy.yaml and is used when that file cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:      0.25,
			JumpImpulse:  -4.6,
			MaxFallSpeed: 10,
		},
		World: FlappyWorld{
			Width:         900,
			FlyAreaHeight: 420,
			Ceiling:       0,
			ScrollSpeed:   1000.0 / 450.0, // 900 -> -100 in 7.5s
			CleanupX:      -100,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:       52,
			GapHeight:       90,
			Padding:         80,
			SpawnIntervalMS: 1400,
			EdgeTolerance:   2,
		},
		Player: FlappyPlayer{
			X:            60,
			StartY:       180,
			Width:        34,
			Height:       24,
			HitboxShrink: 8,
		},
		Timing: FlappyTiming{
			FallMS:           1000,
			ScoreboardMS:     600,
			ReplayCooldownMS: 1000,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 50,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.5,
				GapReduction:      20,
				IntervalReduction: 300,
			},
		},
		Leaderboard: LeaderboardConfig{
			TimeoutMS:    5000,
			Retries:      1,
			Limit:        10,
			FallbackPath: "~/.floppy/scores.yaml",
			AutoSubmit:   false,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
