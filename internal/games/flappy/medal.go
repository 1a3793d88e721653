package flappy

// Medal is the award shown on the score board.
type Medal int

const (
	MedalNone Medal = iota
	MedalBronze
	MedalSilver
	MedalGold
	MedalPlatinum
)

// Score thresholds for each medal.
const (
	bronzeAt   = 10
	silverAt   = 20
	goldAt     = 30
	platinumAt = 40
)

// MedalFor returns the medal earned by a final score.
func MedalFor(score int) Medal {
	switch {
	case score >= platinumAt:
		return MedalPlatinum
	case score >= goldAt:
		return MedalGold
	case score >= silverAt:
		return MedalSilver
	case score >= bronzeAt:
		return MedalBronze
	default:
		return MedalNone
	}
}

// String returns the medal name, or "" for no medal.
func (m Medal) String() string {
	switch m {
	case MedalBronze:
		return "bronze"
	case MedalSilver:
		return "silver"
	case MedalGold:
		return "gold"
	case MedalPlatinum:
		return "platinum"
	default:
		return ""
	}
}
