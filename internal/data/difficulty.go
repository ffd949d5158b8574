package data

// Difficulty selects which variant of ability metadata applies on a map.
type Difficulty uint8

const (
	// DifficultyNone marks tier-independent metadata. Lookups for any tier
	// fall back to it.
	DifficultyNone Difficulty = iota
	DifficultyNormal
	DifficultyHeroic
	DifficultyMythic
)

// String returns human-readable difficulty name
func (d Difficulty) String() string {
	switch d {
	case DifficultyNone:
		return "NONE"
	case DifficultyNormal:
		return "NORMAL"
	case DifficultyHeroic:
		return "HEROIC"
	case DifficultyMythic:
		return "MYTHIC"
	default:
		return "UNKNOWN"
	}
}

// ParseDifficulty maps a config/data string onto a Difficulty.
// Unknown names resolve to DifficultyNone and ok=false.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch s {
	case "", "none", "NONE":
		return DifficultyNone, true
	case "normal", "NORMAL":
		return DifficultyNormal, true
	case "heroic", "HEROIC":
		return DifficultyHeroic, true
	case "mythic", "MYTHIC":
		return DifficultyMythic, true
	default:
		return DifficultyNone, false
	}
}
