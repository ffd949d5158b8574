package ai

import (
	"math/rand/v2"
	"time"
)

// Source is the randomness provider for cooldown fuzzing and ability picks.
type Source interface {
	// IntN returns a random int in [0, n). n > 0.
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns a Source backed by math/rand/v2.
func DefaultSource() Source {
	return globalSource{}
}

// fuzzedCooldown returns base + uniform[0, base) at millisecond
// granularity, so identically scripted creatures drift apart.
func fuzzedCooldown(base time.Duration, src Source) time.Duration {
	ms := base.Milliseconds()
	if ms <= 0 {
		return max(base, 0)
	}
	return base + time.Duration(src.IntN(int(ms)))*time.Millisecond
}
