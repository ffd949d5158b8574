package ai

import "time"

// Tunables are the policy constants shared by the generic controllers.
type Tunables struct {
	// MeleeRange is the fallback engagement distance.
	MeleeRange float64
	// CasterCastDelay is the floor for the observed cast time a ranged
	// caster adds to an ability's cooldown.
	CasterCastDelay time.Duration
	// VehicleConditionCheck is the passenger recheck period.
	VehicleConditionCheck time.Duration
	// VehicleDismiss is the delay before an abandoned vehicle despawns.
	VehicleDismiss time.Duration
}

// DefaultTunables returns the stock policy constants.
func DefaultTunables() Tunables {
	return Tunables{
		MeleeRange:            5,
		CasterCastDelay:       500 * time.Millisecond,
		VehicleConditionCheck: time.Second,
		VehicleDismiss:        5 * time.Second,
	}
}

// Deps are the read-only services a controller consults.
// Abilities is required; the rest default when nil/zero.
type Deps struct {
	Abilities  AbilityLookup
	Conditions ConditionChecker
	Passengers PassengerLookupFunc
	Rand       Source
	Tunables   Tunables
}

func (d Deps) withDefaults() Deps {
	if d.Rand == nil {
		d.Rand = DefaultSource()
	}
	if d.Tunables == (Tunables{}) {
		d.Tunables = DefaultTunables()
	}
	return d
}
