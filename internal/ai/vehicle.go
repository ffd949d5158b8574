package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/creatureai/internal/condition"
)

// VehicleAI manages an unscripted vehicle: it evicts seated players that no
// longer meet the vehicle's conditions and despawns the vehicle some time
// after it was abandoned.
//
// Runs while the vehicle is mounted; it has no victim handling.
type VehicleAI struct {
	creatureAI

	vehicle    Vehicle
	conditions ConditionChecker
	passengers PassengerLookupFunc

	checkPeriod  time.Duration
	dismissDelay time.Duration

	hasConditions   bool
	conditionsTimer time.Duration

	doDismiss    bool
	dismissTimer time.Duration
}

// NewVehicleAI creates a VehicleAI for vehicle. Whether the vehicle has
// conditions is decided once here.
func NewVehicleAI(vehicle Vehicle, deps Deps) *VehicleAI {
	deps = deps.withDefaults()
	ai := &VehicleAI{
		creatureAI:   creatureAI{me: vehicle},
		vehicle:      vehicle,
		conditions:   deps.Conditions,
		passengers:   deps.Passengers,
		checkPeriod:  deps.Tunables.VehicleConditionCheck,
		dismissDelay: deps.Tunables.VehicleDismiss,
	}
	ai.conditionsTimer = ai.checkPeriod
	ai.dismissTimer = ai.dismissDelay

	if ai.conditions != nil {
		ai.hasConditions = ai.conditions.HasConditions(condition.SourceCreatureTemplateVehicle, vehicle.Entry())
	}
	return ai
}

// VehiclePermissible allows every creature with a vehicle kit.
func VehiclePermissible(c Creature) PermitLevel {
	if c.IsVehicle() {
		return PermitSpecial
	}
	return PermitNo
}

func (ai *VehicleAI) Name() string { return "VehicleAI" }

func (ai *VehicleAI) Start() { ai.start(ai.Name()) }

func (ai *VehicleAI) Stop() {
	ai.doDismiss = false
	ai.stop(ai.Name())
}

// AttackStart is a no-op: vehicles do not pick fights on their own.
func (ai *VehicleAI) AttackStart(Unit) {}

// HasConditions reports whether passengers are rechecked at all.
func (ai *VehicleAI) HasConditions() bool {
	return ai.hasConditions
}

// DismissPending reports whether the dismiss countdown is running.
func (ai *VehicleAI) DismissPending() bool {
	return ai.doDismiss
}

// OnTick rechecks passengers and counts down a pending dismissal.
func (ai *VehicleAI) OnTick(diff time.Duration) {
	if !ai.running() {
		return
	}

	ai.checkConditions(diff)

	if !ai.doDismiss {
		return
	}
	if ai.dismissTimer < diff {
		ai.doDismiss = false
		slog.Info("abandoned vehicle dismissed",
			"vehicle", ai.vehicle.Name(),
			"entry", ai.vehicle.Entry(),
			"objectID", ai.vehicle.ObjectID())
		ai.vehicle.DespawnOrUnsummon()
		return
	}
	ai.dismissTimer -= diff
}

// OnCharmed arms the dismiss countdown when a conditioned vehicle is left
// uncharmed and empty, and cancels it once the vehicle is charmed again.
// Either way the countdown restarts from the full delay.
func (ai *VehicleAI) OnCharmed(bool) {
	charmed := ai.vehicle.IsCharmed()
	kit := ai.vehicle.VehicleKit()
	inUse := kit != nil && kit.IsInUse()

	if !inUse && !charmed && ai.hasConditions {
		ai.doDismiss = true
	} else if charmed {
		ai.doDismiss = false
	}
	ai.dismissTimer = ai.dismissDelay

	if IsDebugEnabled() {
		slog.Debug("vehicle charm changed",
			"vehicle", ai.vehicle.Name(),
			"objectID", ai.vehicle.ObjectID(),
			"charmed", charmed,
			"inUse", inUse,
			"dismissPending", ai.doDismiss)
	}
}

// checkConditions evicts at most one non-compliant player per period.
func (ai *VehicleAI) checkConditions(diff time.Duration) {
	if !ai.hasConditions {
		return
	}

	if ai.conditionsTimer > diff {
		ai.conditionsTimer -= diff
		return
	}
	ai.conditionsTimer = ai.checkPeriod

	kit := ai.vehicle.VehicleKit()
	if kit == nil || ai.passengers == nil {
		return
	}

	entry := ai.vehicle.Entry()
	for seat, passengerID := range kit.Passengers() {
		if passengerID == 0 {
			continue
		}
		passenger, ok := ai.passengers(passengerID)
		if !ok || !passenger.IsPlayer() {
			continue
		}
		if ai.conditions.IsObjectMeetingConditions(condition.SourceCreatureTemplateVehicle, entry, passenger, ai.vehicle) {
			continue
		}

		slog.Info("passenger no longer meets vehicle conditions, evicting",
			"vehicle", ai.vehicle.Name(),
			"entry", entry,
			"seat", seat,
			"passengerID", passengerID)
		passenger.ExitVehicle()
		return
	}
}
