package model

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrSeatTaken is returned by Board for an occupied seat.
	ErrSeatTaken = errors.New("seat taken")
	// ErrNoSuchSeat is returned by Board for a seat index out of range.
	ErrNoSuchSeat = errors.New("no such seat")
	// ErrAlreadySeated is returned by Board for a unit already in a vehicle.
	ErrAlreadySeated = errors.New("already seated")
)

// DriverSeat is the seat whose occupant charms the vehicle.
const DriverSeat = 0

// VehicleKit holds the seats of a vehicle creature. Seating a unit in the
// driver seat charms the vehicle; the driver leaving releases it.
type VehicleKit struct {
	owner *Creature

	mu     sync.Mutex
	riders []*Unit // per seat, nil when empty
}

func newVehicleKit(owner *Creature, seats int) *VehicleKit {
	return &VehicleKit{
		owner:  owner,
		riders: make([]*Unit, seats),
	}
}

// SeatCount returns the number of seats.
func (k *VehicleKit) SeatCount() int {
	return len(k.riders)
}

// IsInUse reports whether any seat is occupied.
func (k *VehicleKit) IsInUse() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, r := range k.riders {
		if r != nil {
			return true
		}
	}
	return false
}

// Passengers returns the passenger objectID per seat, 0 for empty seats.
func (k *VehicleKit) Passengers() []uint32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	ids := make([]uint32, len(k.riders))
	for i, r := range k.riders {
		if r != nil {
			ids[i] = r.ObjectID()
		}
	}
	return ids
}

// Board seats u in seat.
func (k *VehicleKit) Board(u *Unit, seat int) error {
	if seat < 0 || seat >= len(k.riders) {
		return fmt.Errorf("boarding %d seat %d of %s: %w", u.ObjectID(), seat, k.owner.Name(), ErrNoSuchSeat)
	}
	if u.Vehicle() != nil {
		return fmt.Errorf("boarding %d: %w", u.ObjectID(), ErrAlreadySeated)
	}

	k.mu.Lock()
	if k.riders[seat] != nil {
		k.mu.Unlock()
		return fmt.Errorf("boarding %d seat %d of %s: %w", u.ObjectID(), seat, k.owner.Name(), ErrSeatTaken)
	}
	k.riders[seat] = u
	k.mu.Unlock()

	u.setSeat(k)
	if seat == DriverSeat {
		k.owner.SetCharmed(true)
	}
	return nil
}

// RemovePassenger unseats the unit with objectID, if seated here.
func (k *VehicleKit) RemovePassenger(objectID uint32) {
	k.mu.Lock()
	seat := -1
	var rider *Unit
	for i, r := range k.riders {
		if r != nil && r.ObjectID() == objectID {
			seat, rider = i, r
			k.riders[i] = nil
			break
		}
	}
	k.mu.Unlock()

	if rider == nil {
		return
	}
	rider.setSeat(nil)
	if seat == DriverSeat {
		k.owner.SetCharmed(false)
	}
}

// EjectAll unseats every passenger.
func (k *VehicleKit) EjectAll() {
	for _, id := range k.Passengers() {
		if id != 0 {
			k.RemovePassenger(id)
		}
	}
}
