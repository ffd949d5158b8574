package world

import "sync/atomic"

// ObjectIDGenerator hands out unique object IDs.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: Players
//	0x20000000 - 0x2FFFFFFF: Creatures
type ObjectIDGenerator struct {
	nextPlayerID   atomic.Uint32
	nextCreatureID atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextCreatureID.Store(0x20000000)
	return gen
}

// NextPlayerID returns the next player object ID.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextCreatureID returns the next creature object ID.
func (g *ObjectIDGenerator) NextCreatureID() uint32 {
	return g.nextCreatureID.Add(1)
}

// IsCreatureID reports whether id lies in the creature range.
func IsCreatureID(id uint32) bool {
	return id >= 0x20000000 && id < 0x30000000
}
