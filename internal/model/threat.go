package model

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
)

// ThreatInfo tracks threat and damage from a single attacker.
type ThreatInfo struct {
	threat atomic.Int64
	damage atomic.Int64
}

// Threat returns the current threat value (atomic read).
func (t *ThreatInfo) Threat() int64 {
	return t.threat.Load()
}

// AddThreat adds threat (atomic).
func (t *ThreatInfo) AddThreat(amount int64) {
	t.threat.Add(amount)
}

// Damage returns the total damage dealt (atomic read).
func (t *ThreatInfo) Damage() int64 {
	return t.damage.Load()
}

// AddDamage adds damage (atomic).
func (t *ThreatInfo) AddDamage(amount int64) {
	t.damage.Add(amount)
}

// ThreatList holds a creature's threat against every attacker.
// Thread-safe via sync.Map.
type ThreatList struct {
	entries sync.Map // map[uint32]*ThreatInfo keyed by objectID
}

// NewThreatList creates an empty ThreatList.
func NewThreatList() *ThreatList {
	return &ThreatList{}
}

// AddThreat adds threat for an attacker, creating the entry if needed.
func (l *ThreatList) AddThreat(objectID uint32, threat int64) {
	l.getOrCreate(objectID).AddThreat(threat)
}

// AddDamage records damage from an attacker, creating the entry if needed.
func (l *ThreatList) AddDamage(objectID uint32, damage int64) {
	l.getOrCreate(objectID).AddDamage(damage)
}

// MostHated returns the attacker with the highest threat, lowest objectID
// on ties. Returns 0 if the list is empty.
func (l *ThreatList) MostHated() uint32 {
	ranked := l.Ranked()
	if len(ranked) == 0 {
		return 0
	}
	return ranked[0]
}

// Ranked returns attacker objectIDs by descending threat, ties by objectID.
func (l *ThreatList) Ranked() []uint32 {
	type entry struct {
		id     uint32
		threat int64
	}
	var entries []entry
	l.entries.Range(func(key, value any) bool {
		entries = append(entries, entry{id: key.(uint32), threat: value.(*ThreatInfo).Threat()})
		return true
	})
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(b.threat, a.threat); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	ids := make([]uint32, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// Get returns the ThreatInfo for an attacker, or nil.
func (l *ThreatList) Get(objectID uint32) *ThreatInfo {
	value, ok := l.entries.Load(objectID)
	if !ok {
		return nil
	}
	return value.(*ThreatInfo)
}

// Remove drops an attacker from the list.
func (l *ThreatList) Remove(objectID uint32) {
	l.entries.Delete(objectID)
}

// Clear drops every entry.
func (l *ThreatList) Clear() {
	l.entries.Range(func(key, _ any) bool {
		l.entries.Delete(key)
		return true
	})
}

// IsEmpty reports whether the list has no entries.
func (l *ThreatList) IsEmpty() bool {
	empty := true
	l.entries.Range(func(_, _ any) bool {
		empty = false
		return false
	})
	return empty
}

// getOrCreate returns the existing ThreatInfo or stores a new one.
// Load first to avoid allocating on every call.
func (l *ThreatList) getOrCreate(objectID uint32) *ThreatInfo {
	if v, ok := l.entries.Load(objectID); ok {
		return v.(*ThreatInfo)
	}
	v, _ := l.entries.LoadOrStore(objectID, &ThreatInfo{})
	return v.(*ThreatInfo)
}

// CalcThreat converts damage into threat, scaled down by the creature's level.
func CalcThreat(damage int32, level int32) int64 {
	if level < 1 {
		level = 1
	}
	return (int64(damage) * 100) / int64(level+7)
}
