package condition

import (
	"log/slog"
	"sync"
)

type sourceKey struct {
	source SourceType
	entry  int32
}

// Manager holds condition lists keyed by (source type, entry) and evaluates
// objects against them.
//
// Safe for concurrent use. Lists are expected to be added during loading;
// evaluation of script conditions is serialized on one Lua VM.
type Manager struct {
	mu    sync.RWMutex
	lists map[sourceKey][]Condition

	vmMu sync.Mutex
	vm   *scriptVM
}

// NewManager creates an empty Manager. instLimit caps Lua opcodes per
// script evaluation; 0 uses DefaultInstructionLimit.
func NewManager(instLimit int) *Manager {
	return &Manager{
		lists: make(map[sourceKey][]Condition),
		vm:    newScriptVM(instLimit),
	}
}

// Close releases the Lua VM.
func (m *Manager) Close() {
	m.vmMu.Lock()
	defer m.vmMu.Unlock()
	m.vm.close()
}

// Add appends conds to the list for (source, entry).
func (m *Manager) Add(source SourceType, entry int32, conds ...Condition) {
	if len(conds) == 0 {
		return
	}
	key := sourceKey{source: source, entry: entry}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], conds...)
}

// HasConditions reports whether any condition is attached to (source, entry).
func (m *Manager) HasConditions(source SourceType, entry int32) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lists[sourceKey{source: source, entry: entry}]) > 0
}

// Each calls fn for every non-empty condition list until fn returns false.
func (m *Manager) Each(fn func(source SourceType, entry int32, conds []Condition) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, conds := range m.lists {
		if !fn(key.source, key.entry, conds) {
			return
		}
	}
}

// IsObjectMeetingConditions reports whether target satisfies every
// condition attached to (source, entry). An empty list is always met.
// invoker is the entity the conditions belong to (e.g. the vehicle).
func (m *Manager) IsObjectMeetingConditions(source SourceType, entry int32, target, invoker Object) bool {
	m.mu.RLock()
	conds := m.lists[sourceKey{source: source, entry: entry}]
	m.mu.RUnlock()

	for i := range conds {
		if !m.meets(&conds[i], target, invoker) {
			return false
		}
	}
	return true
}

func (m *Manager) meets(c *Condition, target, invoker Object) bool {
	if target == nil {
		return false
	}

	var ok bool
	switch c.Kind {
	case KindLevelMin:
		ok = target.Level() >= c.Value
	case KindLevelMax:
		ok = target.Level() <= c.Value
	case KindAura:
		ok = target.HasAura(c.Value)
	case KindPlayer:
		ok = target.IsPlayer()
	case KindScript:
		m.vmMu.Lock()
		res, err := m.vm.eval(c.Script, target, invoker)
		m.vmMu.Unlock()
		if err != nil {
			slog.Warn("condition script failed",
				"target", target.ObjectID(),
				"err", err)
			return false
		}
		ok = res
	default:
		return false
	}

	if c.Negate {
		return !ok
	}
	return ok
}
