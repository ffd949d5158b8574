package condition

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	id     uint32
	level  int32
	player bool
	auras  map[int32]bool
}

func (o *testObject) ObjectID() uint32 { return o.id }
func (o *testObject) Level() int32 { return o.level }
func (o *testObject) IsPlayer() bool { return o.player }
func (o *testObject) HasAura(auraID int32) bool { return o.auras[auraID] }

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(0)
	t.Cleanup(m.Close)
	return m
}

func TestManager_HasConditions(t *testing.T) {
	m := newTestManager(t)
	assert.False(t, m.HasConditions(SourceCreatureTemplateVehicle, 1))

	m.Add(SourceCreatureTemplateVehicle, 1, Condition{Kind: KindPlayer})
	assert.True(t, m.HasConditions(SourceCreatureTemplateVehicle, 1))
	assert.False(t, m.HasConditions(SourceCreatureTemplateVehicle, 2))
	assert.False(t, m.HasConditions(SourceNone, 1))

	m.Add(SourceCreatureTemplateVehicle, 2)
	assert.False(t, m.HasConditions(SourceCreatureTemplateVehicle, 2), "empty Add must not create a list")
}

func TestManager_BuiltinKinds(t *testing.T) {
	vehicle := &testObject{id: 900}

	tests := []struct {
		name   string
		conds  []Condition
		target *testObject
		want   bool
	}{
		{
			name:   "no conditions",
			target: &testObject{id: 1},
			want:   true,
		},
		{
			name:   "level min met",
			conds:  []Condition{{Kind: KindLevelMin, Value: 10}},
			target: &testObject{id: 1, level: 10},
			want:   true,
		},
		{
			name:   "level min failed",
			conds:  []Condition{{Kind: KindLevelMin, Value: 10}},
			target: &testObject{id: 1, level: 9},
			want:   false,
		},
		{
			name:   "level max",
			conds:  []Condition{{Kind: KindLevelMax, Value: 20}},
			target: &testObject{id: 1, level: 21},
			want:   false,
		},
		{
			name:   "aura required",
			conds:  []Condition{{Kind: KindAura, Value: 5}},
			target: &testObject{id: 1, auras: map[int32]bool{5: true}},
			want:   true,
		},
		{
			name:   "aura forbidden",
			conds:  []Condition{{Kind: KindAura, Value: 5, Negate: true}},
			target: &testObject{id: 1, auras: map[int32]bool{5: true}},
			want:   false,
		},
		{
			name:   "player and level",
			conds:  []Condition{{Kind: KindPlayer}, {Kind: KindLevelMin, Value: 5}},
			target: &testObject{id: 1, player: true, level: 4},
			want:   false,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			entry := int32(i + 1)
			m.Add(SourceCreatureTemplateVehicle, entry, tt.conds...)
			got := m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, entry, tt.target, vehicle)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManager_NilTarget(t *testing.T) {
	m := newTestManager(t)
	m.Add(SourceCreatureTemplateVehicle, 1, Condition{Kind: KindPlayer})
	assert.False(t, m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1, nil, nil))
}

func TestManager_ScriptCondition(t *testing.T) {
	m := newTestManager(t)
	m.Add(SourceCreatureTemplateVehicle, 1, Condition{
		Kind:   KindScript,
		Script: "return target.player and target.level >= 3 and not target.auras[77] and invoker.id == 900",
	})
	vehicle := &testObject{id: 900}

	ok := m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1,
		&testObject{id: 1, player: true, level: 3}, vehicle)
	assert.True(t, ok)

	ok = m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1,
		&testObject{id: 2, player: true, level: 3, auras: map[int32]bool{77: true}}, vehicle)
	assert.False(t, ok)

	ok = m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1,
		&testObject{id: 3, player: true, level: 3}, &testObject{id: 901})
	assert.False(t, ok)
}

func TestManager_ScriptAuras(t *testing.T) {
	m := newTestManager(t)
	m.Add(SourceCreatureTemplateVehicle, 1, Condition{
		Kind:   KindScript,
		Script: "return target.auras[77] == true and target.auras[78] == false",
	})

	ok := m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1,
		&testObject{id: 1, auras: map[int32]bool{77: true}}, nil)
	assert.True(t, ok)

	ok = m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1,
		&testObject{id: 1, auras: map[int32]bool{78: true}}, nil)
	assert.False(t, ok)
}

func TestManager_ScriptFailuresAreNotMet(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "syntax error", script: "return target.level >>> 1"},
		{name: "runtime error", script: "return target.missing.field"},
		{name: "instruction limit", script: "while true do end"},
		{name: "sandboxed global", script: "return require('os') ~= nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(1000)
			t.Cleanup(m.Close)
			m.Add(SourceCreatureTemplateVehicle, 1, Condition{Kind: KindScript, Script: tt.script})

			ok := m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1, &testObject{id: 1}, nil)
			assert.False(t, ok)
		})
	}
}

func TestManager_ScriptVMReusableAfterAbort(t *testing.T) {
	m := NewManager(1000)
	t.Cleanup(m.Close)
	m.Add(SourceCreatureTemplateVehicle, 1, Condition{Kind: KindScript, Script: "while true do end"})
	m.Add(SourceCreatureTemplateVehicle, 2, Condition{Kind: KindScript, Script: "return true"})

	assert.False(t, m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 1, &testObject{id: 1}, nil))
	assert.True(t, m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 2, &testObject{id: 1}, nil))
}

func TestLoadYAML(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, LoadYAML(filepath.Join("testdata", "vehicles.yaml"), m))

	assert.True(t, m.HasConditions(SourceCreatureTemplateVehicle, 5002))
	assert.True(t, m.HasConditions(SourceCreatureTemplateVehicle, 5003))

	vehicle := &testObject{id: 900}
	assert.True(t, m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 5002,
		&testObject{id: 1, player: true, level: 12}, vehicle))
	assert.False(t, m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 5002,
		&testObject{id: 2, player: true, level: 12, auras: map[int32]bool{666: true}}, vehicle))

	assert.True(t, m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 5003,
		&testObject{id: 3, level: 4}, vehicle))
	assert.False(t, m.IsObjectMeetingConditions(SourceCreatureTemplateVehicle, 5003,
		&testObject{id: 3, level: 5}, vehicle))
}

func TestParseCondition(t *testing.T) {
	_, err := ParseCondition("teleport", 0, false, "")
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = ParseCondition("script", 0, false, "")
	assert.Error(t, err)

	c, err := ParseCondition("level_max", 60, true, "")
	require.NoError(t, err)
	assert.Equal(t, Condition{Kind: KindLevelMax, Value: 60, Negate: true}, c)
}

func TestManager_Each(t *testing.T) {
	m := newTestManager(t)
	m.Add(SourceCreatureTemplateVehicle, 1, Condition{Kind: KindPlayer})
	m.Add(SourceCreatureTemplateVehicle, 2, Condition{Kind: KindLevelMin, Value: 10}, Condition{Kind: KindAura, Value: 5})
	m.Add(SourceCreatureTemplateVehicle, 3)

	got := make(map[int32]int)
	m.Each(func(source SourceType, entry int32, conds []Condition) bool {
		assert.Equal(t, SourceCreatureTemplateVehicle, source)
		got[entry] = len(conds)
		return true
	})
	assert.Equal(t, map[int32]int{1: 1, 2: 2}, got)

	visits := 0
	m.Each(func(SourceType, int32, []Condition) bool {
		visits++
		return false
	})
	assert.Equal(t, 1, visits)
}
