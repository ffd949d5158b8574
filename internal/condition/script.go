package condition

import (
	"context"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit caps the Lua opcodes a single script condition may
// execute before it is aborted.
const DefaultInstructionLimit = 10_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua calls Done() once per opcode.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// scriptVM wraps one sandboxed LState and the compiled condition chunks.
// Not safe for concurrent use; Manager serializes access.
type scriptVM struct {
	L        *lua.LState
	limit    int
	compiled map[string]*lua.LFunction
}

func newScriptVM(limit int) *scriptVM {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "print"} {
		L.SetGlobal(name, lua.LNil)
	}

	return &scriptVM{
		L:        L,
		limit:    limit,
		compiled: make(map[string]*lua.LFunction),
	}
}

func (vm *scriptVM) compile(src string) (*lua.LFunction, error) {
	if fn, ok := vm.compiled[src]; ok {
		return fn, nil
	}
	fn, err := vm.L.LoadString(src)
	if err != nil {
		return nil, fmt.Errorf("compiling condition script: %w", err)
	}
	vm.compiled[src] = fn
	return fn, nil
}

// objectTable exposes obj to Lua as {id, level, player, auras}. auras is
// indexed by aura id: target.auras[77] is true while aura 77 is active.
// A nil obj becomes nil.
func (vm *scriptVM) objectTable(obj Object) lua.LValue {
	if obj == nil {
		return lua.LNil
	}
	auras := vm.L.NewTable()
	mt := vm.L.NewTable()
	mt.RawSetString("__index", vm.L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(2)
		L.Push(lua.LBool(obj.HasAura(int32(id))))
		return 1
	}))
	vm.L.SetMetatable(auras, mt)

	t := vm.L.NewTable()
	t.RawSetString("id", lua.LNumber(obj.ObjectID()))
	t.RawSetString("level", lua.LNumber(obj.Level()))
	t.RawSetString("player", lua.LBool(obj.IsPlayer()))
	t.RawSetString("auras", auras)
	return t
}

// eval runs src with target and invoker bound as globals and returns the
// truthiness of its first result.
func (vm *scriptVM) eval(src string, target, invoker Object) (bool, error) {
	fn, err := vm.compile(src)
	if err != nil {
		return false, err
	}

	ctx, cancel := newCountingContext(vm.limit)
	defer cancel()
	vm.L.SetContext(ctx)
	defer vm.L.RemoveContext()

	vm.L.SetGlobal("target", vm.objectTable(target))
	vm.L.SetGlobal("invoker", vm.objectTable(invoker))
	defer func() {
		vm.L.SetGlobal("target", lua.LNil)
		vm.L.SetGlobal("invoker", lua.LNil)
	}()

	vm.L.Push(fn)
	if err := vm.L.PCall(0, 1, nil); err != nil {
		return false, fmt.Errorf("running condition script: %w", err)
	}
	ret := vm.L.Get(-1)
	vm.L.Pop(1)
	return lua.LVAsBool(ret), nil
}

func (vm *scriptVM) close() {
	vm.L.Close()
}
