// Package luatrap extends the CPU's trap-opcode mechanism with optional
// Lua scripting: a .lua script registered against a trap opcode can
// inspect and mutate CPU registers and memory without a Go recompile.
// The Dormann/Lorenz harnesses and the CLI do not load it; callers
// register Script.Handler with CPU.TrapOpcode themselves.
package luatrap

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	c64 "github.com/sixtyfour/c64core"
)

// Script wraps a loaded Lua state bound to a single CPU/Memory pair.
type Script struct {
	state *lua.LState
	cpu   *c64.CPU
	mem   *c64.Memory
}

// Load reads and compiles a Lua script from path, exposing cpu_reg_get,
// cpu_reg_set and mem_read/mem_write to the script for inspecting and
// mutating emulator state from a trap handler.
func Load(path string, cpu *c64.CPU, mem *c64.Memory) (*Script, error) {
	state := lua.NewState()
	s := &Script{state: state, cpu: cpu, mem: mem}

	state.SetGlobal("mem_read", state.NewFunction(func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		L.Push(lua.LNumber(mem.ReadByte(addr)))
		return 1
	}))
	state.SetGlobal("mem_write", state.NewFunction(func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		value := uint8(L.CheckInt(2))
		mem.WriteByte(addr, value)
		return 0
	}))
	state.SetGlobal("cpu_reg_get", state.NewFunction(func(L *lua.LState) int {
		switch L.CheckString(1) {
		case "A":
			L.Push(lua.LNumber(cpu.A))
		case "X":
			L.Push(lua.LNumber(cpu.X))
		case "Y":
			L.Push(lua.LNumber(cpu.Y))
		case "PC":
			L.Push(lua.LNumber(cpu.PC))
		default:
			L.Push(lua.LNil)
		}
		return 1
	}))
	state.SetGlobal("cpu_reg_set", state.NewFunction(func(L *lua.LState) int {
		v := L.CheckInt(2)
		switch L.CheckString(1) {
		case "A":
			cpu.A = uint8(v)
		case "X":
			cpu.X = uint8(v)
		case "Y":
			cpu.Y = uint8(v)
		case "PC":
			cpu.PC = uint16(v)
		}
		return 0
	}))

	if err := state.DoFile(path); err != nil {
		return nil, fmt.Errorf("luatrap: load %s: %w", path, err)
	}
	return s, nil
}

// Close releases the underlying Lua state.
func (s *Script) Close() { s.state.Close() }

// Handler returns a c64.TrapHandler that calls the script's global
// "on_trap(opcode)" function, returning true when the script handled the
// opcode (its Lua return value is truthy).
func (s *Script) Handler() c64.TrapHandler {
	return func(opcode byte, cpu *c64.CPU, mem *c64.Memory) bool {
		fn := s.state.GetGlobal("on_trap")
		if fn == lua.LNil {
			return false
		}
		if err := s.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(opcode)); err != nil {
			return false
		}
		ret := s.state.Get(-1)
		s.state.Pop(1)
		return lua.LVAsBool(ret)
	}
}
