// This file is part of MMPeriph.
//
// MMPeriph is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// MMPeriph is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with MMPeriph.  If not, see <https://www.gnu.org/licenses/>.

// Package script runs Lua control scripts against a peripheral. It is the
// scriptable stand-in for a GUI: anything a user interface would do through
// bindings, a script can do through the global functions installed into the
// Lua state.
//
//	read(addr)              queue a register read
//	write(addr, value)      queue a register write
//	value(reg)              composite confirmed value of a register, by name
//	field(reg, member)      confirmed value of one member, by name
//	request(reg, member, v) request a member change in the local map
//	push(openloop)          push pending changes to the device
//	tick(n)                 run the engine for n ticks (default 1)
//	log(msg)                write to the central log
//
// Engine errors are raised as Lua errors and surface from RunFile/RunString.
package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/hardware/peripheral"
	"github.com/jetsetilly/mmperiph/hardware/registers"
	"github.com/jetsetilly/mmperiph/logger"
)

// Error patterns returned by the script functions.
const (
	ScriptError = "script: %v"
)

// Console couples a Lua state to a peripheral.
type Console struct {
	state *lua.LState
	per   *peripheral.Periph
}

// NewConsole is the preferred method of initialisation of the Console type.
// Close() the console when done with it.
func NewConsole(per *peripheral.Periph) *Console {
	con := &Console{
		state: lua.NewState(),
		per:   per,
	}

	con.state.SetGlobal("read", con.state.NewFunction(con.luaRead))
	con.state.SetGlobal("write", con.state.NewFunction(con.luaWrite))
	con.state.SetGlobal("value", con.state.NewFunction(con.luaValue))
	con.state.SetGlobal("field", con.state.NewFunction(con.luaField))
	con.state.SetGlobal("request", con.state.NewFunction(con.luaRequest))
	con.state.SetGlobal("push", con.state.NewFunction(con.luaPush))
	con.state.SetGlobal("tick", con.state.NewFunction(con.luaTick))
	con.state.SetGlobal("log", con.state.NewFunction(con.luaLog))

	return con
}

// Close releases the Lua state.
func (con *Console) Close() {
	con.state.Close()
}

// RunFile executes a Lua script from a file.
func (con *Console) RunFile(filename string) error {
	if err := con.state.DoFile(filename); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// RunString executes a Lua script from a string.
func (con *Console) RunString(src string) error {
	if err := con.state.DoString(src); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// lookup a register by Lua-supplied name, raising a Lua error when absent.
func (con *Console) register(l *lua.LState, name string) *registers.Register {
	addr, ok := con.per.Map().AddrByName(name)
	if !ok {
		l.RaiseError("no register named %s", name)
		return nil
	}
	reg, _ := con.per.Map().Register(addr)
	return reg
}

func (con *Console) luaRead(l *lua.LState) int {
	addr := uint32(l.CheckInt(1))
	if err := con.per.QueueRead(addr); err != nil {
		l.RaiseError("%v", err)
	}
	return 0
}

func (con *Console) luaWrite(l *lua.LState) int {
	addr := uint32(l.CheckInt(1))
	value := uint32(l.CheckInt64(2))
	if err := con.per.QueueWrite(addr, value); err != nil {
		l.RaiseError("%v", err)
	}
	return 0
}

func (con *Console) luaValue(l *lua.LState) int {
	reg := con.register(l, l.CheckString(1))
	l.Push(lua.LNumber(reg.Value()))
	return 1
}

func (con *Console) luaField(l *lua.LState) int {
	name := l.CheckString(1)
	member := l.CheckString(2)

	reg := con.register(l, name)
	m, ok := reg.Member(member)
	if !ok {
		l.RaiseError("%s: no member named %s", name, member)
	}
	l.Push(lua.LNumber(m.Value))
	return 1
}

func (con *Console) luaRequest(l *lua.LState) int {
	name := l.CheckString(1)
	member := l.CheckString(2)
	value := uint32(l.CheckInt64(3))

	reg := con.register(l, name)
	if err := reg.RequestChange(member, value); err != nil {
		l.RaiseError("%v", err)
	}
	return 0
}

func (con *Console) luaPush(l *lua.LState) int {
	openLoop := l.OptBool(1, false)
	if err := con.per.PushModelChanges(openLoop); err != nil {
		l.RaiseError("%v", err)
	}
	return 0
}

func (con *Console) luaTick(l *lua.LState) int {
	n := l.OptInt(1, 1)
	for i := 0; i < n; i++ {
		con.per.Tick()
	}
	return 0
}

func (con *Console) luaLog(l *lua.LState) int {
	logger.Log("lua", l.CheckString(1))
	return 0
}
