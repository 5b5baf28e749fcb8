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

// Package regmap collects registers into an address-keyed map. The map is
// built once from an ordered list of register specifications and is not
// structurally mutated afterwards - a changed register description means a
// rebuilt map.
//
// The map is where bulk operations on registers live: collecting every
// register with a pending change for dispatch to the device, routing an
// incoming device value to the right register, committing or clearing all
// pending changes at once.
package regmap

import (
	"sort"
	"strings"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/hardware/registers"
	"github.com/jetsetilly/mmperiph/logger"
)

// Error patterns returned by map operations that reference an address.
const (
	UnknownAddress = "regmap: unknown address (%#04x)"
)

// Map is an address-keyed collection of registers.
type Map struct {
	regs map[uint32]*registers.Register

	// addresses in ascending order. iteration over a go map is unordered
	// and parts of the engine (name lookup, change collection) need to be
	// deterministic
	addresses []uint32

	// the width of the widest register in the map
	width uint
}

// NewMap is the preferred method of initialisation of the Map type. The
// specification list is processed in order; a register at an address that
// has already been seen replaces the earlier one, with a warning in the log.
func NewMap(specs []registers.Spec) *Map {
	mp := &Map{
		regs: make(map[uint32]*registers.Register),
	}

	for _, spec := range specs {
		reg := registers.NewRegister(spec)

		if existing, ok := mp.regs[reg.Addr()]; ok {
			logger.Logf("regmap", "overwriting register %s at address %#04x with %s",
				existing.Name(), reg.Addr(), reg.Name())
		}
		mp.regs[reg.Addr()] = reg

		if reg.Size() > mp.width {
			mp.width = reg.Size()
		}
	}

	mp.addresses = make([]uint32, 0, len(mp.regs))
	for addr := range mp.regs {
		mp.addresses = append(mp.addresses, addr)
	}
	sort.Slice(mp.addresses, func(i, j int) bool {
		return mp.addresses[i] < mp.addresses[j]
	})

	return mp
}

// Len returns the number of registers in the map.
func (mp *Map) Len() int {
	return len(mp.regs)
}

// Width returns the bit width of the widest register in the map.
func (mp *Map) Width() uint {
	return mp.width
}

// Addresses returns every register address in the map, in ascending order.
func (mp *Map) Addresses() []uint32 {
	a := make([]uint32, len(mp.addresses))
	copy(a, mp.addresses)
	return a
}

// Register returns the register at the given address. The second return
// value is false if there is no register at that address.
func (mp *Map) Register(addr uint32) (*registers.Register, bool) {
	reg, ok := mp.regs[addr]
	return reg, ok
}

// AddrByName returns the address of the first register with the given name.
// Register names are advisory so a name may well match more than one
// register; the match at the lowest address wins. The second return value
// is false if no register matches.
func (mp *Map) AddrByName(name string) (uint32, bool) {
	for _, addr := range mp.addresses {
		if mp.regs[addr].Name() == name {
			return addr, true
		}
	}
	return 0, false
}

// ChangedRegisters returns the address and NextValue() of every register
// with a pending change. With autoClear, the change sets of those registers
// are cleared as a side effect - for fire-and-forget sends where no
// confirmation is expected.
func (mp *Map) ChangedRegisters(autoClear bool) map[uint32]uint32 {
	changed := make(map[uint32]uint32)
	for _, addr := range mp.addresses {
		reg := mp.regs[addr]
		if reg.HasPendingChange() {
			changed[addr] = reg.NextValue()
			if autoClear {
				reg.ClearChanges()
			}
		}
	}
	return changed
}

// ApplyDeviceValue routes a confirmed device value to the register at the
// given address. An unknown address is an error (curated, UnknownAddress
// pattern) but never a fatal one; the map is unaffected.
func (mp *Map) ApplyDeviceValue(addr uint32, raw uint32) error {
	reg, ok := mp.regs[addr]
	if !ok {
		return curated.Errorf(UnknownAddress, addr)
	}
	reg.SetFromDevice(raw)
	return nil
}

// Fields returns the member-name to confirmed-value snapshot of the register
// at the given address.
func (mp *Map) Fields(addr uint32) (map[string]uint32, error) {
	reg, ok := mp.regs[addr]
	if !ok {
		return nil, curated.Errorf(UnknownAddress, addr)
	}
	return reg.Fields(), nil
}

// ClearChanges forgets the pending changes of every register in the map.
func (mp *Map) ClearChanges() {
	for _, reg := range mp.regs {
		reg.ClearChanges()
	}
}

// Commit applies the pending changes of every register in the map, as
// CommitChanges() does for a single register.
func (mp *Map) Commit() {
	for _, reg := range mp.regs {
		reg.CommitChanges()
	}
}

func (mp *Map) String() string {
	s := make([]string, 0, len(mp.addresses))
	for _, addr := range mp.addresses {
		s = append(s, mp.regs[addr].String())
	}
	return strings.Join(s, "\n")
}
