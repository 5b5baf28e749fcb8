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

package peripheral

import (
	"github.com/jetsetilly/mmperiph/curated"
)

// Error patterns for binding registration.
const (
	UnknownName    = "peripheral: no register named %s"
	UnknownAddress = "peripheral: no register at address %#04x"
	UnknownMember  = "peripheral: %s: no member named %s"
)

// Getter polls the outside application for the wanted value of a register
// member. The bool return is false when the application has no opinion, in
// which case the member is left alone.
type Getter func() (uint32, bool)

// Setter pushes a device-confirmed member value out to the application.
type Setter func(value uint32)

// Ref names a register either by numeric address or by name. Use the AtAddr()
// and ByName() constructors.
type Ref struct {
	byName bool
	name   string
	addr   uint32
}

// AtAddr refers to the register at a numeric address.
func AtAddr(addr uint32) Ref {
	return Ref{addr: addr}
}

// ByName refers to a register by name. When two registers share a name the
// one at the lowest address is meant.
func ByName(name string) Ref {
	return Ref{byName: true, name: name}
}

// Binding attaches application code to one register member. Either or both
// of Get and Set may be nil.
type Binding struct {
	Register Ref
	Member   string
	Get      Getter
	Set      Setter
}

// Binder is implemented by application types that want to attach to the
// engine wholesale rather than member by member.
type Binder interface {
	Bindings() []Binding
}

// resolve a Ref to an address that exists in the map and, when member is not
// empty, check the member exists too.
func (p *Periph) resolve(ref Ref, member string) (uint32, error) {
	addr := ref.addr
	if ref.byName {
		var ok bool
		addr, ok = p.mp.AddrByName(ref.name)
		if !ok {
			return 0, curated.Errorf(UnknownName, ref.name)
		}
	}

	reg, ok := p.mp.Register(addr)
	if !ok {
		return 0, curated.Errorf(UnknownAddress, addr)
	}

	if member != "" {
		if _, ok := reg.Member(member); !ok {
			return 0, curated.Errorf(UnknownMember, reg.Name(), member)
		}
	}

	return addr, nil
}

// RegisterGetter attaches a Getter to a register member, replacing any
// previous Getter for that member.
func (p *Periph) RegisterGetter(ref Ref, member string, fn Getter) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	addr, err := p.resolve(ref, member)
	if err != nil {
		return err
	}

	if p.getters[addr] == nil {
		p.getters[addr] = make(map[string]Getter)
	}
	p.getters[addr][member] = fn

	return nil
}

// RegisterSetter attaches a Setter to a register member, replacing any
// previous Setter for that member.
func (p *Periph) RegisterSetter(ref Ref, member string, fn Setter) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	addr, err := p.resolve(ref, member)
	if err != nil {
		return err
	}

	if p.setters[addr] == nil {
		p.setters[addr] = make(map[string]Setter)
	}
	p.setters[addr][member] = fn

	return nil
}

// Bind attaches every binding offered by the Binder. The first binding that
// fails to resolve stops the process and its error is returned; bindings
// before it remain attached.
func (p *Periph) Bind(b Binder) error {
	for _, bn := range b.Bindings() {
		if bn.Get != nil {
			if err := p.RegisterGetter(bn.Register, bn.Member, bn.Get); err != nil {
				return err
			}
		}
		if bn.Set != nil {
			if err := p.RegisterSetter(bn.Register, bn.Member, bn.Set); err != nil {
				return err
			}
		}
	}
	return nil
}

// getter and setter lookup. lock must be held.

func (p *Periph) getter(addr uint32, member string) Getter {
	if g, ok := p.getters[addr]; ok {
		return g[member]
	}
	return nil
}

func (p *Periph) setter(addr uint32, member string) Setter {
	if s, ok := p.setters[addr]; ok {
		return s[member]
	}
	return nil
}
