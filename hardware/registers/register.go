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

package registers

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/logger"
)

// Error patterns returned by the change request functions.
const (
	NotAMember    = "registers: %s: no member named %s"
	InvalidLayout = "registers: %s: layout is invalid and inert to changes"
)

// the name given to synthesised reserved members. any member whose name
// starts with one of the reserved prefixes is excluded from public member
// iteration
const reservedName = "RESERVED"

var reservedPrefixes = []string{reservedName, "_"}

func isReservedName(name string) bool {
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// MemberSpec describes one named bit range of a register, as supplied by a
// register description source.
type MemberSpec struct {
	Name   string
	Offset uint

	// a width of zero is interpreted as a width of one bit
	Width uint

	// the empty string means the member inherits the permissions of the
	// containing register
	Permissions string

	Value       uint32
	Description string
}

// Spec describes a whole register, as supplied by a register description
// source.
type Spec struct {
	Name        string
	Addr        uint32
	Size        uint
	Permissions string
	Members     []MemberSpec
}

// Member is a named, positioned, fixed-width sub-range of a register. The
// Value field is the confirmed value of the member - the last value known to
// reflect actual device state.
type Member struct {
	Name        string
	Offset      uint
	Width       uint
	Permissions Permissions
	Value       uint32
	Description string
}

// mask64 is the member's bitmask without truncation. used during validity
// checking where out-of-bounds bits must be visible
func (m Member) mask64() uint64 {
	return ((uint64(1) << m.Width) - 1) << m.Offset
}

// Mask returns the bitmask of the member within the register.
func (m Member) Mask() uint32 {
	return uint32(m.mask64())
}

// Reserved returns true if the member is a reserved bit range rather than a
// declared one.
func (m Member) Reserved() bool {
	return isReservedName(m.Name)
}

// BitRange returns the conventional rendering of the member's position.
// "[4:2]" for a multi-bit member, "[0]" for a single bit.
func (m Member) BitRange() string {
	if m.Width == 1 {
		return fmt.Sprintf("[%d]", m.Offset)
	}
	return fmt.Sprintf("[%d:%d]", m.Offset+m.Width-1, m.Offset)
}

// pack the value into the member's position in the register.
func (m Member) pack(v uint32) uint32 {
	return (v << m.Offset) & m.Mask()
}

// Register is the bit-field representation of one hardware register. It is
// constructed once from a Spec and the layout is immutable thereafter.
// Member values change through SetFromDevice() and CommitChanges(); desired
// future values accumulate in the change set through RequestChange() and
// RequestChangeIfDifferent().
type Register struct {
	name string
	addr uint32
	size uint

	// resolved permissions. the register is readable if any member is
	// readable, similarly for writeable
	perm Permissions

	// all members, including synthesised reserved members, sorted by
	// ascending offset. the slice is fixed after construction and members
	// are only ever mutated in place, by index
	members []Member

	// pending changes keyed by member name
	changes map[string]uint32

	valid bool
}

// NewRegister is the preferred method of initialisation of the Register
// type. Construction never fails: a Spec describing an unsafe layout
// (overlapping members, bits beyond the size of the register) produces a
// register with the Valid() flag unset. Invalid registers answer queries but
// refuse change requests.
func NewRegister(spec Spec) *Register {
	reg := &Register{
		name:    spec.Name,
		addr:    spec.Addr,
		size:    spec.Size,
		perm:    ParsePermissions(spec.Permissions),
		members: make([]Member, 0, len(spec.Members)),
		changes: make(map[string]uint32),
	}

	for _, ms := range spec.Members {
		reg.members = append(reg.members, reg.resolveMember(ms, spec.Permissions))
	}

	// sort by ascending offset. the order of the description source should
	// already guarantee this but it is cheap to make certain
	sort.SliceStable(reg.members, func(i, j int) bool {
		return reg.members[i].Offset < reg.members[j].Offset
	})

	reg.valid = reg.checkValidity()

	// reserved members are synthesised even for an invalid layout, provided
	// the register size itself is usable. an invalid register can still be
	// inspected and every bit should be accounted for when it is
	if reg.size >= 1 && reg.size <= 32 {
		reg.reserveBits()
	}

	// a register is readable if any member is readable. same for writeable
	for i := range reg.members {
		reg.perm |= reg.members[i].Permissions
	}

	return reg
}

// resolveMember applies the defaulting rules to a MemberSpec: a missing
// width means one bit; a missing name is derived from the offset; missing
// permissions inherit from the register. the initial value is clamped to the
// member width.
func (reg *Register) resolveMember(ms MemberSpec, regPermissions string) Member {
	m := Member{
		Name:        ms.Name,
		Offset:      ms.Offset,
		Width:       ms.Width,
		Value:       ms.Value,
		Description: ms.Description,
	}

	if m.Width == 0 {
		m.Width = 1
	}
	if m.Name == "" {
		m.Name = fmt.Sprintf("R%04x", m.Offset)
	}

	if ms.Permissions == "" {
		m.Permissions = ParsePermissions(regPermissions)
	} else {
		m.Permissions = ParsePermissions(ms.Permissions)
	}

	if m.Width < 32 {
		m.Value &= (1 << m.Width) - 1
	}

	return m
}

// checkValidity looks for the two possible errors in a register layout:
//
//   - members that overlap, referencing the same bit
//   - bits that extend beyond the size of the register
//
// the test for overlap is that the popcount of the OR of all member masks
// equals the sum of all member widths.
func (reg *Register) checkValidity() bool {
	if reg.size == 0 || reg.size > 32 {
		logger.Logf("registers", "invalid definition for %s: unsupported size (%d bits)", reg.name, reg.size)
		return false
	}

	var bm uint64
	var width uint

	for i := range reg.members {
		if reg.members[i].Offset >= 64 {
			logger.Logf("registers", "invalid definition for %s: bits are defined beyond the size of the register", reg.name)
			return false
		}
		bm |= reg.members[i].mask64()
		width += reg.members[i].Width
	}

	if bm > (uint64(1)<<reg.size)-1 {
		logger.Logf("registers", "invalid definition for %s: bits are defined beyond the size of the register", reg.name)
		return false
	}

	if uint(bits.OnesCount64(bm)) != width {
		logger.Logf("registers", "invalid definition for %s: overlapping bits", reg.name)
		return false
	}

	return true
}

// reserveBits synthesises a reserved member for every run of bits not
// claimed by a declared member. after this, every bit of the register is
// covered by exactly one member.
func (reg *Register) reserveBits() {
	var used uint64
	for i := range reg.members {
		used |= reg.members[i].mask64()
	}

	inReserved := false
	var start uint

	for b := uint(0); b < reg.size; b++ {
		if used&(uint64(1)<<b) != 0 {
			if inReserved {
				reg.addReservedMember(start, b)
				inReserved = false
			}
		} else if !inReserved {
			start = b
			inReserved = true
		}
	}
	if inReserved {
		reg.addReservedMember(start, reg.size)
	}

	sort.SliceStable(reg.members, func(i, j int) bool {
		return reg.members[i].Offset < reg.members[j].Offset
	})
}

func (reg *Register) addReservedMember(start, end uint) {
	reg.members = append(reg.members, Member{
		Name:   reservedName,
		Offset: start,
		Width:  end - start,
	})
}

// Name of the register. Advisory: uniqueness within a map is not enforced.
func (reg *Register) Name() string {
	return reg.name
}

// Addr returns the address of the register.
func (reg *Register) Addr() uint32 {
	return reg.addr
}

// Size returns the total bit width of the register.
func (reg *Register) Size() uint {
	return reg.size
}

// Valid returns false if the register was constructed from an unsafe layout.
func (reg *Register) Valid() bool {
	return reg.valid
}

// Readable returns true if any member of the register is readable.
func (reg *Register) Readable() bool {
	return reg.perm.CanRead()
}

// Writeable returns true if any member of the register is writeable.
func (reg *Register) Writeable() bool {
	return reg.perm.CanWrite()
}

// Members returns a copy of the declared members of the register, in
// ascending offset order. Reserved members are not included.
func (reg *Register) Members() []Member {
	m := make([]Member, 0, len(reg.members))
	for i := range reg.members {
		if !reg.members[i].Reserved() {
			m = append(m, reg.members[i])
		}
	}
	return m
}

// AllMembers returns a copy of every member of the register, reserved
// members included, in ascending offset order.
func (reg *Register) AllMembers() []Member {
	m := make([]Member, len(reg.members))
	copy(m, reg.members)
	return m
}

// Member returns a copy of the named member. The second return value is
// false if there is no declared member of that name.
func (reg *Register) Member(name string) (Member, bool) {
	for i := range reg.members {
		if !reg.members[i].Reserved() && reg.members[i].Name == name {
			return reg.members[i], true
		}
	}
	return Member{}, false
}

// Fields returns a snapshot of declared member names and their confirmed
// values.
func (reg *Register) Fields() map[string]uint32 {
	f := make(map[string]uint32)
	for i := range reg.members {
		if !reg.members[i].Reserved() {
			f[reg.members[i].Name] = reg.members[i].Value
		}
	}
	return f
}

// Value returns the confirmed composite value of the register. All members
// contribute, the reserved ones included - a reserved member contributes its
// last known value, zero by default.
func (reg *Register) Value() uint32 {
	var v uint32
	for i := range reg.members {
		v |= reg.members[i].pack(reg.members[i].Value)
	}
	return v
}

// NextValue returns the composite value that would be written to the device:
// the change set merged over the confirmed values.
func (reg *Register) NextValue() uint32 {
	var v uint32
	for i := range reg.members {
		val, ok := reg.changes[reg.members[i].Name]
		if !ok || reg.members[i].Reserved() {
			val = reg.members[i].Value
		}
		v |= reg.members[i].pack(val)
	}
	return v
}

// SetFromDevice takes a raw register value, most likely from a device read
// response, unpacks it into the declared members and stores each as the new
// confirmed value.
//
// The entire change set is cleared, including pending changes to members the
// read did not alter. Device truth overrides local intent.
func (reg *Register) SetFromDevice(raw uint32) {
	for i := range reg.members {
		if reg.members[i].Reserved() {
			continue
		}
		reg.members[i].Value = (raw & reg.members[i].Mask()) >> reg.members[i].Offset
	}
	reg.ClearChanges()
}

// RequestChange stores a pending change to the named member. The value is
// clamped to the width of the member. The change takes effect on the device
// when the register's NextValue() is written out; it takes effect locally
// when that write is confirmed by a read, or when CommitChanges() is called.
func (reg *Register) RequestChange(name string, value uint32) error {
	if !reg.valid {
		return curated.Errorf(InvalidLayout, reg.name)
	}

	m, ok := reg.Member(name)
	if !ok {
		return curated.Errorf(NotAMember, reg.name, name)
	}

	if m.Width < 32 {
		max := uint32(1)<<m.Width - 1
		if value > max {
			value = max
		}
	}

	reg.changes[name] = value
	return nil
}

// RequestChangeIfDifferent stores pending changes for several members at
// once, but only if they would make a difference: the hypothetical composite
// value with all the supplied changes applied is compared against the
// current confirmed composite and, if they are equal, the change set is left
// untouched. This is what prevents a polling UI from generating an endless
// stream of redundant writes.
//
// Names that do not match a declared member are ignored.
func (reg *Register) RequestChangeIfDifferent(values map[string]uint32) error {
	if !reg.valid {
		return curated.Errorf(InvalidLayout, reg.name)
	}

	var hyp uint32
	for i := range reg.members {
		val := reg.members[i].Value
		if !reg.members[i].Reserved() {
			if v, ok := values[reg.members[i].Name]; ok {
				val = v
			}
		}
		hyp |= reg.members[i].pack(val)
	}

	if hyp == reg.Value() {
		return nil
	}

	for name, v := range values {
		if _, ok := reg.Member(name); ok {
			_ = reg.RequestChange(name, v)
		}
	}

	return nil
}

// CommitChanges applies NextValue() as though it had been confirmed by a
// device read and clears the change set. For use when working open loop -
// assuming every write takes effect rather than waiting for read-back
// confirmation.
func (reg *Register) CommitChanges() {
	reg.SetFromDevice(reg.NextValue())
}

// HasPendingChange returns true if the change set is not empty.
func (reg *Register) HasPendingChange() bool {
	return len(reg.changes) > 0
}

// ClearChanges forgets all pending changes without applying them.
func (reg *Register) ClearChanges() {
	for k := range reg.changes {
		delete(reg.changes, k)
	}
}

func (reg *Register) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("Register %s", reg.name))
	for _, m := range reg.Members() {
		s.WriteString(fmt.Sprintf("\n  %s : %s", m.BitRange(), m.Name))
	}
	return s.String()
}
