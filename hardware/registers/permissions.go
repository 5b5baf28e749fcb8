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

import "strings"

// Permissions is a bitmask of the access rights of a register or member.
type Permissions uint8

// List of valid Permissions values. A zero value means no access at all,
// which is what the synthesised reserved members get.
const (
	Read Permissions = 1 << iota
	Write
)

// ParsePermissions converts a permission string to a Permissions bitmask.
// The letters 'r' and 'w' (either case) grant read and write access.
// Unrecognised characters are ignored.
func ParsePermissions(s string) Permissions {
	var p Permissions
	for _, c := range strings.ToLower(s) {
		switch c {
		case 'r':
			p |= Read
		case 'w':
			p |= Write
		}
	}
	return p
}

// CanRead returns true if the Read bit is set.
func (p Permissions) CanRead() bool {
	return p&Read == Read
}

// CanWrite returns true if the Write bit is set.
func (p Permissions) CanWrite() bool {
	return p&Write == Write
}

func (p Permissions) String() string {
	s := strings.Builder{}
	if p.CanRead() {
		s.WriteRune('r')
	}
	if p.CanWrite() {
		s.WriteRune('w')
	}
	if s.Len() == 0 {
		return "-"
	}
	return s.String()
}
