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

// Package registers implements the bit-field model of a single hardware
// register: an addressable unit of up to 32 bits, divided into named members
// each with an offset, a width and read/write permissions.
//
// A Register is built once from a Spec and is structurally immutable from
// then on. Bits not claimed by any declared member are covered by
// synthesised reserved members so that every bit of the register is
// accounted for. A layout in which members overlap or spill past the end of
// the register marks the register as invalid; an invalid register can still
// be inspected but it will not accept change requests.
//
// Two values are tracked for every member. The confirmed value is the last
// value known to reflect actual device state, updated by SetFromDevice().
// Pending values - changes requested locally but not yet confirmed by the
// device - live in the register's change set, populated by RequestChange()
// and friends. NextValue() is the composite value that would be written to
// the device: the change set merged over the confirmed values.
//
// Any confirmed read clears the entire change set, even for members the read
// did not alter. A read is ground truth and always wins over unconfirmed
// local edits.
package registers
