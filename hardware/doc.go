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

// Package hardware is the gateway to the packages that model a memory-mapped
// peripheral from the host's point of view.
//
// The registers package models individual bit-structured registers and the
// regmap package gathers them into an addressable map. The transport package
// moves bytes to and from the physical device, while the peripheral package
// ties map and transport together with a command queue and a tick driven
// dispatch loop.
//
// None of the hardware packages know anything about the wire format. That is
// the job of the protocol package, which the peripheral package uses through
// the protocol.Codec interface.
package hardware
