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

// Package protocol translates between register commands and the bytes that
// cross the wire. A device whose interface is a register map only ever
// receives two kinds of message - read register and write register - and
// only ever sends one - the response to a read.
//
// The Codec interface is what the peripheral package depends on. The IPCTRL
// type is the one concrete codec in the project, an ASCII encoding with an
// optional CRC field.
package protocol

// Codec translates register commands to wire messages and device responses
// back to (address, value) pairs.
//
// Implementations must be stateless with respect to individual messages: a
// decode failure must not affect the decoding of subsequent messages.
type Codec interface {
	// EncodeRead composes the wire message for a read of the register at
	// the given address.
	EncodeRead(addr uint32) []byte

	// EncodeWrite composes the wire message for a write of value to the
	// register at the given address.
	EncodeWrite(addr uint32, value uint32) []byte

	// Decode interprets a raw device response as a register address and
	// value. An error means the response could not be parsed; the caller
	// should treat the transport as suspect.
	Decode(msg []byte) (addr uint32, value uint32, err error)

	// ResponseLength returns the number of bytes expected in a device
	// response message.
	ResponseLength() int
}
