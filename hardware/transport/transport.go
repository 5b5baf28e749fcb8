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

// Package transport abstracts the physical layer between the engine and the
// device. The peripheral package drives a Transport implementation with
// encoded messages and polls it for response bytes; it neither knows nor
// cares whether the bytes cross a serial cable, a socket or nothing at all.
//
// Implementations must be non-blocking, or at worst bounded-blocking. The
// engine calls Send() and Poll() from its tick loop and a transport that
// stalls will stall the engine with it.
//
// The Loopback type is the transport equivalent of /dev/null with an
// optional puppeteer: a Responder function can synthesise device responses
// to sent messages. It is used by tests and by anything that wants to
// exercise the engine without hardware. The serial sub-package provides the
// real thing for tty devices.
package transport

// Transport is the physical layer the engine sends encoded messages
// through.
type Transport interface {
	// Open acquires the underlying device. An error means no device; the
	// engine remains usable but nothing will ever be dispatched.
	Open() error

	// Send transmits an encoded message. An error means the message was
	// not sent and may be retried.
	Send(msg []byte) error

	// Poll returns up to n bytes of response data, or nil if nothing is
	// waiting. Poll must not block.
	Poll(n int) []byte

	// Reset flushes the device pipe. Called when message corruption has
	// been detected and anything in flight is untrustworthy.
	Reset()

	// Close releases the underlying device.
	Close() error
}
