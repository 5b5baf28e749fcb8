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

// Package peripheral is the orchestration layer of the engine. A Periph owns
// one register map, a codec, a transport and (usually) a command queue, and
// moves register values between three parties: the outside application code
// (through Getter/Setter bindings), the local register map, and the device at
// the far end of the transport.
//
// The Periph is tick-driven. Nothing happens between calls to Tick(): one
// call dispatches at most one queued command and polls the transport at most
// once. The driving loop therefore controls the pace at which the device is
// spoken to, which matters when the transport is a slow serial line.
//
// Command dispatch is two-phase. A queued command is peeked, handed to the
// transport, and only consumed from the queue if the transport accepted it.
// A transport failure leaves the command where it was and the next Tick()
// tries again. Commands are never reordered and never dispatched twice.
//
// The flow of a value change, end to end:
//
//	application state --PushUIChanges()--> pending changes in the map
//	pending changes --PushModelChanges()--> write commands in the queue
//	queue --Tick()--> transport --device--> response bytes
//	response --Tick()--> map update --> Setter bindings --> application
//
// Bindings are explicit. The integrating code describes which of its values
// attach to which register member, either all at once through the Binder
// interface or one at a time with RegisterGetter() / RegisterSetter(). The
// engine never inspects the integrating code.
package peripheral
