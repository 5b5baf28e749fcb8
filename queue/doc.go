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

// Package queue implements the fixed-capacity circular buffers used to hold
// pending device commands.
//
// The FIFO type is the workhorse. In addition to the usual Add() and Get()
// operations it supports a two-phase consumption protocol: Load() peeks at
// the oldest entry without consuming it and Advance() consumes it. The
// two-phase protocol allows a consumer to attempt a side-effecting operation
// (a transport write, say) and only dequeue the entry once that operation has
// succeeded. A failed operation leaves the entry at the head of the queue
// ready for a retry.
//
// What happens when the buffer is full is a policy decision made at creation
// time. A blocking buffer rejects new entries. A non-blocking buffer accepts
// them and silently forgets the oldest unread entry.
//
// The Stack type is the last-in-first-out variant. It shares the full-buffer
// policy of the FIFO but reverses traversal order and, unlike the FIFO, pegs
// out-of-range indices to the nearest valid entry rather than returning an
// error.
//
// Neither type is safe for concurrent use. The expectation is that a single
// goroutine drives both the producing and consuming ends, as described in the
// peripheral package.
package queue
