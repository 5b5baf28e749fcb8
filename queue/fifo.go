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

package queue

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/mmperiph/curated"
)

// Error patterns returned by the Entry() function.
const (
	OutOfRange = "queue: index out of range (%d)"
)

// FIFO is a fixed-capacity, index-addressable circular buffer. Entries are
// retrieved in the order they were added.
//
// The zero value is not usable. Use NewFIFO().
type FIFO struct {
	depth       int
	blockOnFull bool

	buffer []interface{}
	addPtr int
	getPtr int

	// when addPtr == getPtr the buffer is either completely full or
	// completely empty. the empty flag resolves the ambiguity
	empty bool
}

// NewFIFO is the preferred method of initialisation of the FIFO type. Depth
// is the number of entries the buffer can hold and must be at least one.
//
// If blockOnFull is true, adding to a full buffer fails and the buffer is
// left untouched. If false, adding to a full buffer succeeds and the oldest
// unread entry is forgotten.
func NewFIFO(depth int, blockOnFull bool) (*FIFO, error) {
	if depth < 1 {
		return nil, curated.Errorf("queue: invalid depth (%d)", depth)
	}
	return &FIFO{
		depth:       depth,
		blockOnFull: blockOnFull,
		buffer:      make([]interface{}, depth),
		empty:       true,
	}, nil
}

// Reset empties the buffer.
func (f *FIFO) Reset() {
	f.addPtr = 0
	f.getPtr = 0
	f.empty = true
}

// Depth returns the capacity of the buffer.
func (f *FIFO) Depth() int {
	return f.depth
}

// Len returns the number of entries currently in the buffer. Always between
// zero and the buffer depth.
func (f *FIFO) Len() int {
	if f.IsFull() {
		return f.depth
	}
	return (f.addPtr + f.depth - f.getPtr) % f.depth
}

// IsFull returns true if the buffer is at capacity.
func (f *FIFO) IsFull() bool {
	return !f.empty && f.addPtr == f.getPtr
}

// IsEmpty returns true if the buffer contains no entries.
func (f *FIFO) IsEmpty() bool {
	return f.empty
}

// Add an entry to the buffer. The return value is false only for a blocking
// buffer that is full. A non-blocking buffer always accepts the entry,
// forgetting the oldest unread entry if necessary.
func (f *FIFO) Add(item interface{}) bool {
	if f.IsFull() {
		if f.blockOnFull {
			return false
		}

		// forget the oldest entry by wrapping the get pointer forward
		f.getPtr = (f.getPtr + 1) % f.depth
	}

	f.buffer[f.addPtr] = item
	f.addPtr = (f.addPtr + 1) % f.depth
	f.empty = false

	return true
}

// Get consumes and returns the oldest entry in the buffer. The second return
// value is false if the buffer is empty.
//
// Equivalent to Load() followed immediately by Advance(). Use the two-phase
// form when consumption should depend on the outcome of some other
// operation.
func (f *FIFO) Get() (interface{}, bool) {
	item, ok := f.Load()
	if ok {
		f.Advance()
	}
	return item, ok
}

// Load returns the oldest entry in the buffer without consuming it. The
// second return value is false if the buffer is empty.
//
// Repeated calls to Load() without an intervening Advance() return the same
// entry.
func (f *FIFO) Load() (interface{}, bool) {
	if f.empty {
		return nil, false
	}
	return f.buffer[f.getPtr], true
}

// Advance consumes the entry at the head of the buffer. No-op if the buffer
// is empty.
func (f *FIFO) Advance() {
	if f.empty {
		return
	}

	f.getPtr = (f.getPtr + 1) % f.depth
	if f.addPtr == f.getPtr {
		f.empty = true
	}
}

// Entry returns the entry at the given index without consuming anything.
// Index zero is the oldest entry in the buffer. Negative indices count back
// from the newest entry, -1 being the newest. An index outside the current
// length of the buffer results in an error (curated, OutOfRange pattern).
func (f *FIFO) Entry(idx int) (interface{}, error) {
	n := f.Len()

	i := idx
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, curated.Errorf(OutOfRange, idx)
	}

	return f.buffer[(i+f.getPtr)%f.depth], nil
}

func (f *FIFO) String() string {
	s := strings.Builder{}
	s.WriteString("[")
	for i := 0; i < f.Len(); i++ {
		if i > 0 {
			s.WriteString(",")
		}
		e, _ := f.Entry(i)
		s.WriteString(fmt.Sprintf("%v", e))
	}
	s.WriteString("]")
	return s.String()
}
