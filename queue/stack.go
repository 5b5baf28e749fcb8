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

// Stack is the last-in-first-out variant of the FIFO. The full-buffer policy
// works the same way but entries are retrieved newest first.
//
// Indexing differs from the FIFO in two ways: index zero is the most recently
// added entry; and out-of-range indices are pegged to the nearest valid entry
// rather than causing an error. Asking for an entry from an empty stack is
// still an error.
//
// The zero value is not usable. Use NewStack().
type Stack struct {
	FIFO

	// for a stack the add pointer is always one ahead of the get pointer so
	// the pointers alone cannot describe how many entries are held
	numItems int
}

// NewStack is the preferred method of initialisation of the Stack type. The
// arguments are as for NewFIFO().
func NewStack(depth int, blockOnFull bool) (*Stack, error) {
	f, err := NewFIFO(depth, blockOnFull)
	if err != nil {
		return nil, err
	}
	return &Stack{FIFO: *f}, nil
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.addPtr = 0
	s.getPtr = 0
	s.numItems = 0
	s.empty = true
}

// Len returns the number of entries currently in the stack.
func (s *Stack) Len() int {
	return s.numItems
}

// IsFull returns true if the stack is at capacity.
func (s *Stack) IsFull() bool {
	return s.numItems == s.depth
}

// IsEmpty returns true if the stack contains no entries.
func (s *Stack) IsEmpty() bool {
	return s.numItems == 0
}

// Add an entry to the stack. The return value is false only for a blocking
// stack that is full. A non-blocking stack always accepts the entry, pushing
// the oldest entry out of the buffer if necessary.
func (s *Stack) Add(item interface{}) bool {
	if s.IsFull() {
		if s.blockOnFull {
			return false
		}

		// the entry at the add pointer is the oldest. it is about to be
		// overwritten so the entry count stays where it is once the pointers
		// have moved on
		s.numItems--
	}

	s.buffer[s.addPtr] = item

	// the get pointer trails the add pointer by one so that it always points
	// at the most recent entry
	s.getPtr = s.addPtr
	s.addPtr = (s.addPtr + 1) % s.depth
	s.numItems++
	s.empty = false

	return true
}

// Get consumes and returns the most recently added entry. The second return
// value is false if the stack is empty.
func (s *Stack) Get() (interface{}, bool) {
	item, ok := s.Load()
	if ok {
		s.Advance()
	}
	return item, ok
}

// Load returns the most recently added entry without consuming it. The
// second return value is false if the stack is empty.
func (s *Stack) Load() (interface{}, bool) {
	if s.numItems == 0 {
		return nil, false
	}
	return s.buffer[s.getPtr], true
}

// Advance consumes the entry at the top of the stack. No-op if the stack is
// empty.
func (s *Stack) Advance() {
	if s.numItems == 0 {
		return
	}

	s.addPtr = s.getPtr
	s.getPtr = (s.getPtr - 1 + s.depth) % s.depth
	s.numItems--
	if s.numItems == 0 {
		s.empty = true
	}
}

// Entry returns the entry at the given index without consuming anything.
// Index zero is the most recently added entry. Indices beyond either end of
// the stack are pegged to the nearest valid entry. An empty stack results in
// an error (curated, OutOfRange pattern).
func (s *Stack) Entry(idx int) (interface{}, error) {
	n := s.numItems
	if n == 0 {
		return nil, curated.Errorf(OutOfRange, idx)
	}

	i := idx
	if i < 0 {
		i = n - ((-i) % n)
	}
	if i > n-1 {
		i = n - 1
	}

	return s.buffer[((s.getPtr-i)%s.depth+s.depth)%s.depth], nil
}

func (s *Stack) String() string {
	b := strings.Builder{}
	b.WriteString("[")
	for i := 0; i < s.numItems; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		e, _ := s.Entry(i)
		b.WriteString(fmt.Sprintf("%v", e))
	}
	b.WriteString("]")
	return b.String()
}
