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

package peripheral

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/hardware/regmap"
	"github.com/jetsetilly/mmperiph/hardware/transport"
	"github.com/jetsetilly/mmperiph/logger"
	"github.com/jetsetilly/mmperiph/protocol"
	"github.com/jetsetilly/mmperiph/queue"
)

// Error patterns returned by the Periph functions.
const (
	QueueFull = "peripheral: command queue is full"
)

// number of commands that can be waiting for dispatch at any one time
const queueDepth = 10

const (
	opWrite = iota
	opRead
)

// command is one entry in the dispatch queue.
type command struct {
	op   int
	addr uint32
	data uint32
}

func (c command) String() string {
	if c.op == opRead {
		return fmt.Sprintf("read %#04x", c.addr)
	}
	return fmt.Sprintf("write %#04x <- %#08x", c.addr, c.data)
}

// Periph is the controller for one memory-mapped peripheral.
type Periph struct {
	mp    *regmap.Map
	codec protocol.Codec
	trans transport.Transport

	// queued mode buffers commands for Tick() to dispatch one at a time.
	// direct mode sends synchronously from QueueRead()/QueueWrite()
	queued bool
	cmds   *queue.FIFO

	getters map[uint32]map[string]Getter
	setters map[uint32]map[string]Setter

	// whether the transport opened successfully
	ready bool

	// the Periph is tick-driven and single-threaded by design but the public
	// functions can safely be called from more than one goroutine. crit is
	// held for the duration of one logical operation
	crit sync.Mutex
}

// NewPeriph is the preferred method of initialisation of the Periph type.
//
// The transport is opened as part of initialisation. An open failure is
// logged rather than returned; the Periph remains usable for local register
// work and Ready() reports the transport state. The binder may be nil.
func NewPeriph(mp *regmap.Map, codec protocol.Codec, trans transport.Transport, queued bool, binder Binder) (*Periph, error) {
	p := &Periph{
		mp:      mp,
		codec:   codec,
		trans:   trans,
		queued:  queued,
		getters: make(map[uint32]map[string]Getter),
		setters: make(map[uint32]map[string]Setter),
	}

	if queued {
		var err error
		p.cmds, err = queue.NewFIFO(queueDepth, true)
		if err != nil {
			return nil, curated.Errorf("peripheral: %v", err)
		}
	}

	if err := trans.Open(); err != nil {
		logger.Logf("peripheral", "transport: %v", err)
	} else {
		p.ready = true
	}

	if binder != nil {
		if err := p.Bind(binder); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Ready returns true if the transport opened successfully.
func (p *Periph) Ready() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.ready
}

// Map returns the register map the Periph was built around.
func (p *Periph) Map() *regmap.Map {
	return p.mp
}

// dispatch a command through the codec and transport. lock must be held.
func (p *Periph) dispatch(cmd command) error {
	var msg []byte
	switch cmd.op {
	case opRead:
		msg = p.codec.EncodeRead(cmd.addr)
	case opWrite:
		msg = p.codec.EncodeWrite(cmd.addr, cmd.data)
	}
	return p.trans.Send(msg)
}

// queue or directly dispatch a command. lock must be held.
func (p *Periph) enqueue(cmd command) error {
	if !p.queued {
		return p.dispatch(cmd)
	}
	if !p.cmds.Add(cmd) {
		return curated.Errorf(QueueFull)
	}
	return nil
}

// QueueWrite schedules a register write to the device. In queued mode a full
// queue returns a QueueFull error and the caller may retry; in direct mode
// the write is dispatched immediately and any error is the transport's.
func (p *Periph) QueueWrite(addr uint32, value uint32) error {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.enqueue(command{op: opWrite, addr: addr, data: value})
}

// QueueRead schedules a register read from the device. The device's response
// arrives through a later Tick() and is applied to the register map.
func (p *Periph) QueueRead(addr uint32) error {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.enqueue(command{op: opRead, addr: addr})
}

// Tick performs one unit of work in each direction: at most one queued
// command is dispatched and the transport is polled at most once.
//
// A dispatch is only consumed from the queue when the transport accepts it.
// A refused command stays at the head of the queue and is retried on the
// next call, in its original position relative to every other command.
//
// A polled response that cannot be decoded causes a transport reset on the
// assumption that the pipe is carrying garbage.
func (p *Periph) Tick() {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.queued {
		if c, ok := p.cmds.Load(); ok {
			if err := p.dispatch(c.(command)); err != nil {
				logger.Logf("peripheral", "dispatch: %v", err)
			} else {
				p.cmds.Advance()
			}
		}
	}

	msg := p.trans.Poll(p.codec.ResponseLength())
	if len(msg) == 0 {
		return
	}

	addr, value, err := p.codec.Decode(msg)
	if err != nil {
		logger.Logf("peripheral", "%v", err)
		p.trans.Reset()
		return
	}

	p.deviceMessage(addr, value)
}

// OnDeviceMessage applies an already-decoded device response to the register
// map. It is the entry point for responses that arrive outside the Tick()
// poll, a test harness or an out-of-band notification channel for example.
func (p *Periph) OnDeviceMessage(addr uint32, value uint32) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.deviceMessage(addr, value)
}

// lock must be held.
func (p *Periph) deviceMessage(addr uint32, value uint32) {
	if err := p.mp.ApplyDeviceValue(addr, value); err != nil {
		// an unknown address is reported, not fatal
		logger.Logf("peripheral", "%v", err)
		return
	}

	fields, err := p.mp.Fields(addr)
	if err != nil {
		return
	}

	for name, v := range fields {
		if s := p.setter(addr, name); s != nil {
			s(v)
		}
	}
}

// PushUIChanges polls every registered Getter and requests a change for any
// member whose wanted value differs from the last confirmed device value.
// Members whose Getters decline to answer are left alone, as are members
// with no Getter at all.
func (p *Periph) PushUIChanges() {
	p.crit.Lock()
	defer p.crit.Unlock()

	for _, addr := range p.mp.Addresses() {
		values := make(map[string]uint32)
		for name, g := range p.getters[addr] {
			if g == nil {
				continue
			}
			if v, ok := g(); ok {
				values[name] = v
			}
		}
		if len(values) == 0 {
			continue
		}

		reg, _ := p.mp.Register(addr)
		if err := reg.RequestChangeIfDifferent(values); err != nil {
			logger.Logf("peripheral", "%v", err)
		}
	}
}

// PushModelChanges turns every pending register change into a queued write
// command, in ascending address order.
//
// With openLoop, the changes are committed locally on the assumption the
// writes will succeed. Otherwise a follow-up read is queued for each written
// address; the device's response confirms or overrides the written value and
// clears the pending change when it arrives.
//
// A queueing failure stops the process and returns the error. Changes not
// yet queued remain pending, so a retry after the queue drains picks up
// where this call left off.
func (p *Periph) PushModelChanges(openLoop bool) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	changed := p.mp.ChangedRegisters(false)

	addrs := make([]uint32, 0, len(changed))
	for addr := range changed {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		if err := p.enqueue(command{op: opWrite, addr: addr, data: changed[addr]}); err != nil {
			return err
		}
	}

	if openLoop {
		p.mp.Commit()
		return nil
	}

	for _, addr := range addrs {
		if err := p.enqueue(command{op: opRead, addr: addr}); err != nil {
			return err
		}
	}

	return nil
}

// QueueLen returns the number of commands waiting for dispatch. Always zero
// in direct mode.
func (p *Periph) QueueLen() int {
	p.crit.Lock()
	defer p.crit.Unlock()
	if !p.queued {
		return 0
	}
	return p.cmds.Len()
}

func (p *Periph) String() string {
	p.crit.Lock()
	defer p.crit.Unlock()

	s := strings.Builder{}
	if p.queued {
		s.WriteString(fmt.Sprintf("queued (%d waiting)", p.cmds.Len()))
	} else {
		s.WriteString("direct")
	}
	if !p.ready {
		s.WriteString(", transport not open")
	}
	s.WriteString(fmt.Sprintf(", %d registers", p.mp.Len()))
	return s.String()
}
