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

package transport

// Loopback is an in-memory implementation of the Transport interface. With
// no Responder it swallows everything sent to it. With a Responder it plays
// the part of a device, queueing the Responder's reply for a later Poll().
//
// Unlike a real byte pipe, the loopback deals in whole messages: each Poll()
// returns one queued response in its entirety, regardless of the requested
// byte count. This matches the way a polled serial read collects everything
// the device has sent since the last poll.
type Loopback struct {
	// Responder is consulted on every successful Send(). A nil return
	// queues nothing
	Responder func(sent []byte) []byte

	// SendErr, when not nil, is returned by every Send(). For failure
	// injection
	SendErr error

	// every message successfully sent, oldest first
	Sent [][]byte

	// number of times Reset() has been called
	Resets int

	pending [][]byte
	open    bool
}

// Open implements the Transport interface.
func (lb *Loopback) Open() error {
	lb.open = true
	return nil
}

// Send implements the Transport interface.
func (lb *Loopback) Send(msg []byte) error {
	if lb.SendErr != nil {
		return lb.SendErr
	}

	m := make([]byte, len(msg))
	copy(m, msg)
	lb.Sent = append(lb.Sent, m)

	if lb.Responder != nil {
		if resp := lb.Responder(m); resp != nil {
			lb.pending = append(lb.pending, resp)
		}
	}

	return nil
}

// Respond queues a message for a later Poll(), independently of any Send().
// For unsolicited device messages.
func (lb *Loopback) Respond(msg []byte) {
	lb.pending = append(lb.pending, msg)
}

// Poll implements the Transport interface. The oldest queued response is
// returned whole; the byte count is ignored.
func (lb *Loopback) Poll(_ int) []byte {
	if len(lb.pending) == 0 {
		return nil
	}

	r := lb.pending[0]
	lb.pending = lb.pending[1:]
	return r
}

// Reset implements the Transport interface. Anything pending is discarded.
func (lb *Loopback) Reset() {
	lb.pending = nil
	lb.Resets++
}

// Close implements the Transport interface.
func (lb *Loopback) Close() error {
	lb.open = false
	return nil
}
