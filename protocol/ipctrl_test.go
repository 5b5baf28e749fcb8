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

package protocol_test

import (
	"testing"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/protocol"
	"github.com/jetsetilly/mmperiph/test"
)

func TestEncodeWrite(t *testing.T) {
	ip := protocol.NewIPCTRL(false)

	msg := ip.EncodeWrite(0x10, 0xdeadbeef)
	test.Equate(t, string(msg), "a10deadbeef0000\n")

	// addresses are eight bits on the wire
	msg = ip.EncodeWrite(0x110, 0)
	test.Equate(t, string(msg), "a10000000000000\n")
}

func TestEncodeRead(t *testing.T) {
	ip := protocol.NewIPCTRL(false)

	msg := ip.EncodeRead(0x2a)
	test.Equate(t, string(msg), "b2a000000000000\n")
}

func TestDecode(t *testing.T) {
	ip := protocol.NewIPCTRL(false)

	addr, value, err := ip.Decode([]byte("c10deadbeef0000\n"))
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, uint32(0x10))
	test.Equate(t, value, uint32(0xdeadbeef))

	// without CRC support the CRC field is ignored entirely
	addr, value, err = ip.Decode([]byte("c2a00000001ffff\n"))
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, uint32(0x2a))
	test.Equate(t, value, uint32(1))

	// a response with no trailer at all is still decodable
	_, _, err = ip.Decode([]byte("c2a00000001"))
	test.ExpectedSuccess(t, err)
}

func TestDecodeFailures(t *testing.T) {
	ip := protocol.NewIPCTRL(false)

	// too short
	_, _, err := ip.Decode([]byte("c10"))
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, protocol.DecodeFailed))

	// wrong command character
	_, _, err = ip.Decode([]byte("a10deadbeef0000\n"))
	test.ExpectedFailure(t, err)

	// non-hex characters in the value field
	_, _, err = ip.Decode([]byte("c10nothexical00\n"))
	test.ExpectedFailure(t, err)

	// empty message
	_, _, err = ip.Decode(nil)
	test.ExpectedFailure(t, err)
}

func TestCRCRoundTrip(t *testing.T) {
	ip := protocol.NewIPCTRL(true)

	// an encoded message carries a real CRC. rewrite the command char to
	// make it a response and it should decode cleanly: encode and decode
	// agree on the CRC
	msg := ip.EncodeWrite(0x10, 0x00000005)
	msg[0] = 'c'

	// recompute the CRC over the altered payload
	crc := protocol.CRC16().Checksum(msg[:11])
	copy(msg[11:15], []byte(hex4(crc)))

	addr, value, err := ip.Decode(msg)
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, uint32(0x10))
	test.Equate(t, value, uint32(5))

	// corrupt the value field and the CRC no longer matches
	msg[5] ^= 0x01
	_, _, err = ip.Decode(msg)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, protocol.BadCRC))

	// with CRC support, a response missing the CRC field is an error
	_, _, err = ip.Decode([]byte("c1000000005"))
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, protocol.DecodeFailed))
}

func TestResponseLength(t *testing.T) {
	ip := protocol.NewIPCTRL(false)
	test.Equate(t, ip.ResponseLength(), 11)
}

func hex4(v uint32) string {
	const digits = "0123456789abcdef"
	return string([]byte{
		digits[(v>>12)&0xf],
		digits[(v>>8)&0xf],
		digits[(v>>4)&0xf],
		digits[v&0xf],
	})
}
