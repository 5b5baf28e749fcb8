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

	"github.com/jetsetilly/mmperiph/protocol"
	"github.com/jetsetilly/mmperiph/test"
)

const checkString = "123456789"

func TestCRC16CheckValue(t *testing.T) {
	// the standard check value for CRC-16/ARC
	c := protocol.CRC16()
	test.Equate(t, c.Checksum([]byte(checkString)), uint32(0xbb3d))
}

func TestCRCReset(t *testing.T) {
	c := protocol.CRC16()

	// a Checksum() includes a Reset() so repeated calls agree
	a := c.Checksum([]byte(checkString))
	b := c.Checksum([]byte(checkString))
	test.Equate(t, a, b)

	// incremental updates match the one-shot form
	c.Reset()
	for _, by := range []byte(checkString) {
		c.Update(by)
	}
	test.Equate(t, c.Sum(), uint32(0xbb3d))
}

func TestCRCOtherModels(t *testing.T) {
	// CRC-16/XMODEM: poly 0x1021, no reflection. check value 0x31c3
	x := protocol.NewCRC(16, 0x1021, 0, false, false, 0)
	test.Equate(t, x.Checksum([]byte(checkString)), uint32(0x31c3))

	// CRC-16/MODBUS: init 0xffff, reflected. check value 0x4b37
	m := protocol.NewCRC(16, 0x8005, 0xffff, true, true, 0)
	test.Equate(t, m.Checksum([]byte(checkString)), uint32(0x4b37))

	// CRC-32 as used by zip et al. check value 0xcbf43926
	z := protocol.NewCRC(32, 0x04c11db7, 0xffffffff, true, true, 0xffffffff)
	test.Equate(t, z.Checksum([]byte(checkString)), uint32(0xcbf43926))
}

func TestCRCEmptyBlock(t *testing.T) {
	c := protocol.CRC16()
	test.Equate(t, c.Checksum(nil), uint32(0))
}
