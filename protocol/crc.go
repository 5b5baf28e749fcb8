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

package protocol

// CRC is a parametric CRC calculator following the Rocksoft model: any CRC
// up to 32 bits wide can be described by its width, polynomial, initial
// register value, input/output reflection and final xor value.
//
// The bit-at-a-time algorithm is plenty fast enough for the short messages
// this project deals in.
type CRC struct {
	width  uint
	poly   uint32
	init   uint32
	refIn  bool
	refOut bool
	xorOut uint32

	reg uint32
}

// CRC16 returns a CRC calculator for the CRC-16/ARC parameters used by the
// IPCTRL protocol: poly 0x8005, init 0, reflected in and out, no final xor.
// The check value for the string "123456789" is 0xbb3d.
func CRC16() *CRC {
	return NewCRC(16, 0x8005, 0, true, true, 0)
}

// NewCRC is the preferred method of initialisation of the CRC type. Width
// must be between 8 and 32 bits.
func NewCRC(width uint, poly uint32, init uint32, refIn bool, refOut bool, xorOut uint32) *CRC {
	c := &CRC{
		width:  width,
		poly:   poly,
		init:   init,
		refIn:  refIn,
		refOut: refOut,
		xorOut: xorOut,
	}
	c.Reset()
	return c
}

// Reset the CRC register ready for a new message.
func (c *CRC) Reset() {
	c.reg = c.init
}

// Update the CRC register with a single byte.
func (c *CRC) Update(b byte) {
	topbit := uint32(1) << (c.width - 1)

	v := uint32(b)
	if c.refIn {
		v = reflect(v, 8)
	}

	c.reg ^= v << (c.width - 8)
	for i := 0; i < 8; i++ {
		if c.reg&topbit != 0 {
			c.reg = (c.reg << 1) ^ c.poly
		} else {
			c.reg <<= 1
		}
		c.reg &= c.mask()
	}
}

// Sum returns the CRC of all the bytes seen since the last Reset().
func (c *CRC) Sum() uint32 {
	if c.refOut {
		return c.xorOut ^ reflect(c.reg, c.width)
	}
	return c.xorOut ^ c.reg
}

// Checksum is the one-shot convenience: Reset(), Update() with every byte
// of the block, Sum().
func (c *CRC) Checksum(blk []byte) uint32 {
	c.Reset()
	for _, b := range blk {
		c.Update(b)
	}
	return c.Sum()
}

func (c *CRC) mask() uint32 {
	return (((uint32(1) << (c.width - 1)) - 1) << 1) | 1
}

// reflect returns the value with the bottom n bits reversed.
func reflect(v uint32, n uint) uint32 {
	t := v
	for i := uint(0); i < n; i++ {
		if t&1 == 1 {
			v |= 1 << (n - 1 - i)
		} else {
			v &^= 1 << (n - 1 - i)
		}
		t >>= 1
	}
	return v
}
