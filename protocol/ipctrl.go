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

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jetsetilly/mmperiph/curated"
)

// Error patterns returned by the Decode() function.
const (
	DecodeFailed = "ipctrl: undecodable response (%d bytes)"
	BadCRC       = "ipctrl: crc mismatch (%04x != %04x)"
)

// IPCTRL implements the read-register/write-register subset of the IPCTRL
// protocol with ASCII character encoding. A message is a command character,
// a 2 hex-char register address, an 8 hex-char value, a 4 hex-char CRC and
// a newline terminator:
//
//	write   a<addr><value><crc>\n
//	read    b<addr>00000000<crc>\n
//	reply   c<addr><value><crc>\n
//
// The CRC field is always present but only computed and verified when the
// codec is created with CRC support; otherwise it is transmitted as zero and
// ignored on receipt.
type IPCTRL struct {
	// crc engine. nil when the codec was created without CRC support
	crc *CRC
}

const (
	cmdWrite    = 'a'
	cmdRead     = 'b'
	cmdResponse = 'c'
	terminator  = '\n'

	// command char + 2 address chars + 8 value chars
	payloadLength = 11

	// the shortest response worth attempting to decode. the CRC field and
	// terminator may be absent if the device is being driven by something
	// minimal
	minResponseLength = payloadLength
)

var respMatch = regexp.MustCompile(`\A` + string(cmdResponse) + `([0-9a-fA-F]{2})([0-9a-fA-F]{8})(.*)`)

// NewIPCTRL is the preferred method of initialisation of the IPCTRL type.
func NewIPCTRL(withCRC bool) *IPCTRL {
	ip := &IPCTRL{}
	if withCRC {
		ip.crc = CRC16()
	}
	return ip
}

// EncodeRead implements the Codec interface.
func (ip *IPCTRL) EncodeRead(addr uint32) []byte {
	return ip.encode(cmdRead, addr, 0)
}

// EncodeWrite implements the Codec interface.
func (ip *IPCTRL) EncodeWrite(addr uint32, value uint32) []byte {
	return ip.encode(cmdWrite, addr, value)
}

func (ip *IPCTRL) encode(cmd byte, addr uint32, value uint32) []byte {
	msg := []byte(fmt.Sprintf("%c%02x%08x", cmd, addr&0xff, value))

	var crc uint32
	if ip.crc != nil {
		crc = ip.crc.Checksum(msg)
	}

	msg = append(msg, []byte(fmt.Sprintf("%04x", crc&0xffff))...)
	return append(msg, terminator)
}

// Decode implements the Codec interface. Only response messages are
// decodable; anything else is an error (curated, DecodeFailed pattern). A
// CRC failure, when the codec is checking CRCs, is also an error (curated,
// BadCRC pattern).
func (ip *IPCTRL) Decode(msg []byte) (uint32, uint32, error) {
	if len(msg) < minResponseLength {
		return 0, 0, curated.Errorf(DecodeFailed, len(msg))
	}

	match := respMatch.FindSubmatch(msg)
	if match == nil {
		return 0, 0, curated.Errorf(DecodeFailed, len(msg))
	}

	addr, err := strconv.ParseUint(string(match[1]), 16, 32)
	if err != nil {
		return 0, 0, curated.Errorf(DecodeFailed, len(msg))
	}

	value, err := strconv.ParseUint(string(match[2]), 16, 32)
	if err != nil {
		return 0, 0, curated.Errorf(DecodeFailed, len(msg))
	}

	if ip.crc != nil {
		if err := ip.checkCRC(msg[:payloadLength], match[3]); err != nil {
			return 0, 0, err
		}
	}

	return uint32(addr), uint32(value), nil
}

// checkCRC verifies the 4 hex-char CRC field in trailer against the CRC of
// the message payload.
func (ip *IPCTRL) checkCRC(payload []byte, trailer []byte) error {
	if len(trailer) < 4 {
		return curated.Errorf(DecodeFailed, len(payload)+len(trailer))
	}

	sent, err := strconv.ParseUint(string(trailer[:4]), 16, 32)
	if err != nil {
		return curated.Errorf(DecodeFailed, len(payload)+len(trailer))
	}

	calc := ip.crc.Checksum(payload)
	if uint32(sent) != calc {
		return curated.Errorf(BadCRC, sent, calc)
	}

	return nil
}

// ResponseLength implements the Codec interface.
func (ip *IPCTRL) ResponseLength() int {
	return minResponseLength
}
