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

//go:build linux
// +build linux

// Package serial implements the transport.Transport interface for posix tty
// devices - which in practice means a USB-UART adapter cabled to the device
// being controlled.
//
// The port is opened non-blocking and switched to raw mode: no echo, no line
// discipline, no special characters. Poll() returns whatever bytes have
// arrived since the last call, up to the requested count, without waiting
// for more.
package serial

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/jetsetilly/mmperiph/curated"
)

// Error patterns returned by the serial port functions.
const (
	UnsupportedBaud = "serial: unsupported baud rate (%d)"
	NotOpen         = "serial: %s: port is not open"
	ShortWrite      = "serial: %s: short write (%d of %d bytes)"
)

// Port is a transport.Transport over a posix tty device.
type Port struct {
	device string
	baud   uint32

	file *os.File

	// tty attributes as they were before we opened the port, restored on
	// Close()
	savedAttr unix.Termios
}

// NewPort is the preferred method of initialisation of the Port type. The
// device argument names a tty device file ("/dev/ttyUSB0" or similar). The
// port is not touched until Open() is called.
func NewPort(device string, baud int) (*Port, error) {
	b, ok := baudConstant(baud)
	if !ok {
		return nil, curated.Errorf(UnsupportedBaud, baud)
	}
	return &Port{
		device: device,
		baud:   b,
	}, nil
}

func baudConstant(baud int) (uint32, bool) {
	switch baud {
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	case 230400:
		return unix.B230400, true
	}
	return 0, false
}

// Open implements the transport.Transport interface.
func (p *Port) Open() error {
	f, err := os.OpenFile(p.device, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return curated.Errorf("serial: %v", err)
	}

	if err := termios.Tcgetattr(f.Fd(), &p.savedAttr); err != nil {
		f.Close()
		return curated.Errorf("serial: %v", err)
	}

	attr := p.savedAttr
	termios.Cfmakeraw(&attr)

	// a poll with no data waiting returns immediately
	attr.Cc[unix.VMIN] = 0
	attr.Cc[unix.VTIME] = 0

	attr.Cflag &^= unix.CBAUD
	attr.Cflag |= p.baud
	attr.Ispeed = p.baud
	attr.Ospeed = p.baud

	if err := termios.Tcsetattr(f.Fd(), termios.TCSANOW, &attr); err != nil {
		f.Close()
		return curated.Errorf("serial: %v", err)
	}

	p.file = f
	return nil
}

// Send implements the transport.Transport interface.
func (p *Port) Send(msg []byte) error {
	if p.file == nil {
		return curated.Errorf(NotOpen, p.device)
	}

	n, err := p.file.Write(msg)
	if err != nil {
		return curated.Errorf("serial: %v", err)
	}
	if n != len(msg) {
		return curated.Errorf(ShortWrite, p.device, n, len(msg))
	}

	return nil
}

// Poll implements the transport.Transport interface.
func (p *Port) Poll(n int) []byte {
	if p.file == nil || n <= 0 {
		return nil
	}

	buf := make([]byte, n)
	r, err := p.file.Read(buf)
	if err != nil || r == 0 {
		// EAGAIN et al mean nothing is waiting, which is not an event
		// worth reporting
		return nil
	}

	return buf[:r]
}

// Reset implements the transport.Transport interface. Unread input is
// discarded.
func (p *Port) Reset() {
	if p.file == nil {
		return
	}
	_ = termios.Tcflush(p.file.Fd(), termios.TCIFLUSH)
}

// Close implements the transport.Transport interface. The tty attributes
// the port was found with are restored.
func (p *Port) Close() error {
	if p.file == nil {
		return nil
	}

	_ = termios.Tcsetattr(p.file.Fd(), termios.TCSANOW, &p.savedAttr)

	err := p.file.Close()
	p.file = nil
	if err != nil {
		return curated.Errorf("serial: %v", err)
	}
	return nil
}
