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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Whereas with flag.FlagSet you call Parse() with the array of strings as
// the only argument, with modalflag you first NewArgs() with the array of
// arguments and then Parse() with no arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("run", "dump", "viz")
//	p, err := md.Parse()
//
// The first sub-mode in the list is the default, selected when the first
// non-flag argument matches no listed sub-mode. After a successful Parse()
// the selected mode is available from Mode() (always in upper case) and
// mode-specific processing begins with NewMode():
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		device := md.AddString("device", "/dev/ttyUSB0", "tty device to open")
//		baud := md.AddInt("baud", 115200, "baud rate")
//		p, err := md.Parse()
//		...
//	}
//
// Flags registered before the mode switch apply to the program as a whole;
// flags registered after NewMode() apply to that mode only. Non-flag
// arguments that remain, a register description file for instance, are
// available through RemainingArgs() and GetArg().
package modalflag
