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

package modalflag_test

import (
	"os"
	"testing"

	"github.com/jetsetilly/mmperiph/modalflag"
	"github.com/jetsetilly/mmperiph/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs([]string{})

	p, err := md.Parse()
	test.Equate(t, p == modalflag.ParseContinue, true)
	test.ExpectedSuccess(t, err)
	test.Equate(t, md.Mode(), "")
	test.Equate(t, md.Path(), "")
}

func TestFlags(t *testing.T) {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs([]string{"-log", "registers.json"})
	logFlag := md.AddBool("log", false, "echo log to stderr")

	test.Equate(t, *logFlag, false)

	p, err := md.Parse()
	test.Equate(t, p == modalflag.ParseContinue, true)
	test.ExpectedSuccess(t, err)
	test.Equate(t, *logFlag, true)

	test.Equate(t, len(md.RemainingArgs()), 1)
	test.Equate(t, md.GetArg(0), "registers.json")
}

func TestSubModes(t *testing.T) {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs([]string{"viz", "registers.json"})
	md.AddSubModes("run", "dump", "viz")

	p, err := md.Parse()
	test.Equate(t, p == modalflag.ParseContinue, true)
	test.ExpectedSuccess(t, err)

	// mode comparison is case insensitive and reported upper case
	test.Equate(t, md.Mode(), "VIZ")
	test.Equate(t, md.Path(), "VIZ")
}

func TestDefaultSubMode(t *testing.T) {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs([]string{"registers.json"})
	md.AddSubModes("run", "dump", "viz")

	p, err := md.Parse()
	test.Equate(t, p == modalflag.ParseContinue, true)
	test.ExpectedSuccess(t, err)

	// no mode named so the first listed sub-mode is selected and the
	// argument is left for the mode to consume
	test.Equate(t, md.Mode(), "RUN")

	md.NewMode()
	p, err = md.Parse()
	test.Equate(t, p == modalflag.ParseContinue, true)
	test.ExpectedSuccess(t, err)
	test.Equate(t, md.GetArg(0), "registers.json")
}

func TestModeSpecificFlags(t *testing.T) {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs([]string{"run", "-baud", "9600", "registers.json"})
	md.AddSubModes("run", "dump", "viz")

	p, err := md.Parse()
	test.Equate(t, p == modalflag.ParseContinue, true)
	test.ExpectedSuccess(t, err)
	test.Equate(t, md.Mode(), "RUN")

	md.NewMode()
	baud := md.AddInt("baud", 115200, "baud rate")

	p, err = md.Parse()
	test.Equate(t, p == modalflag.ParseContinue, true)
	test.ExpectedSuccess(t, err)
	test.Equate(t, *baud, 9600)
	test.Equate(t, md.GetArg(0), "registers.json")
	test.Equate(t, md.Path(), "RUN")
}
