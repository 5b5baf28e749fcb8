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

package regfile_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/hardware/regmap"
	"github.com/jetsetilly/mmperiph/regfile"
	"github.com/jetsetilly/mmperiph/test"
)

const exampleFile = `# An example register description.
# Comment lines are allowed at any point in the file.
{
	"Control": {
		"addr": "0x10",
		"size": 8,
		"permissions": "rw",
		"map": [
			{"name": "EN", "offset": 0, "width": 1},
			{"name": "MODE", "offset": "0b1", "width": "2", "permissions": "r", "desc": "operating mode"}
		]
	},
	# Numeric fields can be numbers or strings in any base.
	"Threshold": {
		"addr": 17,
		"size": "16",
		"permissions": "w",
		"map": [
			{"name": "LOW", "offset": 0, "width": 8, "value": "0xff"},
			{"offset": 8, "width": 8}
		]
	}
}`

func TestParse(t *testing.T) {
	specs, err := regfile.Parse(strings.NewReader(exampleFile), "example")
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(specs), 2)

	// file order is preserved
	test.Equate(t, specs[0].Name, "Control")
	test.Equate(t, specs[1].Name, "Threshold")

	test.Equate(t, specs[0].Addr, uint32(0x10))
	test.Equate(t, specs[0].Size, 8)
	test.Equate(t, specs[0].Permissions, "rw")
	test.Equate(t, len(specs[0].Members), 2)

	test.Equate(t, specs[0].Members[1].Name, "MODE")
	test.Equate(t, specs[0].Members[1].Offset, 1)
	test.Equate(t, specs[0].Members[1].Width, 2)
	test.Equate(t, specs[0].Members[1].Permissions, "r")
	test.Equate(t, specs[0].Members[1].Description, "operating mode")

	test.Equate(t, specs[1].Addr, uint32(17))
	test.Equate(t, specs[1].Size, 16)
	test.Equate(t, specs[1].Members[0].Value, uint32(0xff))

	// omitted member fields take their defaults downstream
	test.Equate(t, specs[1].Members[1].Name, "")
	test.Equate(t, specs[1].Members[1].Width, 8)
}

func TestParseIntoMap(t *testing.T) {
	specs, err := regfile.Parse(strings.NewReader(exampleFile), "example")
	test.ExpectedSuccess(t, err)

	mp := regmap.NewMap(specs)
	test.Equate(t, mp.Len(), 2)

	reg, ok := mp.Register(0x11)
	test.ExpectedSuccess(t, ok)
	test.Equate(t, reg.Name(), "Threshold")

	// the unnamed member gets a generated name
	_, ok = reg.Member("R0008")
	test.ExpectedSuccess(t, ok)
}

func TestEmptyFile(t *testing.T) {
	specs, err := regfile.Parse(strings.NewReader("# nothing here\n{}"), "empty")
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(specs), 0)

	// an empty description is an empty but valid map
	mp := regmap.NewMap(specs)
	test.Equate(t, mp.Len(), 0)
}

func TestMalformed(t *testing.T) {
	// the error names the source and the line of the failure. the comment
	// and blank lines above the error still count
	src := "# comment\n\n{\n\t\"Control\": {\n\t\t\"addr\": }\n}"
	_, err := regfile.Parse(strings.NewReader(src), "broken")
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, regfile.ParseError))
	test.ExpectedSuccess(t, strings.Contains(err.Error(), "broken"))
	test.ExpectedSuccess(t, strings.Contains(err.Error(), "line 5"))

	// a top level that is not an object
	_, err = regfile.Parse(strings.NewReader("[1, 2]"), "array")
	test.ExpectedFailure(t, err)

	// a number in no known base
	_, err = regfile.Parse(strings.NewReader(`{"R": {"addr": "zz"}}`), "badnum")
	test.ExpectedFailure(t, err)
}
