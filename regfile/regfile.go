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

// Package regfile reads register descriptions from JSON files. The format is
// a single object keyed by register name:
//
//	# comment lines starting with # are allowed
//	{
//	    "Control": {
//	        "addr": "0x10",
//	        "size": 8,
//	        "permissions": "rw",
//	        "map": [
//	            {"name": "EN", "offset": 0, "width": 1},
//	            {"name": "STATUS", "offset": 1, "width": 2, "permissions": "r"}
//	        ]
//	    }
//	}
//
// Strictly speaking the comment lines make the file not-JSON. They are
// replaced with blank lines before parsing so that byte offsets in decode
// errors still map to the right line of the file.
//
// Numeric fields accept JSON numbers or strings in decimal, hex ("0x10") or
// binary ("0b101") form. Registers are returned in file order.
package regfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/hardware/registers"
)

// Error patterns returned by the regfile functions.
const (
	ReadError  = "regfile: %v"
	ParseError = "regfile: %s: line %d: %v"
	BadNumber  = "regfile: not a number (%s)"
)

// flexUint is a uint32 that unmarshals from a JSON number or from a string
// in any base strconv understands with base 0.
type flexUint uint32

func (f *flexUint) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}

	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return curated.Errorf(BadNumber, s)
	}

	*f = flexUint(v)
	return nil
}

type memberEntry struct {
	Name        string   `json:"name"`
	Offset      flexUint `json:"offset"`
	Width       flexUint `json:"width"`
	Permissions string   `json:"permissions"`
	Value       flexUint `json:"value"`
	Desc        string   `json:"desc"`
}

type registerEntry struct {
	Addr        flexUint      `json:"addr"`
	Size        flexUint      `json:"size"`
	Permissions string        `json:"permissions"`
	Map         []memberEntry `json:"map"`
}

// Read loads register descriptions from the named file.
func Read(filename string) ([]registers.Spec, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(ReadError, err)
	}
	defer f.Close()

	return Parse(f, filename)
}

// Parse reads register descriptions from an io.Reader. The label names the
// source in error messages, a filename typically.
//
// A source describing no registers at all is not an error; it yields an
// empty list and, downstream, an empty but valid map.
func Parse(r io.Reader, label string) ([]registers.Spec, error) {
	src, err := stripComments(r)
	if err != nil {
		return nil, curated.Errorf(ReadError, err)
	}

	// decode with the token API rather than into a map so that registers
	// keep their file order
	dec := json.NewDecoder(bytes.NewReader(src))

	tok, err := dec.Token()
	if err != nil {
		return nil, parseError(label, src, dec, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, curated.Errorf(ParseError, label, 1, "top level must be an object")
	}

	var specs []registers.Spec

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, parseError(label, src, dec, err)
		}
		name := tok.(string)

		var ent registerEntry
		if err := dec.Decode(&ent); err != nil {
			return nil, parseError(label, src, dec, err)
		}

		specs = append(specs, convert(name, ent))
	}

	return specs, nil
}

func convert(name string, ent registerEntry) registers.Spec {
	spec := registers.Spec{
		Name:        name,
		Addr:        uint32(ent.Addr),
		Size:        uint(ent.Size),
		Permissions: ent.Permissions,
	}

	for _, m := range ent.Map {
		spec.Members = append(spec.Members, registers.MemberSpec{
			Name:        m.Name,
			Offset:      uint(m.Offset),
			Width:       uint(m.Width),
			Permissions: m.Permissions,
			Value:       uint32(m.Value),
			Description: m.Desc,
		})
	}

	return spec
}

// stripComments replaces every line whose first non-blank character is #
// with an empty line. Line count and, near enough, byte offsets survive the
// substitution.
func stripComments(r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	lines := bytes.Split(src, []byte("\n"))
	for i := range lines {
		if bytes.HasPrefix(bytes.TrimSpace(lines[i]), []byte("#")) {
			lines[i] = nil
		}
	}

	return bytes.Join(lines, []byte("\n")), nil
}

// parseError wraps a json decoding error with the line it occurred on.
func parseError(label string, src []byte, dec *json.Decoder, err error) error {
	var offset int64
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	default:
		offset = dec.InputOffset()
	}

	if offset > int64(len(src)) {
		offset = int64(len(src))
	}
	line := 1 + bytes.Count(src[:offset], []byte("\n"))

	return curated.Errorf(ParseError, label, line, err)
}
