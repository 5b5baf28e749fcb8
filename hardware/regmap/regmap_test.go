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

package regmap_test

import (
	"testing"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/hardware/regmap"
	"github.com/jetsetilly/mmperiph/hardware/registers"
	"github.com/jetsetilly/mmperiph/test"
)

func testSpecs() []registers.Spec {
	return []registers.Spec{
		{
			Name: "Control", Addr: 0x10, Size: 8, Permissions: "rw",
			Members: []registers.MemberSpec{
				{Name: "EN", Offset: 0, Width: 1},
				{Name: "STATUS", Offset: 1, Width: 2, Permissions: "r"},
			},
		},
		{
			Name: "Threshold", Addr: 0x11, Size: 16, Permissions: "rw",
			Members: []registers.MemberSpec{
				{Name: "LOW", Offset: 0, Width: 8},
				{Name: "HIGH", Offset: 8, Width: 8},
			},
		},
	}
}

func TestMapBuild(t *testing.T) {
	mp := regmap.NewMap(testSpecs())

	test.Equate(t, mp.Len(), 2)
	test.Equate(t, mp.Width(), 16)

	a := mp.Addresses()
	test.Equate(t, len(a), 2)
	test.Equate(t, a[0], uint32(0x10))
	test.Equate(t, a[1], uint32(0x11))

	reg, ok := mp.Register(0x10)
	test.ExpectedSuccess(t, ok)
	test.Equate(t, reg.Name(), "Control")

	_, ok = mp.Register(0x99)
	test.ExpectedFailure(t, ok)
}

func TestNameLookup(t *testing.T) {
	mp := regmap.NewMap(testSpecs())

	addr, ok := mp.AddrByName("Threshold")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, addr, uint32(0x11))

	_, ok = mp.AddrByName("NoSuchRegister")
	test.ExpectedFailure(t, ok)
}

func TestDuplicateAddressLastWins(t *testing.T) {
	specs := testSpecs()
	specs = append(specs, registers.Spec{
		Name: "Usurper", Addr: 0x10, Size: 8, Permissions: "rw",
		Members: []registers.MemberSpec{
			{Name: "X", Offset: 0, Width: 8},
		},
	})

	mp := regmap.NewMap(specs)
	test.Equate(t, mp.Len(), 2)

	reg, ok := mp.Register(0x10)
	test.ExpectedSuccess(t, ok)
	test.Equate(t, reg.Name(), "Usurper")
}

func TestChangedRegisters(t *testing.T) {
	mp := regmap.NewMap(testSpecs())

	changed := mp.ChangedRegisters(false)
	test.Equate(t, len(changed), 0)

	reg, _ := mp.Register(0x10)
	test.ExpectedSuccess(t, reg.RequestChange("EN", 1))

	changed = mp.ChangedRegisters(false)
	test.Equate(t, len(changed), 1)
	test.Equate(t, changed[0x10], 1)

	// without autoClear the change is still pending
	test.ExpectedSuccess(t, reg.HasPendingChange())

	// with autoClear it is not
	changed = mp.ChangedRegisters(true)
	test.Equate(t, len(changed), 1)
	test.ExpectedFailure(t, reg.HasPendingChange())
}

func TestApplyDeviceValue(t *testing.T) {
	mp := regmap.NewMap(testSpecs())

	test.ExpectedSuccess(t, mp.ApplyDeviceValue(0x10, 0b101))

	f, err := mp.Fields(0x10)
	test.ExpectedSuccess(t, err)
	test.Equate(t, f["EN"], 1)
	test.Equate(t, f["STATUS"], 2)

	// unknown addresses are reported, not fatal
	err = mp.ApplyDeviceValue(0x99, 1)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, regmap.UnknownAddress))

	_, err = mp.Fields(0x99)
	test.ExpectedFailure(t, err)
}

func TestCommitAndClear(t *testing.T) {
	mp := regmap.NewMap(testSpecs())

	regA, _ := mp.Register(0x10)
	regB, _ := mp.Register(0x11)
	test.ExpectedSuccess(t, regA.RequestChange("EN", 1))
	test.ExpectedSuccess(t, regB.RequestChange("HIGH", 0xab))

	mp.Commit()
	test.ExpectedFailure(t, regA.HasPendingChange())
	test.Equate(t, regA.Value(), 1)
	test.Equate(t, regB.Value(), uint32(0xab00))

	test.ExpectedSuccess(t, regA.RequestChange("EN", 0))
	mp.ClearChanges()
	test.ExpectedFailure(t, regA.HasPendingChange())
	test.Equate(t, regA.Value(), 1)
}
