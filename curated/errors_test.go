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

package curated_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/test"
)

const testPattern = "test error: %s"

func TestIdentity(t *testing.T) {
	e := curated.Errorf(testPattern, "detail")

	test.ExpectedSuccess(t, curated.IsAny(e))
	test.ExpectedSuccess(t, curated.Is(e, testPattern))
	test.ExpectedFailure(t, curated.Is(e, "some other pattern"))

	// uncurated errors are never matched
	u := errors.New("uncurated")
	test.ExpectedFailure(t, curated.IsAny(u))
	test.ExpectedFailure(t, curated.Is(u, testPattern))

	// nil is not an error at all
	test.ExpectedFailure(t, curated.IsAny(nil))
	test.ExpectedFailure(t, curated.Is(nil, testPattern))
	test.ExpectedFailure(t, curated.Has(nil, testPattern))
}

func TestChain(t *testing.T) {
	e := curated.Errorf(testPattern, "detail")
	f := curated.Errorf("outer: %v", e)

	// Is() only matches the outermost pattern
	test.ExpectedFailure(t, curated.Is(f, testPattern))
	test.ExpectedSuccess(t, curated.Is(f, "outer: %v"))

	// Has() finds the pattern anywhere in the chain
	test.ExpectedSuccess(t, curated.Has(f, testPattern))
	test.ExpectedSuccess(t, curated.Has(f, "outer: %v"))
}

func TestNormalisation(t *testing.T) {
	// adjacent duplicate message parts are removed
	e := curated.Errorf("transport: %v", curated.Errorf("transport: %v", errors.New("no device")))
	test.Equate(t, e.Error(), "transport: no device")

	// non-duplicate parts are left alone
	f := curated.Errorf("outer: %v", curated.Errorf("inner: %v", errors.New("detail")))
	test.Equate(t, f.Error(), "outer: inner: detail")
}
