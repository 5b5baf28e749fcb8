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

// Package test contains helper functions for the testing of the rest of the
// project. It does not contain any tests itself, beyond tests of the helper
// functions.
//
// The Equate() function compares a value against an expected value, with a
// small amount of leniency for literal number values. The ExpectedSuccess()
// and ExpectedFailure() functions check a bool or error result for the
// obvious condition.
package test
