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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a
// formatting pattern and placeholder values, like fmt.Errorf(), but the
// pattern doubles as the identity of the error. The Is() function checks an
// error against a pattern:
//
//	e := curated.Errorf(regmap.UnknownAddress, addr)
//
//	if curated.Is(e, regmap.UnknownAddress) {
//		...
//	}
//
// Packages in this project that return errors which a caller might reasonably
// want to test for declare the pattern as an exported const (as in the
// UnknownAddress example above).
//
// The Has() function is similar to Is() but checks for the pattern anywhere
// in the error chain, rather than just the outermost error. IsAny() answers
// the simpler question of whether the error is curated at all - which for our
// purposes means whether the error was anticipated by this project or has
// bubbled up from somewhere else.
//
// The Error() function for curated errors normalises the message chain,
// removing adjacent duplicate parts. This keeps deeply wrapped errors
// readable when they are finally printed or logged.
package curated
