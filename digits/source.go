// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

// Package digits turns raw uniform integer sources into exact W-bit random
// integers and W-bit random reals in [0,1).
package digits

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// ErrRange is returned when a source does not span a power-of-two range.
var ErrRange = errors.New("random source range is not a power of two")

// Source produces uniformly distributed unsigned integers in the inclusive
// range [Min(), Max()].
//
//go:generate mockgen -source source.go -destination source_mock.go -package digits
type Source interface {
	Uint64() uint64
	Min() uint64
	Max() uint64
}

// Digits returns the number of significant bits K of a source whose range
// is [0, 2^K-1], tolerating a minimum of 1 and a maximum of 2^K-2.
func Digits(src Source) uint {
	return uint(bits.Len64(src.Max()))
}

// CheckRange verifies that the source produces values in [0, 2^K-1]. As a
// pragmatic exception, sources that never produce 0 and/or 2^K-1 are
// accepted, i.e. the minimum may be 1 and the maximum may be 2^K-2.
func CheckRange(src Source) error {
	lo, hi := src.Min(), src.Max()
	if lo != 0 && lo != 1 {
		return errors.Wrapf(ErrRange, "minimum value %d is not 0 or 1", lo)
	}
	if hi <= lo {
		return errors.Wrapf(ErrRange, "empty range [%d, %d]", lo, hi)
	}
	if !isPowerOfTwoLessOne(hi) && !isPowerOfTwoLessOne(hi|1) {
		return errors.Wrapf(ErrRange, "maximum value %d is not 2^K-1 or 2^K-2", hi)
	}
	return nil
}

// isPowerOfTwoLessOne reports whether v can be written as 2^K-1, i.e. all
// lower bits are set.
func isPowerOfTwoLessOne(v uint64) bool {
	return v != 0 && v&(v+1) == 0
}
