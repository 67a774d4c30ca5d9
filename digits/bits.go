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

package digits

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// MaxWidth is the widest random integer that can be extracted.
const MaxWidth = 64

// Float64Digits is the number of significant bits of a float64.
const Float64Digits = 53

// Bits extracts exact-width random integers and reals from a source. The
// source range is checked once at construction, so extraction never fails.
// A Bits value owns its source and must not be shared between goroutines.
type Bits struct {
	src Source
	k   uint // significant bits per raw draw
}

// NewBits wraps a source after checking its range.
func NewBits(src Source) (*Bits, error) {
	if src == nil {
		return nil, errors.New("random source is nil")
	}
	if err := CheckRange(src); err != nil {
		return nil, err
	}
	return &Bits{src: src, k: Digits(src)}, nil
}

// MustNewBits is like NewBits but panics on a misconfigured source.
func MustNewBits(src Source) *Bits {
	b, err := NewBits(src)
	if err != nil {
		panic(err)
	}
	return b
}

// Source returns the wrapped source.
func (b *Bits) Source() Source {
	return b.src
}

// Digits returns the number of significant bits per raw draw.
func (b *Bits) Digits() uint {
	return b.k
}

// Uint64 returns a random integer equidistributed in [0, 2^w-1] for w in
// [1, 64]. As many raw draws are made as needed; each draw contributes its
// most significant bits first, and surplus low bits of the last draw are
// dropped.
func (b *Bits) Uint64(w uint) uint64 {
	var u uint64
	for rem := w; rem > 0; {
		r := b.src.Uint64()
		if b.k >= rem {
			return u<<rem | r>>(b.k-rem)
		}
		u = u<<b.k | r
		rem -= b.k
	}
	return u
}

// Uint is the generic form of Uint64 for narrower result types. The caller
// must make sure that w does not exceed the width of U.
func Uint[U constraints.Unsigned](b *Bits, w uint) U {
	return U(b.Uint64(w))
}

// Float64 returns a random real in [0,1) with min(w, 53) bits of
// precision. The value is an integer scaled by an exact power of two and is
// therefore never equal to 1.
func (b *Bits) Float64(w uint) float64 {
	m := min(w, Float64Digits)
	return math.Ldexp(float64(b.Uint64(m)), -int(m))
}
