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

package tail

import (
	"math"

	"github.com/0xsoniclabs/etf/digits"
	"github.com/cockroachdb/errors"
)

// NormalTail samples the tail x >= xt of the density exp(-x²/2) using
// Marsaglia's method.
type NormalTail struct {
	w  uint
	xt float64
}

// NewNormalTail creates a normal tail beyond the positive position xt
// drawing w-bit uniform reals.
func NewNormalTail(w uint, xt float64) (*NormalTail, error) {
	if w < 1 || w > digits.MaxWidth {
		return nil, errors.Newf("invalid width %d", w)
	}
	if !(xt > 0) || math.IsInf(xt, 1) {
		return nil, errors.Newf("tail position must be positive and finite, got %v", xt)
	}
	return &NormalTail{w: w, xt: xt}, nil
}

// Sample draws one value of the tail.
func (t *NormalTail) Sample(b *digits.Bits) float64 {
	for {
		dx := math.Log1p(-b.Float64(t.w)) / t.xt
		y := math.Log1p(-b.Float64(t.w))
		if -2*y >= dx*dx {
			return t.xt - dx
		}
	}
}

// Area is the area under exp(-x²/2) beyond the tail position.
func (t *NormalTail) Area() float64 {
	return math.Sqrt(math.Pi/2) * math.Erfc(t.xt/math.Sqrt2)
}

func (t *NormalTail) Min() float64 {
	return t.xt
}

func (t *NormalTail) Max() float64 {
	return math.Inf(1)
}
