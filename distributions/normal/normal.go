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

// Package normal provides an ETF sampler of the standard normal
// distribution.
package normal

import (
	"math"

	"github.com/0xsoniclabs/etf/etf"
	"github.com/0xsoniclabs/etf/partition"
	"github.com/0xsoniclabs/etf/tail"
	"golang.org/x/exp/constraints"
)

// Tolerance is the relative dispersion of rectangle areas accepted by the
// partition builder.
const Tolerance = 0x1p-52 * 1e4

// DefaultTailPosition is used when no optimized tail position is known.
const DefaultTailPosition = 3.25

// Tail positions minimizing the expected number of random bits per sample
// for 7 and 8 table bits, indexed by the number of random bits beyond the
// minimum; wider tables use the last entry.
var (
	tailPositions7 = [...]float64{
		1.532095304, 1.859950459, 2.150455371, 2.413614185,
		2.655703474, 2.880953316, 3.092363645, 3.292145211,
	}
	tailPositions8 = [...]float64{
		1.533103263, 1.861331463, 2.152146391, 2.415553089,
		2.657829951, 2.883210552, 3.094702254, 3.294526271,
	}
)

// TailPosition returns the start of the tail region for a table of w
// random bits and n table bits.
func TailPosition(w, n uint) float64 {
	switch {
	case n == 7 && w >= 11:
		return tailPositions7[min(w-11, uint(len(tailPositions7)-1))]
	case n == 8 && w >= 12:
		return tailPositions8[min(w-12, uint(len(tailPositions8)-1))]
	}
	return DefaultTailPosition
}

// PDF is the non-normalized standard normal density.
func PDF(x float64) float64 {
	return math.Exp(-0.5 * x * x)
}

// DPDF is the derivative of PDF.
func DPDF(x float64) float64 {
	return -x * math.Exp(-0.5*x*x)
}

// New builds a standard normal sampler with w random bits per draw and 2^n
// table intervals covering [0, TailPosition(w, n)].
func New[U constraints.Unsigned](w, n uint) (*etf.Distribution[U], error) {
	xtail := TailPosition(w, n)
	outer, err := tail.NewNormalTail(w, xtail)
	if err != nil {
		return nil, err
	}
	seed, err := partition.TrapezoidalDefault(PDF, 0, xtail, 1<<n)
	if err != nil {
		return nil, err
	}
	data, err := partition.NewtonMonotonic(PDF, DPDF, seed, Tolerance)
	if err != nil {
		return nil, err
	}
	return etf.NewFromPartition[U](w, n, etf.Central(), etf.Composite(outer, outer.Area()), data, PDF)
}
