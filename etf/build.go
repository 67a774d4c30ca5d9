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

package etf

import (
	"math"
	"math/bits"

	"github.com/0xsoniclabs/etf/digits"
	"github.com/0xsoniclabs/etf/partition"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// MaxTableBits is the largest supported number of table bits.
const MaxTableBits = 30

// Config holds the parameters of a table build.
type Config struct {
	W        uint // random bits per draw
	N        uint // table bits; the table has 2^N intervals
	Shape    Shape
	Category Category

	X    []float64 // 2^N+1 strictly monotonic breakpoints
	Finf []float64 // infimum of the density per interval
	Fsup []float64 // supremum of the density per interval

	PDF Density
}

// New builds an ETF distribution from a partition of the density. For
// central and symmetric shapes the partition covers the half of the
// density on one side of the origin.
func New[U constraints.Unsigned](cfg Config) (*Distribution[U], error) {
	width := uint(bits.Len64(uint64(^U(0))))
	s := cfg.Shape.signBits()
	switch {
	case cfg.W > width || cfg.W > digits.MaxWidth:
		return nil, errors.Wrapf(ErrInvalidConfig, "width %d exceeds the %d-bit table type", cfg.W, width)
	case cfg.N < 1 || cfg.N > MaxTableBits:
		return nil, errors.Wrapf(ErrInvalidConfig, "table bits %d not in [1, %d]", cfg.N, MaxTableBits)
	case cfg.W <= cfg.N+s:
		return nil, errors.Wrapf(ErrInvalidConfig, "width %d leaves no mantissa bits for %d table bits", cfg.W, cfg.N)
	}
	size := 1 << cfg.N
	if len(cfg.X) != size+1 || len(cfg.Finf) != size || len(cfg.Fsup) != size {
		return nil, errors.Wrapf(ErrInvalidTableSize, "%d table bits require %d breakpoints and %d bounds, got %d, %d and %d",
			cfg.N, size+1, size, len(cfg.X), len(cfg.Finf), len(cfg.Fsup))
	}
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	d := &Distribution[U]{
		w:        cfg.W,
		n:        cfg.N,
		shape:    cfg.Shape,
		category: cfg.Category,
		pdf:      cfg.PDF,
		origin:   cfg.Shape.Origin(),
		x:        make([]float64, size+1),
		table:    make([]Datum[U], size),
	}
	for i, x := range cfg.X {
		d.x[i] = x - d.origin
	}

	m := cfg.W - cfg.N - s
	d.mantissaMask = U(1)<<m - 1
	d.indexShift = m
	d.indexMask = U(size - 1)

	// area of the upper rectangles
	area := 0.0
	for i := range size {
		area += cfg.Fsup[i] * math.Abs(d.x[i+1]-d.x[i])
	}
	full := math.Ldexp(1, int(m))
	if cfg.Category.kind == BoundedCategory {
		d.outerSwitch = U(full)
	} else {
		d.outerSwitch = U(math.Round(full * area / (area + cfg.Category.area)))
		if d.outerSwitch == 0 {
			return nil, errors.Wrapf(ErrInvalidConfig, "outer area %v leaves no room for the table area %v",
				cfg.Category.area, area)
		}
	}

	// fixed-point encoding of the table
	os := float64(d.outerSwitch)
	for i := range size {
		datum := &d.table[i]
		if ratio := cfg.Finf[i] / cfg.Fsup[i]; ratio >= 0.5 {
			// truncation keeps the fast path inside the lower rectangle
			datum.ScaledFratio = U(math.Floor(ratio * os))
		}
		datum.ScaledFsup = cfg.Fsup[i] / os
		if datum.ScaledFratio > 0 {
			datum.ScaledDx = (d.x[i+1] - d.x[i]) / float64(datum.ScaledFratio)
		}
	}
	return d, nil
}

// NewFromPartition builds an ETF distribution from the output of the
// partition builder. An empty partition is the builder's non-convergence
// result and is reported as partition.ErrNoConvergence.
func NewFromPartition[U constraints.Unsigned](w, n uint, shape Shape, category Category, data partition.Data, pdf Density) (*Distribution[U], error) {
	if data.Empty() {
		return nil, errors.Wrapf(partition.ErrNoConvergence, "empty partition")
	}
	return New[U](Config{
		W:        w,
		N:        n,
		Shape:    shape,
		Category: category,
		X:        data.X,
		Finf:     data.Finf,
		Fsup:     data.Fsup,
		PDF:      pdf,
	})
}

func checkConfig(cfg Config) error {
	if cfg.PDF == nil {
		return errors.Wrapf(ErrInvalidConfig, "density is nil")
	}
	c := cfg.Category
	switch c.kind {
	case BoundedCategory:
	case CompositeCategory, RejectionCompositeCategory:
		if c.outer == nil {
			return errors.Wrapf(ErrInvalidConfig, "%v category requires an outer distribution", c.kind)
		}
		if c.kind == RejectionCompositeCategory && c.outerPDF == nil {
			return errors.Wrapf(ErrInvalidConfig, "%v category requires an outer density", c.kind)
		}
		if !(c.area >= 0) || math.IsInf(c.area, 1) {
			return errors.Wrapf(ErrInvalidConfig, "invalid outer area %v", c.area)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown category %v", c.kind)
	}
	if cfg.Shape.kind < AsymmetricShape || cfg.Shape.kind > SymmetricShape {
		return errors.Wrapf(ErrInvalidConfig, "unknown shape %v", cfg.Shape.kind)
	}

	x := cfg.X
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return errors.Wrapf(ErrInvalidConfig, "breakpoint %d is not finite", i)
		}
	}
	ascending := x[len(x)-1] > x[0]
	for i := range len(x) - 1 {
		if ascending && !(x[i] < x[i+1]) || !ascending && !(x[i] > x[i+1]) {
			return errors.Wrapf(ErrInvalidConfig, "breakpoints are not strictly monotonic at %d", i)
		}
	}
	for i := range cfg.Fsup {
		inf, sup := cfg.Finf[i], cfg.Fsup[i]
		if !(sup > 0) || math.IsInf(sup, 1) {
			return errors.Wrapf(ErrInvalidConfig, "supremum %v of interval %d is not positive and finite", sup, i)
		}
		if !(inf >= 0) || inf > sup {
			return errors.Wrapf(ErrInvalidConfig, "infimum %v of interval %d is not in [0, %v]", inf, i, sup)
		}
	}
	return nil
}
