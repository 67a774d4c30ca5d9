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
	"slices"

	"github.com/0xsoniclabs/etf/digits"
	"golang.org/x/exp/constraints"
)

// Datum is the fixed-point encoding of one table interval.
type Datum[U constraints.Unsigned] struct {
	// ScaledFratio is floor(finf/fsup * OuterSwitch) if finf/fsup >= 0.5,
	// zero otherwise. Mantissas below it are accepted without evaluating
	// the density.
	ScaledFratio U
	// ScaledFsup is fsup/OuterSwitch.
	ScaledFsup float64
	// ScaledDx is the interval width divided by ScaledFratio.
	ScaledDx float64
}

// Distribution is an immutable ETF sampling table. It may be shared
// between goroutines as long as every goroutine draws from its own
// digits.Bits.
type Distribution[U constraints.Unsigned] struct {
	w, n     uint
	shape    Shape
	category Category
	pdf      Density
	origin   float64

	x     []float64 // breakpoints, relative to the origin
	table []Datum[U]

	outerSwitch  U
	mantissaMask U
	indexShift   uint
	indexMask    U
}

// Sample draws one variate. It consumes one W-bit random integer on the
// fast path and further random numbers in wedges and in the outer region.
func (d *Distribution[U]) Sample(b *digits.Bits) float64 {
	for {
		r := digits.Uint[U](b, d.w)
		u := r & d.mantissaMask
		i := int((r >> d.indexShift) & d.indexMask)
		s := 1.0
		if d.shape.kind != AsymmetricShape && r>>(d.w-1) == 0 {
			s = -1
		}
		datum := &d.table[i]

		// inside the lower rectangle
		if u < datum.ScaledFratio {
			return d.inner(d.x[i]+float64(u)*datum.ScaledDx, s)
		}

		// outer region
		if u >= d.outerSwitch {
			switch d.category.kind {
			case CompositeCategory:
				return d.outer(d.category.outer.Sample(b), s)
			case RejectionCompositeCategory:
				r2 := b.Float64(d.w)
				x := d.category.outer.Sample(b)
				if r2*d.category.outerPDF(x) <= d.pdf(x) {
					return d.outer(x, s)
				}
				continue
			}
		}

		// wedge between the lower and the upper rectangle
		v := b.Float64(d.w)
		x := d.x[i] + v*(d.x[i+1]-d.x[i])
		if float64(u)*datum.ScaledFsup < d.pdf(x+d.origin) {
			return d.inner(x, s)
		}
	}
}

// inner maps a tabulated position to the output domain.
func (d *Distribution[U]) inner(x, s float64) float64 {
	switch d.shape.kind {
	case CentralShape:
		return s * x
	case SymmetricShape:
		return d.origin + s*x
	}
	return x
}

// outer maps a sample of the outer distribution to the output domain.
func (d *Distribution[U]) outer(x, s float64) float64 {
	switch d.shape.kind {
	case CentralShape:
		return s * x
	case SymmetricShape:
		return d.origin + s*(x-d.origin)
	}
	return x
}

// Fill overwrites dst with samples.
func (d *Distribution[U]) Fill(b *digits.Bits, dst []float64) {
	for i := range dst {
		dst[i] = d.Sample(b)
	}
}

// Min returns the lower bound of the support.
func (d *Distribution[U]) Min() float64 {
	lo, _ := d.bounds()
	return lo
}

// Max returns the upper bound of the support.
func (d *Distribution[U]) Max() float64 {
	_, hi := d.bounds()
	return hi
}

func (d *Distribution[U]) bounds() (float64, float64) {
	// candidate bounds relative to the origin
	c := []float64{d.x[0], d.x[len(d.x)-1]}
	if d.category.kind != BoundedCategory {
		c = append(c, d.category.outer.Min()-d.origin, d.category.outer.Max()-d.origin)
	}
	if d.shape.kind == AsymmetricShape {
		return slices.Min(c), slices.Max(c)
	}
	m := 0.0
	for _, v := range c {
		m = max(m, math.Abs(v))
	}
	return d.origin - m, d.origin + m
}

// W returns the number of random bits per draw.
func (d *Distribution[U]) W() uint {
	return d.w
}

// N returns the number of table bits.
func (d *Distribution[U]) N() uint {
	return d.n
}

func (d *Distribution[U]) Shape() Shape {
	return d.shape
}

func (d *Distribution[U]) Category() Category {
	return d.category
}

// X returns a copy of the breakpoints in the output domain.
func (d *Distribution[U]) X() []float64 {
	x := slices.Clone(d.x)
	for i := range x {
		x[i] += d.origin
	}
	return x
}

// Intervals returns the number of table intervals.
func (d *Distribution[U]) Intervals() int {
	return len(d.table)
}

// Datum returns the encoding of interval i.
func (d *Distribution[U]) Datum(i int) Datum[U] {
	return d.table[i]
}

// OuterSwitch returns the mantissa threshold above which draws are routed
// to the outer distribution.
func (d *Distribution[U]) OuterSwitch() U {
	return d.outerSwitch
}

// MantissaBits returns the number of mantissa bits, W-N for asymmetric
// and W-N-1 for central and symmetric shapes.
func (d *Distribution[U]) MantissaBits() uint {
	return d.indexShift
}
