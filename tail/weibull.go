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

// Package tail provides outer distributions for the unbounded regions of
// ETF distributions.
package tail

import (
	"math"

	"github.com/0xsoniclabs/etf/digits"
	"github.com/cockroachdb/errors"
)

// WeibullTail samples by inversion the tail beyond x0 of a Weibull
// distribution with shape a, scale b and location c. For b > 0 the samples
// lie in [x0, +inf), for b < 0 in (-inf, x0].
type WeibullTail struct {
	w     uint
	x0    float64
	b, c  float64
	alpha float64 // ((x0-c)/b)^a
	a     float64
	invA  float64
}

// NewWeibullTail creates a Weibull tail drawing w-bit uniform reals.
func NewWeibullTail(w uint, x0, a, b, c float64) (*WeibullTail, error) {
	if w < 1 || w > digits.MaxWidth {
		return nil, errors.Newf("invalid width %d", w)
	}
	if !(a > 0) || b == 0 || math.IsNaN(b) {
		return nil, errors.Newf("invalid Weibull parameters a=%v b=%v", a, b)
	}
	z := (x0 - c) / b
	if !(z >= 0) {
		return nil, errors.Newf("tail start %v precedes the Weibull location %v", x0, c)
	}
	return &WeibullTail{
		w:     w,
		x0:    x0,
		a:     a,
		b:     b,
		c:     c,
		alpha: math.Pow(z, a),
		invA:  1 / a,
	}, nil
}

// Sample draws one value of the tail.
func (t *WeibullTail) Sample(b *digits.Bits) float64 {
	return t.Quantile(b.Float64(t.w))
}

// CDF is the cumulative distribution function of the tail conditioned on
// lying beyond x0; for b < 0 it is measured from x0 towards -inf.
func (t *WeibullTail) CDF(x float64) float64 {
	z := (x - t.c) / t.b
	if !(z > 0) {
		return 0
	}
	p := -math.Expm1(t.alpha - math.Pow(z, t.a))
	return max(p, 0)
}

// Quantile is the inverse of CDF.
func (t *WeibullTail) Quantile(p float64) float64 {
	return t.c + t.b*math.Pow(t.alpha-math.Log1p(-p), t.invA)
}

func (t *WeibullTail) Min() float64 {
	if t.b > 0 {
		return t.x0
	}
	return math.Inf(-1)
}

func (t *WeibullTail) Max() float64 {
	if t.b > 0 {
		return math.Inf(1)
	}
	return t.x0
}

// WeibullPDF is the Weibull density with shape a, scale b and location c,
// scaled to a total area of w.
type WeibullPDF struct {
	a, b, c float64
	w       float64
	scale   float64 // w*|a/b|
}

// NewWeibullPDF creates a scaled Weibull density.
func NewWeibullPDF(a, b, c, w float64) WeibullPDF {
	return WeibullPDF{a: a, b: b, c: c, w: w, scale: w * math.Abs(a/b)}
}

// Eval evaluates the density at x.
func (p WeibullPDF) Eval(x float64) float64 {
	z := (x - p.c) / p.b
	if z < 0 {
		return 0
	}
	if z == 0 {
		switch {
		case p.a < 1:
			return math.Inf(1)
		case p.a > 1:
			return 0
		}
		return p.scale
	}
	return p.scale * math.Pow(z, p.a-1) * math.Exp(-math.Pow(z, p.a))
}

// TotalArea is the area under the density.
func (p WeibullPDF) TotalArea() float64 {
	return p.w
}

// TailArea is the area under the density beyond x0.
func (p WeibullPDF) TailArea(x0 float64) float64 {
	z := (x0 - p.c) / p.b
	if z <= 0 {
		return p.w
	}
	return p.w * math.Exp(-math.Pow(z, p.a))
}
