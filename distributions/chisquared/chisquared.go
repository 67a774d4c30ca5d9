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

// Package chisquared provides ETF samplers of the chi-squared distribution.
package chisquared

import (
	"math"

	"github.com/0xsoniclabs/etf/digits"
	"github.com/0xsoniclabs/etf/etf"
	"github.com/0xsoniclabs/etf/partition"
	"github.com/0xsoniclabs/etf/tail"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// Tolerance is the relative dispersion of rectangle areas accepted by the
// partition builder.
const Tolerance = 0x1p-52 * 1e4

// DefaultLowDofLower is the default lower table bound for k < 2.
const DefaultLowDofLower = 1e-4

// DefaultTailPosition returns a tail position about four standard deviations
// beyond the mean of the distribution with k degrees of freedom, and at least
// 10.
func DefaultTailPosition(k float64) float64 {
	if k < 2 {
		return 10
	}
	return max(10, math.Ceil(k+4*math.Sqrt(2*k)))
}

// relaxations are tried in turn until the partition converges.
var relaxations = []float64{1, 0.5, 0.25}

// PDF returns the non-normalized chi-squared density x^(k/2-1)*exp(-x/2)
// with k degrees of freedom.
func PDF(k float64) etf.Density {
	m := 0.5*k - 1
	return func(x float64) float64 {
		if x == 0 {
			return math.Pow(0, m)
		}
		return math.Exp(math.Log(x)*m - 0.5*x)
	}
}

// DPDF returns the derivative of PDF(k).
func DPDF(k float64) etf.Density {
	m := 0.5*k - 1
	return func(x float64) float64 {
		if x == 0 {
			return 0
		}
		return (m - 0.5*x) * math.Exp(math.Log(x)*(m-1)-0.5*x)
	}
}

// New builds a chi-squared sampler for k >= 2 degrees of freedom. The table
// covers [0, xtail]; beyond xtail, samples of an exponential envelope
// touching the density at xtail are accepted by rejection. The tail
// position must lie beyond the mode k-2.
func New[U constraints.Unsigned](w, n uint, k, xtail float64) (*etf.Distribution[U], error) {
	if !(k >= 2) || math.IsInf(k, 1) {
		return nil, errors.Newf("degrees of freedom must be at least 2, got %v", k)
	}
	m := 0.5*k - 1
	if !(xtail > 2*m) {
		return nil, errors.Newf("tail position %v must exceed the mode %v", xtail, 2*m)
	}

	b := xtail / (0.5*xtail - m)
	outerPDF := tail.NewWeibullPDF(1, b, 0, b*math.Pow(xtail, m)*math.Exp(-m))
	outer, err := tail.NewWeibullTail(w, xtail, 1, b, 0)
	if err != nil {
		return nil, err
	}

	var extrema []float64
	if m > 0 {
		extrema = append(extrema, 2*m)
	}
	data, err := equalAreas(PDF(k), DPDF(k), 0, xtail, 1<<n, extrema)
	if err != nil {
		return nil, err
	}
	category := etf.RejectionComposite(outer, outerPDF.Eval, outerPDF.TailArea(xtail))
	return etf.NewFromPartition[U](w, n, etf.Asymmetric(), category, data, PDF(k))
}

// NewLowDof builds a chi-squared sampler for 0 < k < 2 degrees of freedom,
// whose density diverges at zero. The table covers [x0, xtail]; below x0 and
// beyond xtail samples of the envelope described by LowDofOuter are accepted
// by rejection.
func NewLowDof[U constraints.Unsigned](w, n uint, k, x0, xtail float64) (*etf.Distribution[U], error) {
	if !(k > 0 && k < 2) {
		return nil, errors.Newf("degrees of freedom must be in (0, 2), got %v", k)
	}
	if !(x0 > 0 && x0 < xtail) || math.IsInf(xtail, 1) {
		return nil, errors.Newf("invalid table interval [%v, %v]", x0, xtail)
	}
	outer, err := NewLowDofOuter(w, k, x0, xtail)
	if err != nil {
		return nil, err
	}
	data, err := equalAreas(PDF(k), DPDF(k), x0, xtail, 1<<n, nil)
	if err != nil {
		return nil, err
	}
	category := etf.RejectionComposite(outer, outer.PDF, outer.Area())
	return etf.NewFromPartition[U](w, n, etf.Asymmetric(), category, data, PDF(k))
}

// equalAreas partitions [x0, x1], retrying with stronger under-relaxation
// if the Newton iteration fails to converge.
func equalAreas(f, df etf.Density, x0, x1 float64, intervals int, extrema []float64) (partition.Data, error) {
	seed, err := partition.TrapezoidalDefault(partition.Func(f), x0, x1, intervals)
	if err != nil {
		return partition.Data{}, err
	}
	for _, relax := range relaxations {
		data, err := partition.Newton(partition.Func(f), partition.Func(df), seed, extrema, Tolerance,
			partition.WithRelax(relax), partition.WithMaxIterations(int(100/relax)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, partition.ErrNoConvergence) || relax == relaxations[len(relaxations)-1] {
			return partition.Data{}, err
		}
	}
	return partition.Data{}, partition.ErrNoConvergence
}

// LowDofOuter is the envelope of the chi-squared density with k < 2 outside
// [x0, xtail]: the power law x^(k/2-1) on [0, x0) mixed with the
// exponential xtail^(k/2-1)*exp(-x/2) beyond xtail.
type LowDofOuter struct {
	w         uint
	x0        float64
	power     float64 // 2/k
	m         float64 // k/2-1
	area      float64
	leftShare float64
	xSwitch   float64
	right     *tail.WeibullTail
	rightPDF  tail.WeibullPDF
}

// NewLowDofOuter creates the envelope for k degrees of freedom.
func NewLowDofOuter(w uint, k, x0, xtail float64) (*LowDofOuter, error) {
	right, err := tail.NewWeibullTail(w, xtail, 1, 2, 0)
	if err != nil {
		return nil, err
	}
	m := 0.5*k - 1
	leftArea := 2 / k * math.Pow(x0, 0.5*k)
	rightArea := 2 * math.Pow(xtail, m) * math.Exp(-0.5*xtail)
	return &LowDofOuter{
		w:         w,
		x0:        x0,
		power:     2 / k,
		m:         m,
		area:      leftArea + rightArea,
		leftShare: leftArea / (leftArea + rightArea),
		xSwitch:   0.5 * (x0 + xtail),
		right:     right,
		rightPDF:  tail.NewWeibullPDF(1, 2, 0, 2*math.Pow(xtail, m)),
	}, nil
}

// Sample draws one value of the envelope outside [x0, xtail].
func (o *LowDofOuter) Sample(b *digits.Bits) float64 {
	if b.Float64(o.w) < o.leftShare {
		return o.x0 * math.Pow(b.Float64(o.w), o.power)
	}
	return o.right.Sample(b)
}

// PDF evaluates the envelope density.
func (o *LowDofOuter) PDF(x float64) float64 {
	if x < o.xSwitch {
		return math.Pow(x, o.m)
	}
	return o.rightPDF.Eval(x)
}

// Area is the total area under the envelope density.
func (o *LowDofOuter) Area() float64 {
	return o.area
}

func (o *LowDofOuter) Min() float64 {
	return 0
}

func (o *LowDofOuter) Max() float64 {
	return math.Inf(1)
}
