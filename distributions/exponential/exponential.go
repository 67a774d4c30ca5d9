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

// Package exponential provides ETF samplers of the exponential distribution
// and of the exponential distribution truncated to a bounded interval.
package exponential

import (
	"math"

	"github.com/0xsoniclabs/etf/etf"
	"github.com/0xsoniclabs/etf/partition"
	"github.com/0xsoniclabs/etf/tail"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

const (
	Tolerance           = 0x1p-52 * 1e4 // relative dispersion of rectangle areas
	DefaultTailPosition = 7.0           // tail area exp(-7) of the unit rate density

	fitTolerance  = 1e-12 // absolute error of the fitted unit mean
	fitMaxSteps   = 200
	fitInitLambda = 1.0
)

// PDF is the non-normalized density of the exponential distribution with
// unit rate.
func PDF(x float64) float64 {
	return math.Exp(-x)
}

// DPDF is the derivative of PDF.
func DPDF(x float64) float64 {
	return -math.Exp(-x)
}

// New builds a sampler of the exponential distribution with unit rate. The
// table covers [0, xtail]; the memoryless tail beyond is sampled exactly.
func New[U constraints.Unsigned](w, n uint, xtail float64) (*etf.Distribution[U], error) {
	if !(xtail > 0) || math.IsInf(xtail, 1) {
		return nil, errors.Newf("tail position must be positive and finite, got %v", xtail)
	}
	outer, err := tail.NewWeibullTail(w, xtail, 1, 1, 0)
	if err != nil {
		return nil, err
	}
	data, err := equalAreas(PDF, DPDF, xtail, 1<<n)
	if err != nil {
		return nil, err
	}
	return etf.NewFromPartition[U](w, n, etf.Asymmetric(), etf.Composite(outer, math.Exp(-xtail)), data, PDF)
}

// NewTruncated builds a sampler of the exponential distribution with rate
// lambda truncated to [0, bound].
func NewTruncated[U constraints.Unsigned](w, n uint, lambda, bound float64) (*etf.Distribution[U], error) {
	if !(lambda > 0) || math.IsInf(lambda, 1) {
		return nil, errors.Newf("rate must be positive and finite, got %v", lambda)
	}
	if !(bound > 0) || math.IsInf(bound, 1) {
		return nil, errors.Newf("bound must be positive and finite, got %v", bound)
	}
	f := func(x float64) float64 { return math.Exp(-lambda * x) }
	df := func(x float64) float64 { return -lambda * math.Exp(-lambda*x) }
	data, err := equalAreas(f, df, bound, 1<<n)
	if err != nil {
		return nil, err
	}
	return etf.NewFromPartition[U](w, n, etf.Asymmetric(), etf.Bounded(), data, f)
}

func equalAreas(f, df partition.Func, x1 float64, intervals int) (partition.Data, error) {
	seed, err := partition.TrapezoidalDefault(f, 0, x1, intervals)
	if err != nil {
		return partition.Data{}, err
	}
	return partition.NewtonMonotonic(f, df, seed, Tolerance)
}

// CDF is the cumulative distribution function of the exponential
// distribution with rate lambda truncated to [0, bound].
func CDF(lambda, bound, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= bound {
		return 1
	}
	return math.Expm1(-lambda*x) / math.Expm1(-lambda*bound)
}

// Quantile is the inverse cumulative distribution function.
func Quantile(lambda, bound, p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return bound
	}
	return -math.Log1p(p*math.Expm1(-lambda*bound)) / lambda
}

// FitLambda estimates the rate of an exponential distribution truncated to
// [0, bound] from a sample mean. The maximum likelihood equation
// mean/bound = 1/l - 1/(e^l - 1) has no closed form and is solved for l by
// Newton's method; the rate is l/bound. A mean above bound/2 gives a
// negative rate.
func FitLambda(mean, bound float64) (float64, error) {
	if !(bound > 0) || math.IsInf(bound, 1) {
		return 0, errors.Newf("bound must be positive and finite, got %v", bound)
	}
	m := mean / bound
	if !(m > 0 && m < 1) {
		return 0, errors.Newf("mean %v is outside of (0, %v)", mean, bound)
	}
	l := fitInitLambda
	for range fitMaxSteps {
		g, dg := unitMean(l)
		if math.Abs(g-m) < fitTolerance {
			return l / bound, nil
		}
		l -= (g - m) / dg
		if math.IsNaN(l) {
			break
		}
	}
	return 0, errors.Newf("rate fit for mean %v did not converge after %d steps", mean, fitMaxSteps)
}

// unitMean returns the mean of the exponential distribution with rate l
// truncated to [0, 1] and its derivative in l.
func unitMean(l float64) (float64, float64) {
	switch {
	case math.Abs(l) < 1e-3:
		return 0.5 - l/12 + l*l*l/720, l*l/240 - 1.0/12
	case l > 700:
		return 1 / l, -1 / (l * l)
	}
	e := math.Expm1(l)
	return 1/l - 1/e, (e+1)/(e*e) - 1/(l*l)
}
