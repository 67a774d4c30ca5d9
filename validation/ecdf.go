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

package validation

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"gonum.org/v1/gonum/stat"
)

// NumECDFPoints is the number of points of a compressed empirical
// cumulative distribution function.
const NumECDFPoints = 300

// ECDF computes the empirical cumulative distribution function of the
// samples as a piecewise linear function (x_i, p_i). The function is
// compressed with the Visvalingam-Whyatt algorithm to at most
// NumECDFPoints points.
func ECDF(samples []float64) ([][2]float64, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples")
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	if math.IsNaN(sorted[0]) || math.IsNaN(sorted[len(sorted)-1]) {
		return nil, errors.New("samples contain NaN")
	}

	n := float64(len(sorted))
	ls := orb.LineString{{sorted[0], 0}}
	for i, x := range sorted {
		ls = append(ls, orb.Point{x, float64(i+1) / n})
	}
	// reduce the full ecdf with the Visvalingam-Whyatt algorithm, see
	// https://en.wikipedia.org/wiki/Visvalingam-Whyatt_algorithm
	compressed := simplify.VisvalingamKeep(NumECDFPoints).Simplify(ls).(orb.LineString)
	ecdf := make([][2]float64, len(compressed))
	for i := range compressed {
		ecdf[i] = [2]float64(compressed[i])
	}
	if err := CheckECDF(ecdf); err != nil {
		return nil, errors.Wrap(err, "cannot create valid ECDF from samples")
	}
	return ecdf, nil
}

// CheckECDF checks whether a piecewise linear function is a valid
// cumulative distribution function: it must start at probability 0, end at
// probability 1 and be monotonically increasing.
func CheckECDF(f [][2]float64) error {
	if len(f) < 2 {
		return errors.New("ECDF must have at least start and end point")
	}
	if f[0][1] != 0 {
		return errors.Newf("ECDF must start with probability 0, but starts at (%v,%v)", f[0][0], f[0][1])
	}
	last := len(f) - 1
	if f[last][1] != 1 {
		return errors.Newf("ECDF must end with probability 1, but ends at (%v,%v)", f[last][0], f[last][1])
	}
	for i := range last {
		if f[i][0] > f[i+1][0] || f[i][1] > f[i+1][1] {
			return errors.Newf("ECDF points must be monotonically increasing, but point %v (%v,%v) exceeds point %v (%v,%v)",
				i, f[i][0], f[i][1], i+1, f[i+1][0], f[i+1][1])
		}
	}
	return nil
}

// EvalECDF evaluates a piecewise linear cumulative distribution function.
func EvalECDF(f [][2]float64, x float64) float64 {
	if x < f[0][0] {
		return 0
	}
	for i := range len(f) - 1 {
		if f[i+1][0] >= x {
			if f[i+1][0] == f[i][0] {
				return f[i+1][1]
			}
			scale := (x - f[i][0]) / (f[i+1][0] - f[i][0])
			return f[i][1] + scale*(f[i+1][1]-f[i][1])
		}
	}
	return 1
}

// KolmogorovSmirnov returns the Kolmogorov-Smirnov statistic, the largest
// distance between the empirical distribution of the samples and cdf.
func KolmogorovSmirnov(samples []float64, cdf func(float64) float64) float64 {
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	n := float64(len(sorted))
	d := 0.0
	for i, x := range sorted {
		p := cdf(x)
		d = max(d, p-float64(i)/n, float64(i+1)/n-p)
	}
	return d
}

// KolmogorovSmirnovCritical returns the asymptotic critical value of the
// Kolmogorov-Smirnov statistic for n samples at significance level alpha.
func KolmogorovSmirnovCritical(n int, alpha float64) float64 {
	return math.Sqrt(-0.5*math.Log(alpha/2)) / math.Sqrt(float64(n))
}

// Moments summarizes a sample.
type Moments struct {
	Mean       float64
	Variance   float64
	Skewness   float64
	ExKurtosis float64
}

// ComputeMoments computes the sample moments.
func ComputeMoments(samples []float64) Moments {
	mean, std := stat.MeanStdDev(samples, nil)
	return Moments{
		Mean:       mean,
		Variance:   std * std,
		Skewness:   stat.Skew(samples, nil),
		ExKurtosis: stat.ExKurtosis(samples, nil),
	}
}
