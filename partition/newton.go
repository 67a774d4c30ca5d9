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

package partition

import (
	"cmp"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
)

const (
	DefaultRelax         = 1.0 // no under- or over-relaxation
	DefaultMaxIterations = 100 // maximum number of Newton updates
)

// ErrNoConvergence is returned when the Newton iteration does not reach the
// requested area dispersion within the maximum number of iterations.
var ErrNoConvergence = errors.New("partition did not converge")

// Data is a partition x[0..n] together with the infimum finf[i] and the
// supremum fsup[i] of the partitioned function over each sub-interval
// [x[i], x[i+1]]. Empty data signals a failed partitioning.
type Data struct {
	X    []float64
	Finf []float64
	Fsup []float64
}

// Empty reports whether the partition is empty.
func (d Data) Empty() bool {
	return len(d.X) == 0
}

// Areas returns the areas of the upper rectangles fsup[i]*|x[i+1]-x[i]|.
func Areas(d Data) []float64 {
	areas := make([]float64, len(d.Fsup))
	for i := range d.Fsup {
		areas[i] = d.Fsup[i] * math.Abs(d.X[i+1]-d.X[i])
	}
	return areas
}

// Dispersion returns the difference between the largest and smallest upper
// rectangle area relative to the mean area.
func Dispersion(d Data) float64 {
	areas := Areas(d)
	if len(areas) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, a := range areas {
		sum += a
	}
	return (slices.Max(areas) - slices.Min(areas)) / (sum / float64(len(areas)))
}

type settings struct {
	relax   float64
	maxIter int
}

// Option tunes the Newton iteration.
type Option func(*settings)

// WithRelax sets the relaxation factor applied to Newton updates. Values
// below 1 improve robustness, values above 1 may speed up convergence.
func WithRelax(relax float64) Option {
	return func(s *settings) {
		s.relax = relax
	}
}

// WithMaxIterations sets the maximum number of Newton updates.
func WithMaxIterations(n int) Option {
	return func(s *settings) {
		s.maxIter = n
	}
}

type extremum struct {
	x, y float64
}

// Newton computes a partition of the interval spanned by the first and last
// initial breakpoints such that the rectangles of the upper Riemann sum of
// f have equal areas, using a multivariate Newton method.
//
// The derivative df and the abscissae of the extrema of f strictly inside
// the interval must be supplied; extrema outside the interval are ignored.
// The tolerance is the maximum relative dispersion of upper rectangle
// areas, i.e. (max-min)/mean. A reasonable initial guess, such as the
// output of Trapezoidal, is needed for fast convergence.
//
// If the iteration does not converge, empty data and an error wrapping
// ErrNoConvergence are returned.
func Newton(f, df Func, initial, extrema []float64, tol float64, opts ...Option) (Data, error) {
	s := settings{relax: DefaultRelax, maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&s)
	}
	if len(initial) < 2 {
		return Data{}, errors.Newf("at least two initial breakpoints are required, got %d", len(initial))
	}

	x := slices.Clone(initial)
	n := len(x) - 1
	finf := make([]float64, n)
	fsup := make([]float64, n)

	// extrema inside [x0, xn], ordered along x
	var ext []extremum
	for _, e := range extrema {
		if (e-x[0])*(e-x[n]) <= 0 {
			ext = append(ext, extremum{x: e, y: f(e)})
		}
	}
	ascending := x[n] >= x[0]
	slices.SortFunc(ext, func(a, b extremum) int {
		if ascending {
			return cmp.Compare(a.x, b.x)
		}
		return cmp.Compare(b.x, a.x)
	})

	y := make([]float64, n+1)
	dydx := make([]float64, n+1)
	dfsupL := make([]float64, n)
	dfsupR := make([]float64, n)
	minusS := make([]float64, n-1)
	dsL := make([]float64, n-1)
	dsC := make([]float64, n-1)
	dsR := make([]float64, n-1)
	dx := make([]float64, n-1)

	// the end points are fixed
	y[0] = f(x[0])
	y[n] = f(x[n])

	for iter := 0; ; iter++ {
		for i := 1; i < n; i++ {
			y[i] = f(x[i])
			dydx[i] = df(x[i])
		}

		// supremum of f over each interval, its partial derivatives with
		// respect to the interval bounds, and area statistics
		maxArea, minArea, sumArea := 0.0, math.MaxFloat64, 0.0
		e := 0
		for i := range n {
			if y[i] > y[i+1] {
				fsup[i], dfsupL[i], dfsupR[i] = y[i], dydx[i], 0
			} else {
				fsup[i], dfsupL[i], dfsupR[i] = y[i+1], 0, dydx[i+1]
			}
			for ; e < len(ext) && (ext[e].x-x[i])*(ext[e].x-x[i+1]) <= 0; e++ {
				if ext[e].y > fsup[i] {
					fsup[i], dfsupL[i], dfsupR[i] = ext[e].y, 0, 0
				}
			}
			area := fsup[i] * math.Abs(x[i+1]-x[i])
			maxArea = max(maxArea, area)
			minArea = min(minArea, area)
			sumArea += area
		}

		if maxArea-minArea < tol*(sumArea/float64(n)) {
			infima(x, y, ext, finf)
			return Data{X: x, Finf: finf, Fsup: fsup}, nil
		}
		if iter >= s.maxIter {
			return Data{}, errors.Wrapf(ErrNoConvergence, "%d iterations exceeded, area dispersion %v",
				s.maxIter, (maxArea-minArea)/(sumArea/float64(n)))
		}

		// area differences between neighboring rectangles and their partial
		// derivatives with respect to x[i], x[i+1] and x[i+2]
		for i := range n - 1 {
			w0, w1 := x[i+1]-x[i], x[i+2]-x[i+1]
			minusS[i] = fsup[i]*w0 - fsup[i+1]*w1
			dsL[i] = fsup[i] - w0*dfsupL[i]
			dsC[i] = w1*dfsupL[i+1] - w0*dfsupR[i] - (fsup[i] + fsup[i+1])
			dsR[i] = fsup[i+1] + w1*dfsupR[i+1]
		}

		// solve S + (dS/dX)*dX = 0 for the inner breakpoints
		if err := SolveTridiagonal(dsL, dsC, dsR, minusS, dx); err != nil {
			return Data{}, err
		}
		update(x, dx, s.relax)
	}
}

// update applies the relaxed Newton step to the inner breakpoints. Each new
// position must lie strictly between the already updated left neighbor and
// the former right neighbor; a step overshooting a bound is replaced by a
// move halfway towards that bound, so the partition stays strictly
// monotonic.
func update(x, dx []float64, relax float64) {
	n := len(x) - 1
	for i := 1; i < n; i++ {
		lo, hi, old := x[i-1], x[i+1], x[i]
		t := (old + relax*dx[i-1] - lo) / (hi - lo)
		switch {
		case math.IsNaN(t):
			// keep the former position
		case t <= 0:
			x[i] = 0.5 * (lo + old)
		case t >= 1:
			x[i] = 0.5 * (old + hi)
		default:
			x[i] = lo + t*(hi-lo)
		}
	}
}

// infima computes the infimum of f over each interval from the breakpoint
// values and the extrema.
func infima(x, y []float64, ext []extremum, finf []float64) {
	e := 0
	for i := range finf {
		finf[i] = min(y[i], y[i+1])
		for ; e < len(ext) && (ext[e].x-x[i])*(ext[e].x-x[i+1]) <= 0; e++ {
			finf[i] = min(finf[i], ext[e].y)
		}
	}
}

// NewtonMonotonic is Newton for functions that are monotonic over the
// partitioned interval.
func NewtonMonotonic(f, df Func, initial []float64, tol float64, opts ...Option) (Data, error) {
	return Newton(f, df, initial, nil, tol, opts...)
}
