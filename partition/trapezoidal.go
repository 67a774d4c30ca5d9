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

// Package partition computes partitions of an interval such that the upper
// rectangles of a function over each sub-interval have equal areas.
package partition

import (
	"github.com/cockroachdb/errors"
)

// Func is a real function of one variable.
type Func func(float64) float64

// Trapezoidal computes a partition dividing approximately evenly the area
// under f over [x0, x1] into the given number of intervals. The trapezoidal
// rule is applied on a regular grid with the given number of points
// (including both ends); the returned breakpoints are obtained by linear
// interpolation of the cumulative area. The result is meant as an initial
// guess for Newton.
func Trapezoidal(f Func, x0, x1 float64, intervals, points int) ([]float64, error) {
	if intervals < 1 {
		return nil, errors.Newf("number of intervals must be positive, got %d", intervals)
	}
	if points < 2 {
		return nil, errors.Newf("at least two grid points are required, got %d", points)
	}
	n, m := points, intervals

	// sample the curve
	dx := (x1 - x0) / float64(n-1)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range n - 1 {
		x[i] = x0 + float64(i)*dx
		y[i] = f(x[i])
	}
	x[n-1] = x1
	y[n-1] = f(x1)

	// total area, scaled by 1/dx
	s := 0.5 * (y[0] + y[n-1])
	for i := 1; i < n-1; i++ {
		s += y[i]
	}

	// choose breakpoints that evenly split the area under the curve
	xp := make([]float64, m+1)
	xp[0] = x0
	xp[m] = x1
	al, ar := 0.0, 0.5*(y[0]+y[1])
	i := 0
	for j := 1; j < m; j++ {
		a := s * (float64(j) / float64(m))
		for a > ar && i < n-2 {
			i++
			al = ar
			ar += 0.5 * (y[i] + y[i+1])
		}
		if ar > al {
			xp[j] = x[i] + (x[i+1]-x[i])*((a-al)/(ar-al))
		} else {
			xp[j] = x[i]
		}
	}
	return xp, nil
}

// TrapezoidalDefault is Trapezoidal with as many grid points as intervals.
func TrapezoidalDefault(f Func, x0, x1 float64, intervals int) ([]float64, error) {
	return Trapezoidal(f, x0, x1, intervals, max(intervals, 2))
}
