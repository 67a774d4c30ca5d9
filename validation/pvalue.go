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

// Package validation provides statistical checks of random variate
// generators: the Knuth collision test, Kolmogorov-Smirnov statistics and
// sample moments.
package validation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// RightPValue returns the probability that a Poisson variable with the
// given mean is at least k.
func RightPValue(mean float64, k uint64) float64 {
	if k == 0 {
		return 1
	}
	p := 1 - distuv.Poisson{Lambda: mean}.CDF(float64(k-1))
	return math.Min(math.Max(p, 0), 1)
}
