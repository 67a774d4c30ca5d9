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

import "github.com/cockroachdb/errors"

// SolveTridiagonal solves the tridiagonal system with sub-diagonal a,
// diagonal b, super-diagonal c and right-hand side rhs by Gaussian
// elimination without pivoting; a[0] and c[m-1] are ignored. The system is
// assumed to be diagonally dominant. The diagonal b and rhs are modified in
// place; the solution is written to sol.
func SolveTridiagonal(a, b, c, rhs, sol []float64) error {
	m := len(b)
	if len(a) != m || len(c) != m || len(rhs) != m || len(sol) != m {
		return errors.Newf("mismatching tridiagonal system sizes (%d, %d, %d, %d, %d)",
			len(a), len(b), len(c), len(rhs), len(sol))
	}
	if m == 0 {
		return nil
	}

	// eliminate the sub-diagonal
	for i := 1; i < m; i++ {
		pivot := a[i] / b[i-1]
		b[i] -= pivot * c[i-1]
		rhs[i] -= pivot * rhs[i-1]
	}

	// solve the remaining upper bidiagonal system
	sol[m-1] = rhs[m-1] / b[m-1]
	for i := m - 2; i >= 0; i-- {
		sol[i] = (rhs[i] - c[i]*sol[i+1]) / b[i]
	}
	return nil
}
