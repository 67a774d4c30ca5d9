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

package config

// Names of the distributions known to etf-bench.
const (
	NormalDist      = "normal"
	ChiSquaredDist  = "chisquared"
	ExponentialDist = "exponential"
	TruncatedDist   = "truncated" // exponential truncated to [0,1)
	InversionDist   = "inversion" // uniform reals, baseline of the collision test
)

// Names of the random sources known to etf-bench.
const (
	MT19937Source = "mt19937"
	PCG32Source   = "pcg32"
	PCG64Source   = "pcg64"
	MinStdSource  = "minstd"
	ChaCha8Source = "chacha8"
	ExpPCGSource  = "exp-pcg" // golang.org/x/exp/rand PCG
)

// Distributions lists all distribution names.
var Distributions = []string{NormalDist, ChiSquaredDist, ExponentialDist, TruncatedDist, InversionDist}

// Sources lists all random source names.
var Sources = []string{MT19937Source, PCG32Source, PCG64Source, MinStdSource, ChaCha8Source, ExpPCGSource}
