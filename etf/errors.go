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

// Package etf implements the ETF sampler, a generalization of the Ziggurat
// algorithm to arbitrary densities. A table built once from an equal-area
// partition of the density turns most draws into a single table lookup;
// thin wedges along the density and the tails outside the partitioned
// interval are handled by rejection and by outer distributions.
package etf

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidTableSize is returned when the number of breakpoints or
	// interval bounds does not match the table size 2^N.
	ErrInvalidTableSize = errors.New("invalid table size")

	// ErrInvalidConfig is returned for any other inconsistent build
	// parameter.
	ErrInvalidConfig = errors.New("invalid configuration")
)
