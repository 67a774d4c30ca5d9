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
	"context"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

const (
	MaxUrnBits    = 40  // largest supported number of urns is 2^MaxUrnBits
	UrnsPerBall   = 256 // ratio of urns to balls
	DefaultRepeat = 10  // default number of trials per dimension
)

// UrnMap sorts numbers in [0,1) into 2^dim urns.
type UrnMap struct {
	n    float64
	last uint64
}

// NewUrnMap creates a map onto 2^dim urns.
func NewUrnMap(dim uint) UrnMap {
	n := uint64(1) << dim
	return UrnMap{n: float64(n), last: n - 1}
}

// Urn returns the urn of x. Values outside [0,1) go to the first or last
// urn.
func (m UrnMap) Urn(x float64) uint64 {
	if !(x > 0) {
		return 0
	}
	return min(uint64(m.n*x), m.last)
}

// CollisionResult is the outcome of one trial of the collision test.
type CollisionResult struct {
	Dim         uint
	Trial       int
	Balls       uint64
	Collisions  uint64
	Expectation float64
	PValue      float64
}

// CollisionExperiment runs the Knuth collision test: for every dimension
// dim, 2^(dim-1)/128 balls are thrown into 2^dim urns using uniform numbers
// in [0,1), and the number of balls falling into an occupied urn is
// compared with its Poisson approximation. Small right p-values indicate a
// lack of randomness at the resolution of the urns.
type CollisionExperiment struct {
	MinDim, MaxDim uint
	Repeat         int
	// Concurrency bounds the number of dimensions processed in parallel;
	// zero or less means no limit.
	Concurrency int
}

// Validate checks the experiment parameters.
func (e CollisionExperiment) Validate() error {
	if e.MinDim < 8 || e.MinDim > e.MaxDim || e.MaxDim > MaxUrnBits {
		return errors.Newf("invalid dimension range [%d, %d]; must be within [8, %d]", e.MinDim, e.MaxDim, MaxUrnBits)
	}
	if e.Repeat < 1 {
		return errors.Newf("number of trials must be positive, got %d", e.Repeat)
	}
	return nil
}

// Balls returns the number of balls thrown for a dimension.
func Balls(dim uint) uint64 {
	return (uint64(1) << dim) / UrnsPerBall
}

// Expectation returns the expected number of collisions for a dimension.
func Expectation(dim uint) float64 {
	n := float64(Balls(dim))
	return n * n / (2 * math.Ldexp(1, int(dim)))
}

// Run performs the experiment. For every dimension newDraw is called once
// to obtain the uniform number generator of that dimension; generators are
// used by a single goroutine. Results are ordered by dimension and trial.
func (e CollisionExperiment) Run(ctx context.Context, newDraw func(dim uint) func() float64) ([]CollisionResult, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	dims := int(e.MaxDim-e.MinDim) + 1
	results := make([]CollisionResult, dims*e.Repeat)

	g, ctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}
	for j := range dims {
		dim := e.MinDim + uint(j)
		g.Go(func() error {
			draw := newDraw(dim)
			urns := NewUrnMap(dim)
			buf := make([]uint64, Balls(dim))
			for trial := range e.Repeat {
				if err := ctx.Err(); err != nil {
					return err
				}
				collisions := throw(draw, urns, buf)
				results[j*e.Repeat+trial] = CollisionResult{
					Dim:         dim,
					Trial:       trial + 1,
					Balls:       uint64(len(buf)),
					Collisions:  collisions,
					Expectation: Expectation(dim),
					PValue:      RightPValue(Expectation(dim), collisions),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// throw fills buf with the urns of len(buf) balls and returns the number of
// balls that fell into an occupied urn.
func throw(draw func() float64, urns UrnMap, buf []uint64) uint64 {
	for i := range buf {
		buf[i] = urns.Urn(draw())
	}
	slices.Sort(buf)
	var collisions uint64
	for i := 1; i < len(buf); i++ {
		if buf[i] == buf[i-1] {
			collisions++
		}
	}
	return collisions
}
