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

package digits

import (
	"math"
	"math/rand/v2"

	exprand "golang.org/x/exp/rand"
)

const (
	mtN        = 624
	mtM        = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	temperingB = 0x9d2c5680
	temperingC = 0xefc60000

	// MT19937DefaultSeed is the customary default seed of the Mersenne Twister.
	MT19937DefaultSeed = 5489
)

// MT19937 is the 32-bit Mersenne Twister. Its output stream matches the
// reference implementation for the same seed.
type MT19937 struct {
	mt  [mtN]uint32
	mti int
}

// NewMT19937 creates a Mersenne Twister with the given seed.
func NewMT19937(seed uint32) *MT19937 {
	mt := &MT19937{}
	mt.Seed(seed)
	return mt
}

// Seed initializes the generator state.
func (mt *MT19937) Seed(seed uint32) {
	mt.mt[0] = seed
	for i := 1; i < mtN; i++ {
		mt.mt[i] = 1812433253*(mt.mt[i-1]^(mt.mt[i-1]>>30)) + uint32(i)
	}
	mt.mti = mtN
}

// Uint32 returns the next 32-bit output.
func (mt *MT19937) Uint32() uint32 {
	if mt.mti >= mtN {
		mt.twist()
	}
	y := mt.mt[mt.mti]
	mt.mti++

	// tempering
	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18
	return y
}

// twist regenerates the full state block.
func (mt *MT19937) twist() {
	mag01 := [2]uint32{0, matrixA}
	var y uint32
	kk := 0
	for ; kk < mtN-mtM; kk++ {
		y = (mt.mt[kk] & upperMask) | (mt.mt[kk+1] & lowerMask)
		mt.mt[kk] = mt.mt[kk+mtM] ^ (y >> 1) ^ mag01[y&1]
	}
	for ; kk < mtN-1; kk++ {
		y = (mt.mt[kk] & upperMask) | (mt.mt[kk+1] & lowerMask)
		mt.mt[kk] = mt.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mag01[y&1]
	}
	y = (mt.mt[mtN-1] & upperMask) | (mt.mt[0] & lowerMask)
	mt.mt[mtN-1] = mt.mt[mtM-1] ^ (y >> 1) ^ mag01[y&1]
	mt.mti = 0
}

func (mt *MT19937) Uint64() uint64 { return uint64(mt.Uint32()) }
func (mt *MT19937) Min() uint64    { return 0 }
func (mt *MT19937) Max() uint64    { return math.MaxUint32 }

// mul is the multiplier of the PCG LCG step
const mul = 6364136223846793005

// PCG32 is the PCG XSH RR 64/32 generator. The zero value is a valid
// generator equivalent to NewPCG32(0, 0).
type PCG32 struct {
	state uint64
	inc   uint64
}

// NewPCG32 creates a generator with the given state and stream selector.
func NewPCG32(state, inc uint64) *PCG32 {
	p := newPCG32(state, inc)
	return &p
}

func newPCG32(state, inc uint64) PCG32 {
	// this code is equiv to initializing a PCG with a 0 state and the updated
	// inc and running
	//
	//    p.Uint32()
	//    p.state += state
	//    p.Uint32()
	//
	// to get the generator started
	inc = inc<<1 | 1
	return PCG32{
		state: (inc+state)*mul + inc,
		inc:   inc,
	}
}

// Uint32 returns the next 32-bit output.
func (p *PCG32) Uint32() uint32 {
	// this causes the zero value of a PCG32 to be the same as NewPCG32(0, 0).
	if p.inc == 0 {
		*p = newPCG32(0, 0)
	}

	// update the state (LCG step)
	oldstate := p.state
	p.state = oldstate*mul + p.inc

	// apply the output permutation to the old state
	xorshifted := uint32(((oldstate >> 18) ^ oldstate) >> 27)
	rot := uint32(oldstate >> 59)
	return xorshifted>>rot | (xorshifted << ((-rot) & 31))
}

func (p *PCG32) Uint64() uint64 { return uint64(p.Uint32()) }
func (p *PCG32) Min() uint64    { return 0 }
func (p *PCG32) Max() uint64    { return math.MaxUint32 }

const (
	minStdModulus    = 2147483647
	minStdMultiplier = 16807
)

// MinStd is the Park-Miller minimal standard generator. It produces values
// in [1, 2^31-2], one of the range exceptions tolerated by CheckRange.
type MinStd struct {
	state uint64
}

// NewMinStd creates a generator; a seed congruent to zero is replaced by 1.
func NewMinStd(seed uint64) *MinStd {
	seed %= minStdModulus
	if seed == 0 {
		seed = 1
	}
	return &MinStd{state: seed}
}

func (g *MinStd) Uint64() uint64 {
	g.state = g.state * minStdMultiplier % minStdModulus
	return g.state
}

func (g *MinStd) Min() uint64 { return 1 }
func (g *MinStd) Max() uint64 { return minStdModulus - 1 }

// rand64 adapts a full-range 64-bit generator.
type rand64 struct {
	src interface{ Uint64() uint64 }
}

func (r rand64) Uint64() uint64 { return r.src.Uint64() }
func (r rand64) Min() uint64    { return 0 }
func (r rand64) Max() uint64    { return math.MaxUint64 }

// FromRand adapts a math/rand/v2 source such as *rand.PCG or *rand.ChaCha8.
func FromRand(src rand.Source) Source {
	return rand64{src: src}
}

// FromExpRand adapts a golang.org/x/exp/rand source such as *rand.PCGSource.
func FromExpRand(src exprand.Source) Source {
	return rand64{src: src}
}

// NewPCG64 returns a seeded 64-bit PCG source from math/rand/v2.
func NewPCG64(seed uint64) Source {
	return FromRand(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
