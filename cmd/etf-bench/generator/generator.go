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

// Package generator builds the random sources and samplers selected by the
// flags of etf-bench.
package generator

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/0xsoniclabs/etf/config"
	"github.com/0xsoniclabs/etf/digits"
	"github.com/0xsoniclabs/etf/distributions/chisquared"
	"github.com/0xsoniclabs/etf/distributions/exponential"
	"github.com/0xsoniclabs/etf/distributions/normal"
	"github.com/0xsoniclabs/etf/etf"
	"github.com/0xsoniclabs/etf/partition"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// TruncationBound is the upper bound of the truncated exponential.
const TruncationBound = 1.0

// Sampler draws variates of one distribution. It is immutable and may be
// shared by goroutines drawing from distinct bit streams.
type Sampler struct {
	Name   string
	Sample func(*digits.Bits) float64
	CDF    func(float64) float64 // reference cumulative distribution
	Min    float64
	Max    float64
	Table  *Table // nil for inversion sampling
}

// Fill draws len(dst) variates.
func (s *Sampler) Fill(b *digits.Bits, dst []float64) {
	for i := range dst {
		dst[i] = s.Sample(b)
	}
}

// Table describes an ETF table independently of its integer type.
type Table struct {
	W, N         uint
	MantissaBits uint
	Shape        string
	Category     string
	OuterSwitch  uint64
	X            []float64 // breakpoints
	Ratio        []float64 // fast path acceptance probability per interval
	Fsup         []float64 // density supremum per interval
}

// Partition reconstructs the partition encoded in the table.
func (t *Table) Partition() partition.Data {
	finf := make([]float64, len(t.Fsup))
	for i := range finf {
		finf[i] = t.Ratio[i] * t.Fsup[i]
	}
	return partition.Data{X: t.X, Finf: finf, Fsup: t.Fsup}
}

// NewSampler builds the sampler of distribution name with the table
// geometry of cfg. The integer type of the table is the narrowest one
// holding cfg.Width bits.
func NewSampler(cfg *config.Config, name string) (*Sampler, error) {
	switch {
	case cfg.Width <= 16:
		return newSampler[uint16](cfg, name)
	case cfg.Width <= 32:
		return newSampler[uint32](cfg, name)
	default:
		return newSampler[uint64](cfg, name)
	}
}

func newSampler[U constraints.Unsigned](cfg *config.Config, name string) (*Sampler, error) {
	w, n := uint(cfg.Width), uint(cfg.TableBits)
	var (
		d   *etf.Distribution[U]
		cdf func(float64) float64
		err error
	)
	switch name {
	case config.InversionDist:
		return &Sampler{
			Name:   name,
			Sample: func(b *digits.Bits) float64 { return b.Float64(w) },
			CDF:    func(x float64) float64 { return min(max(x, 0), 1) },
			Min:    0,
			Max:    1,
		}, nil
	case config.NormalDist:
		d, err = normal.New[U](w, n)
		cdf = distuv.UnitNormal.CDF
	case config.ChiSquaredDist:
		xtail := cfg.Tail
		if xtail == 0 {
			xtail = chisquared.DefaultTailPosition(cfg.Dof)
		}
		if cfg.Dof < 2 {
			d, err = chisquared.NewLowDof[U](w, n, cfg.Dof, cfg.Lower, xtail)
		} else {
			d, err = chisquared.New[U](w, n, cfg.Dof, xtail)
		}
		cdf = distuv.ChiSquared{K: cfg.Dof}.CDF
	case config.ExponentialDist:
		xtail := cfg.Tail
		if xtail == 0 {
			xtail = exponential.DefaultTailPosition
		}
		d, err = exponential.New[U](w, n, xtail)
		cdf = distuv.Exponential{Rate: 1}.CDF
	case config.TruncatedDist:
		lambda := cfg.Lambda
		d, err = exponential.NewTruncated[U](w, n, lambda, TruncationBound)
		cdf = func(x float64) float64 { return exponential.CDF(lambda, TruncationBound, x) }
	default:
		return nil, errors.Newf("unknown distribution %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build %v distribution", name)
	}
	return &Sampler{
		Name:   name,
		Sample: d.Sample,
		CDF:    cdf,
		Min:    d.Min(),
		Max:    d.Max(),
		Table:  describe(d),
	}, nil
}

func describe[U constraints.Unsigned](d *etf.Distribution[U]) *Table {
	scale := float64(d.OuterSwitch())
	t := &Table{
		W:            d.W(),
		N:            d.N(),
		MantissaBits: d.MantissaBits(),
		Shape:        d.Shape().String(),
		Category:     d.Category().String(),
		OuterSwitch:  uint64(d.OuterSwitch()),
		X:            d.X(),
		Ratio:        make([]float64, d.Intervals()),
		Fsup:         make([]float64, d.Intervals()),
	}
	for i := range d.Intervals() {
		datum := d.Datum(i)
		t.Ratio[i] = float64(datum.ScaledFratio) / scale
		t.Fsup[i] = datum.ScaledFsup * scale
	}
	return t
}

// NewSource creates the random source selected by cfg. Each stream yields
// an independent sequence for the same seed.
func NewSource(cfg *config.Config, stream uint64) (digits.Source, error) {
	seed := cfg.Seed + stream
	switch cfg.Source {
	case config.MT19937Source:
		return digits.NewMT19937(uint32(seed)), nil
	case config.PCG32Source:
		return digits.NewPCG32(cfg.Seed, 2*stream+1), nil
	case config.PCG64Source:
		return digits.NewPCG64(seed), nil
	case config.MinStdSource:
		return digits.NewMinStd(seed), nil
	case config.ChaCha8Source:
		var key [32]byte
		binary.LittleEndian.PutUint64(key[:], cfg.Seed)
		binary.LittleEndian.PutUint64(key[8:], stream)
		return digits.FromRand(rand.NewChaCha8(key)), nil
	case config.ExpPCGSource:
		src := &exprand.PCGSource{}
		src.Seed(seed)
		return digits.FromExpRand(src), nil
	}
	return nil, errors.Newf("unknown random source %q", cfg.Source)
}

// NewBits creates a bit extractor over a new source of stream.
func NewBits(cfg *config.Config, stream uint64) (*digits.Bits, error) {
	src, err := NewSource(cfg, stream)
	if err != nil {
		return nil, err
	}
	return digits.NewBits(src)
}

// Bounded reports whether both ends of the support are finite.
func (s *Sampler) Bounded() bool {
	return !math.IsInf(s.Min, 0) && !math.IsInf(s.Max, 0)
}
