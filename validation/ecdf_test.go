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
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func uniformSamples(n int) []float64 {
	r := rand.New(rand.NewPCG(99, 9))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = r.Float64()
	}
	return samples
}

func TestECDF_Uniform(t *testing.T) {
	ecdf, err := ECDF(uniformSamples(100000))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(ecdf), NumECDFPoints)
	require.NoError(t, CheckECDF(ecdf))
	for _, x := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		assert.InDelta(t, x, EvalECDF(ecdf, x), 0.02)
	}
	assert.Equal(t, 0.0, EvalECDF(ecdf, -1))
	assert.Equal(t, 1.0, EvalECDF(ecdf, 2))
}

func TestECDF_InvalidSamples(t *testing.T) {
	_, err := ECDF(nil)
	assert.Error(t, err)
	_, err = ECDF([]float64{1, math.NaN()})
	assert.Error(t, err)
}

func TestCheckECDF(t *testing.T) {
	assert.NoError(t, CheckECDF([][2]float64{{0, 0}, {0.5, 0.4}, {1, 1}}))
	assert.Error(t, CheckECDF([][2]float64{{0, 0}}))
	assert.Error(t, CheckECDF([][2]float64{{0, 0.1}, {1, 1}}))
	assert.Error(t, CheckECDF([][2]float64{{0, 0}, {1, 0.9}}))
	assert.Error(t, CheckECDF([][2]float64{{0, 0}, {0.5, 0.6}, {0.4, 0.7}, {1, 1}}))
}

func TestKolmogorovSmirnov(t *testing.T) {
	const n = 100000
	samples := uniformSamples(n)
	uniform := distuv.Uniform{Min: 0, Max: 1}
	assert.Less(t, KolmogorovSmirnov(samples, uniform.CDF), KolmogorovSmirnovCritical(n, 0.001))

	shifted := distuv.Uniform{Min: 0.05, Max: 1.05}
	assert.Greater(t, KolmogorovSmirnov(samples, shifted.CDF), KolmogorovSmirnovCritical(n, 0.001))

	// a single sample at the median
	assert.Equal(t, 0.5, KolmogorovSmirnov([]float64{0.5}, uniform.CDF))
}

func TestKolmogorovSmirnovCritical(t *testing.T) {
	// the classical approximation 1.36/sqrt(n) at the 5% level
	assert.InDelta(t, 1.358, KolmogorovSmirnovCritical(1, 0.05), 1e-3)
	assert.InDelta(t, 0.01358, KolmogorovSmirnovCritical(10000, 0.05), 1e-5)
}

func TestComputeMoments(t *testing.T) {
	m := ComputeMoments([]float64{1, 2, 3, 4})
	assert.Equal(t, 2.5, m.Mean)
	assert.InDelta(t, 5.0/3, m.Variance, 1e-12)
	assert.InDelta(t, 0.0, m.Skewness, 1e-12)

	m = ComputeMoments(uniformSamples(100000))
	assert.InDelta(t, 0.5, m.Mean, 0.005)
	assert.InDelta(t, 1.0/12, m.Variance, 0.002)
	assert.InDelta(t, -1.2, m.ExKurtosis, 0.05)
}
