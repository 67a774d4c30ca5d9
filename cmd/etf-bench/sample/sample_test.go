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

package sample

import (
	"bytes"
	"math"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	const n = chunkSize + 123
	next := 0.0
	fill := func(dst []float64) {
		for i := range dst {
			dst[i] = next
			next++
		}
	}
	var buf bytes.Buffer
	summary, err := Write(&buf, n, fill)
	require.NoError(t, err)
	assert.Equal(t, uint64(n), summary.Count)
	assert.Equal(t, 0.0, summary.Min)
	assert.Equal(t, float64(n-1), summary.Max)
	assert.InDelta(t, float64(n-1)/2, summary.Mean, 1e-9)

	samples, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, samples, n)
	for i, x := range samples {
		require.Equal(t, float64(i), x)
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	summary, err := Write(&buf, 0, func([]float64) { t.Fatal("unexpected fill") })
	require.NoError(t, err)
	assert.Equal(t, uint64(0), summary.Count)
	assert.True(t, math.IsNaN(summary.Variance()))

	samples, err := Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestSummary_Variance(t *testing.T) {
	s := &Summary{}
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(x)
	}
	assert.InDelta(t, 5.0, s.Mean, 1e-15)
	assert.InDelta(t, 32.0/7, s.Variance(), 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
}

func TestRead_Invalid(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not gzip")))
	assert.Error(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = Read(&buf)
	assert.Error(t, err)
}

func TestSample_Command(t *testing.T) {
	path := t.TempDir() + "/samples.gz"

	app := cli.NewApp()
	app.Action = sampleAction
	app.Flags = Command.Flags

	err := app.Run([]string{Command.Name,
		"--dist", "exponential",
		"--samples", "5000",
		"--output", path,
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()
	samples, err := Read(file)
	require.NoError(t, err)
	require.Len(t, samples, 5000)
	sum := 0.0
	for _, x := range samples {
		require.GreaterOrEqual(t, x, 0.0)
		sum += x
	}
	assert.InDelta(t, 1.0, sum/5000, 0.1)
}

func TestSample_CommandTruncatedRate(t *testing.T) {
	path := t.TempDir() + "/truncated.gz"

	app := cli.NewApp()
	app.Action = sampleAction
	app.Flags = Command.Flags

	err := app.Run([]string{Command.Name,
		"--dist", "truncated",
		"--lambda", "3",
		"--samples", "200000",
		"--output", path,
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()
	samples, err := Read(file)
	require.NoError(t, err)
	s := &Summary{}
	for _, x := range samples {
		require.True(t, x >= 0 && x <= 1)
		s.Add(x)
	}
	lambda, err := FitRate(s)
	require.NoError(t, err)
	assert.InDelta(t, 3, lambda, 0.1)
}

func TestFitRate_NoSamples(t *testing.T) {
	_, err := FitRate(&Summary{})
	assert.Error(t, err)
}

func TestSample_CommandRequiresOutput(t *testing.T) {
	app := cli.NewApp()
	app.Action = sampleAction
	app.Flags = Command.Flags

	err := app.Run([]string{Command.Name, "--samples", "10"})
	assert.Error(t, err)
}
