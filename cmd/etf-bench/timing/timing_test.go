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

package timing

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xsoniclabs/etf/config"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestMeasure_SplitsSamplesBetweenWorkers(t *testing.T) {
	var calls atomic.Int64
	workers := map[int]bool{}
	m, err := Measure(context.Background(), "const", 10, 3, func(worker int) (func() float64, error) {
		workers[worker] = true
		return func() float64 {
			calls.Add(1)
			return 2
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), calls.Load())
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, workers)
	assert.Equal(t, "const", m.Name)
	assert.Equal(t, uint64(10), m.Samples)
	assert.Equal(t, 3, m.Workers)
	assert.Equal(t, 2.0, m.Mean)
}

func TestMeasure_Errors(t *testing.T) {
	one := func(int) (func() float64, error) {
		return func() float64 { return 1 }, nil
	}
	_, err := Measure(context.Background(), "", 10, 0, one)
	assert.Error(t, err)

	mockErr := errors.New("mock error")
	_, err = Measure(context.Background(), "", 10, 2, func(int) (func() float64, error) {
		return nil, mockErr
	})
	assert.ErrorIs(t, err, mockErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Measure(ctx, "", 10, 2, one)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeasurement_NsPerOp(t *testing.T) {
	m := Measurement{Samples: 4, Elapsed: 10 * time.Nanosecond}
	assert.Equal(t, 2.5, m.NsPerOp())
	assert.Equal(t, 0.0, Measurement{}.NsPerOp())
}

func TestCandidates(t *testing.T) {
	cfg := &config.Config{Source: config.MT19937Source, Width: 32, TableBits: 7, Dof: 5, Lower: 1e-4, Lambda: 1, Seed: 1}
	tests := map[string]int{
		config.NormalDist:      2,
		config.ExponentialDist: 2,
		config.ChiSquaredDist:  2,
		config.TruncatedDist:   2,
		config.InversionDist:   1,
	}
	for name, want := range tests {
		c, err := candidates(cfg, name)
		require.NoError(t, err, name)
		assert.Len(t, c, want, name)
		for _, candidate := range c {
			m, err := Measure(context.Background(), candidate.name, 20000, 2, candidate.draw)
			require.NoError(t, err, candidate.name)
			assert.False(t, math.IsNaN(m.Mean), candidate.name)
		}
	}

	_, err := candidates(cfg, "cauchy")
	assert.Error(t, err)
}

func TestCandidates_TruncatedReferenceAgrees(t *testing.T) {
	cfg := &config.Config{Source: config.PCG64Source, Width: 32, TableBits: 7, Lambda: 2, Seed: 3}
	c, err := candidates(cfg, config.TruncatedDist)
	require.NoError(t, err)
	require.Len(t, c, 2)
	want := 0.5 - 1/math.Expm1(2)
	for _, candidate := range c {
		m, err := Measure(context.Background(), candidate.name, 200000, 2, candidate.draw)
		require.NoError(t, err, candidate.name)
		assert.InDelta(t, want, m.Mean, 0.01, candidate.name)
	}
}

func TestTiming_Command(t *testing.T) {
	path := t.TempDir() + "/timing.db"

	app := cli.NewApp()
	app.Action = timingAction
	app.Flags = Command.Flags

	err := app.Run([]string{Command.Name,
		"--dists", "normal",
		"--dists", "chisquared",
		"--samples", "10000",
		"--workers", "2",
		"--quiet",
		"--db", path,
	})
	require.NoError(t, err)

	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()
	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM timing"))
	assert.Equal(t, 4, count)
}
