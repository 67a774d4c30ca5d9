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

import (
	"flag"
	"testing"

	"github.com/0xsoniclabs/etf/logger"
	"github.com/0xsoniclabs/etf/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// newFlagContext returns the context of a command declaring flags, parsed
// from args.
func newFlagContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	t.Helper()
	app := cli.NewApp()
	app.HelpName = "etf-bench"
	cmd := &cli.Command{Name: "testcmd", Flags: flags}
	app.Commands = []*cli.Command{cmd}

	set := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cmd
	return ctx
}

func TestGetFlagValue(t *testing.T) {
	declared := []cli.Flag{
		&utils.DofFlag,
		&utils.WidthFlag,
		&utils.SeedFlag,
		&utils.DistFlag,
		&utils.OutputFlag,
		&utils.QuietFlag,
		&utils.DistributionsFlag,
	}

	testCases := []struct {
		name          string
		flags         []cli.Flag
		args          []string
		flagToTest    interface{}
		expectedValue interface{}
	}{
		{"dof given", declared, []string{"--dof", "2.5"}, utils.DofFlag, 2.5},
		{"dof default", declared, nil, utils.DofFlag, 5.0},
		{"width given", declared, []string{"--width", "16"}, utils.WidthFlag, 16},
		{"seed given", declared, []string{"--seed", "42"}, utils.SeedFlag, uint64(42)},
		{"dist given", declared, []string{"--dist", "chisquared"}, utils.DistFlag, "chisquared"},
		{"output given", declared, []string{"--output", "/tmp/samples.gz"}, utils.OutputFlag, "/tmp/samples.gz"},
		{"quiet given", declared, []string{"--quiet"}, utils.QuietFlag, true},
		{"dists given", declared, []string{"--dists", "normal", "--dists", "truncated"}, utils.DistributionsFlag, []string{"normal", "truncated"}},
		{"dists default", declared, nil, utils.DistributionsFlag, []string{"normal", "exponential", "chisquared"}},
		{"undeclared tail falls back to default", declared, nil, utils.TailFlag, 0.0},
		{"undeclared table bits falls back to default", declared, nil, utils.TableBitsFlag, 7},
		{"undeclared samples falls back to default", declared, nil, utils.SamplesFlag, uint64(1_000_000)},
		{"undeclared db falls back to default", declared, nil, utils.DbFlag, ""},
		{"undeclared slice without default", nil, nil, cli.StringSliceFlag{Name: "undeclared"}, []string{}},
		{"unsupported flag type", declared, nil, cli.DurationFlag{Name: "dof"}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newFlagContext(t, tc.flags, tc.args...)
			assert.Equal(t, tc.expectedValue, getFlagValue(ctx, tc.flagToTest))
		})
	}
}

func TestCreateConfigFromFlags_PartialCommand(t *testing.T) {
	ctx := newFlagContext(t, []cli.Flag{
		&utils.DistFlag,
		&utils.DofFlag,
		&utils.WidthFlag,
		&logger.LogLevelFlag,
	}, "--dist", "chisquared", "--dof", "1.5", "--width", "64", "--log", "debug")

	cfg := createConfigFromFlags(ctx)
	assert.Equal(t, "etf-bench", cfg.AppName)
	assert.Equal(t, "testcmd", cfg.CommandName)
	assert.Equal(t, "chisquared", cfg.Distribution)
	assert.Equal(t, 1.5, cfg.Dof)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, "debug", cfg.LogLevel)

	// flags the command does not declare keep their defaults
	assert.Equal(t, 0.0, cfg.Tail)
	assert.Equal(t, 1e-4, cfg.Lower)
	assert.Equal(t, 1.0, cfg.Lambda)
	assert.Equal(t, 7, cfg.TableBits)
	assert.Equal(t, uint64(5489), cfg.Seed)
	assert.Equal(t, "mt19937", cfg.Source)
	assert.Equal(t, []string{"normal", "exponential", "chisquared"}, cfg.Distributions)
	assert.False(t, cfg.Quiet)
}
