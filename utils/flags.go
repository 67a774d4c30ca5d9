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

package utils

import (
	"github.com/0xsoniclabs/etf/validation"
	"github.com/urfave/cli/v2"
)

var (
	DistFlag = cli.StringFlag{
		Name:  "dist",
		Usage: "distribution to sample (\"normal\", \"chisquared\", \"exponential\", \"truncated\", \"inversion\")",
		Value: "normal",
	}
	DistributionsFlag = cli.StringSliceFlag{
		Name:  "dists",
		Usage: "distributions to time",
		Value: cli.NewStringSlice("normal", "exponential", "chisquared"),
	}
	SourceFlag = cli.StringFlag{
		Name:  "source",
		Usage: "random source (\"mt19937\", \"pcg32\", \"pcg64\", \"minstd\", \"chacha8\", \"exp-pcg\")",
		Value: "mt19937",
	}
	WidthFlag = cli.IntFlag{
		Name:  "width",
		Usage: "number of random bits drawn per variate",
		Value: 32,
	}
	TableBitsFlag = cli.IntFlag{
		Name:  "table-bits",
		Usage: "table holds 2^table-bits intervals",
		Value: 7,
	}
	DofFlag = cli.Float64Flag{
		Name:  "dof",
		Usage: "degrees of freedom of the chi-squared distribution",
		Value: 5,
	}
	TailFlag = cli.Float64Flag{
		Name:  "tail",
		Usage: "position of the tail; 0 selects the default of the distribution",
	}
	LowerFlag = cli.Float64Flag{
		Name:  "lower",
		Usage: "lower bound of the table of a chi-squared distribution with less than 2 degrees of freedom",
		Value: 1e-4,
	}
	LambdaFlag = cli.Float64Flag{
		Name:  "lambda",
		Usage: "rate of the truncated exponential distribution on [0,1)",
		Value: 1,
	}
	SeedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed of the random source",
		Value: 5489,
	}
	MinDimFlag = cli.IntFlag{
		Name:  "min-dim",
		Usage: "smallest collision test dimension (2^dim urns)",
		Value: 20,
	}
	MaxDimFlag = cli.IntFlag{
		Name:  "max-dim",
		Usage: "largest collision test dimension (2^dim urns)",
		Value: 26,
	}
	RepeatFlag = cli.IntFlag{
		Name:  "repeat",
		Usage: "number of trials per dimension",
		Value: validation.DefaultRepeat,
	}
	WorkersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "number of worker threads",
		Value: 4,
	}
	SamplesFlag = cli.Uint64Flag{
		Name:  "samples",
		Usage: "number of samples to draw",
		Value: 1_000_000,
	}
	OutputFlag = cli.PathFlag{
		Name:  "output",
		Usage: "output path",
	}
	DbFlag = cli.PathFlag{
		Name:  "db",
		Usage: "sqlite3 database receiving the results",
	}
	QuietFlag = cli.BoolFlag{
		Name:  "quiet",
		Usage: "disable console output",
	}
)
