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

package collision

import (
	"context"
	"fmt"
	"time"

	"github.com/0xsoniclabs/etf/cmd/etf-bench/generator"
	"github.com/0xsoniclabs/etf/config"
	"github.com/0xsoniclabs/etf/digits"
	"github.com/0xsoniclabs/etf/logger"
	"github.com/0xsoniclabs/etf/utils"
	"github.com/0xsoniclabs/etf/validation"
	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

// significance below which a trial is reported as suspicious
const significance = 0.01

const (
	createTable = `CREATE TABLE IF NOT EXISTS collision (
		dist TEXT, source TEXT, width INTEGER, table_bits INTEGER,
		dim INTEGER, trial INTEGER, balls INTEGER, collisions INTEGER,
		expectation REAL, pvalue REAL)`
	insertRow = `INSERT INTO collision VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// Command runs the Knuth collision test on a distribution.
var Command = cli.Command{
	Action: collisionAction,
	Name:   "collision",
	Usage:  "runs the Knuth collision test on the samples of a distribution",
	Flags: []cli.Flag{
		&utils.DistFlag,
		&utils.SourceFlag,
		&utils.SeedFlag,
		&utils.WidthFlag,
		&utils.TableBitsFlag,
		&utils.DofFlag,
		&utils.TailFlag,
		&utils.LowerFlag,
		&utils.LambdaFlag,
		&utils.MinDimFlag,
		&utils.MaxDimFlag,
		&utils.RepeatFlag,
		&utils.WorkersFlag,
		&utils.DbFlag,
		&utils.QuietFlag,
		&logger.LogLevelFlag,
	},
	Description: `
Maps every sample through the cumulative distribution function of the
sampled distribution and throws the resulting uniform numbers into 2^dim
urns, 256 urns per ball. Small right p-values of the number of collisions
reveal a lack of randomness at the resolution of the urns.
`,
}

func collisionAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "etf-collision")

	sampler, err := generator.NewSampler(cfg, cfg.Distribution)
	if err != nil {
		return err
	}
	experiment := validation.CollisionExperiment{
		MinDim:      uint(cfg.MinDim),
		MaxDim:      uint(cfg.MaxDim),
		Repeat:      cfg.Repeat,
		Concurrency: cfg.Workers,
	}
	log.Noticef("Collision test of %v (%v source, W=%d, N=%d), dimensions %d-%d",
		sampler.Name, cfg.Source, cfg.Width, cfg.TableBits, cfg.MinDim, cfg.MaxDim)

	start := time.Now()
	results, err := Run(ctx.Context, cfg, sampler, experiment)
	if err != nil {
		return err
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	log.Infof("Experiment took %vh %vm %vs", hours, minutes, seconds)

	suspicious := 0
	for _, r := range results {
		if r.PValue < significance {
			suspicious++
			log.Warningf("dim %d trial %d: %d collisions, p-value %.3g", r.Dim, r.Trial, r.Collisions, r.PValue)
		}
	}
	log.Noticef("%d of %d trials below p=%v", suspicious, len(results), significance)

	printers := utils.NewPrinters().AddPrinterToTable(cfg.Quiet, "Collision test of "+sampler.Name, header(), func() []table.Row {
		return rows(results)
	})
	if _, err = printers.AddPrinterToSqlite3(cfg.Db, createTable, insertRow, func() [][]any {
		return records(cfg, results)
	}); err != nil {
		return err
	}
	return errors.CombineErrors(printers.Print(), printers.Close())
}

// Run performs the experiment on the samples of sampler mapped through its
// cumulative distribution function. Every dimension draws from its own
// stream of the configured source.
func Run(ctx context.Context, cfg *config.Config, sampler *generator.Sampler, experiment validation.CollisionExperiment) ([]validation.CollisionResult, error) {
	if err := experiment.Validate(); err != nil {
		return nil, err
	}
	bits := make(map[uint]*digits.Bits)
	for dim := experiment.MinDim; dim <= experiment.MaxDim; dim++ {
		b, err := generator.NewBits(cfg, uint64(dim))
		if err != nil {
			return nil, err
		}
		bits[dim] = b
	}
	return experiment.Run(ctx, func(dim uint) func() float64 {
		b := bits[dim]
		return func() float64 {
			return sampler.CDF(sampler.Sample(b))
		}
	})
}

func header() table.Row {
	return table.Row{"dim", "trial", "balls", "collisions", "expected", "p-value"}
}

func rows(results []validation.CollisionResult) []table.Row {
	out := make([]table.Row, 0, len(results))
	for _, r := range results {
		out = append(out, table.Row{
			r.Dim, r.Trial, utils.FormatCount(r.Balls), utils.FormatCount(r.Collisions),
			fmt.Sprintf("%.1f", r.Expectation), fmt.Sprintf("%.4f", r.PValue),
		})
	}
	return out
}

func records(cfg *config.Config, results []validation.CollisionResult) [][]any {
	out := make([][]any, 0, len(results))
	for _, r := range results {
		out = append(out, []any{
			cfg.Distribution, cfg.Source, cfg.Width, cfg.TableBits,
			r.Dim, r.Trial, r.Balls, r.Collisions, r.Expectation, r.PValue,
		})
	}
	return out
}
