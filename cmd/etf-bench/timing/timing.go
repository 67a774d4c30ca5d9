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
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/0xsoniclabs/etf/cmd/etf-bench/generator"
	"github.com/0xsoniclabs/etf/config"
	"github.com/0xsoniclabs/etf/distributions/exponential"
	"github.com/0xsoniclabs/etf/logger"
	"github.com/0xsoniclabs/etf/utils"
	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	exprand "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

// number of draws between two checks of the context
const checkInterval = 1 << 16

const (
	createTable = `CREATE TABLE IF NOT EXISTS timing (
		name TEXT, source TEXT, width INTEGER, table_bits INTEGER,
		samples INTEGER, workers INTEGER, ns_per_op REAL, mean REAL)`
	insertRow = `INSERT INTO timing VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// Command times ETF samplers against the samplers of math/rand/v2 and gonum.
var Command = cli.Command{
	Action: timingAction,
	Name:   "timing",
	Usage:  "measures the time per variate of ETF and reference samplers",
	Flags: []cli.Flag{
		&utils.DistributionsFlag,
		&utils.SourceFlag,
		&utils.SeedFlag,
		&utils.WidthFlag,
		&utils.TableBitsFlag,
		&utils.DofFlag,
		&utils.TailFlag,
		&utils.LowerFlag,
		&utils.LambdaFlag,
		&utils.SamplesFlag,
		&utils.WorkersFlag,
		&utils.DbFlag,
		&utils.QuietFlag,
		&logger.LogLevelFlag,
	},
	Description: `
Draws the given number of samples of every distribution, split between the
workers, and reports the wall time per variate. Normal, exponential and
chi-squared distributions are compared with a reference sampler.
`,
}

// Measurement is the timing of one sampler.
type Measurement struct {
	Name    string
	Samples uint64
	Workers int
	Elapsed time.Duration
	Mean    float64
}

// NsPerOp returns the wall time per variate in nanoseconds.
func (m Measurement) NsPerOp() float64 {
	if m.Samples == 0 {
		return 0
	}
	return float64(m.Elapsed.Nanoseconds()) / float64(m.Samples)
}

// Draw creates the sampling function of one worker.
type Draw func(worker int) (func() float64, error)

func timingAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "etf-timing")

	var measurements []Measurement
	for _, name := range cfg.Distributions {
		draws, err := candidates(cfg, name)
		if err != nil {
			return err
		}
		for _, c := range draws {
			log.Debugf("Timing %v", c.name)
			m, err := Measure(ctx.Context, c.name, cfg.Samples, cfg.Workers, c.draw)
			if err != nil {
				return err
			}
			log.Infof("%v: %.2f ns/op", m.Name, m.NsPerOp())
			measurements = append(measurements, m)
		}
	}

	printers := utils.NewPrinters().AddPrinterToTable(cfg.Quiet, "Timing", table.Row{"sampler", "samples", "workers", "ns/op", "mean"}, func() []table.Row {
		rows := make([]table.Row, 0, len(measurements))
		for _, m := range measurements {
			rows = append(rows, table.Row{m.Name, utils.FormatCount(m.Samples), m.Workers, fmt.Sprintf("%.2f", m.NsPerOp()), fmt.Sprintf("%.5f", m.Mean)})
		}
		return rows
	})
	if _, err = printers.AddPrinterToSqlite3(cfg.Db, createTable, insertRow, func() [][]any {
		rows := make([][]any, 0, len(measurements))
		for _, m := range measurements {
			rows = append(rows, []any{m.Name, cfg.Source, cfg.Width, cfg.TableBits, m.Samples, m.Workers, m.NsPerOp(), m.Mean})
		}
		return rows
	}); err != nil {
		return err
	}
	return errors.CombineErrors(printers.Print(), printers.Close())
}

type candidate struct {
	name string
	draw Draw
}

// candidates returns the ETF sampler of a distribution followed by its
// reference sampler, if any.
func candidates(cfg *config.Config, name string) ([]candidate, error) {
	sampler, err := generator.NewSampler(cfg, name)
	if err != nil {
		return nil, err
	}
	out := []candidate{{
		name: fmt.Sprintf("etf %v (W=%d, N=%d)", name, cfg.Width, cfg.TableBits),
		draw: func(worker int) (func() float64, error) {
			b, err := generator.NewBits(cfg, uint64(worker))
			if err != nil {
				return nil, err
			}
			return func() float64 { return sampler.Sample(b) }, nil
		},
	}}

	switch name {
	case config.NormalDist:
		out = append(out, candidate{"math/rand/v2 normal", func(worker int) (func() float64, error) {
			return rand.New(rand.NewPCG(cfg.Seed, uint64(worker))).NormFloat64, nil
		}})
	case config.ExponentialDist:
		out = append(out, candidate{"math/rand/v2 exponential", func(worker int) (func() float64, error) {
			return rand.New(rand.NewPCG(cfg.Seed, uint64(worker))).ExpFloat64, nil
		}})
	case config.TruncatedDist:
		out = append(out, candidate{fmt.Sprintf("inversion truncated exponential (lambda=%v)", cfg.Lambda), func(worker int) (func() float64, error) {
			r := rand.New(rand.NewPCG(cfg.Seed, uint64(worker)))
			return func() float64 {
				return exponential.Quantile(cfg.Lambda, generator.TruncationBound, r.Float64())
			}, nil
		}})
	case config.ChiSquaredDist:
		out = append(out, candidate{fmt.Sprintf("gonum chi-squared (k=%v)", cfg.Dof), func(worker int) (func() float64, error) {
			src := &exprand.PCGSource{}
			src.Seed(cfg.Seed + uint64(worker))
			return distuv.ChiSquared{K: cfg.Dof, Src: src}.Rand, nil
		}})
	}
	return out, nil
}

// Measure draws samples variates split between workers goroutines and
// returns the elapsed wall time.
func Measure(ctx context.Context, name string, samples uint64, workers int, draw Draw) (Measurement, error) {
	if workers < 1 {
		return Measurement{}, errors.Newf("number of workers must be positive, got %d", workers)
	}
	funcs := make([]func() float64, workers)
	for i := range funcs {
		f, err := draw(i)
		if err != nil {
			return Measurement{}, err
		}
		funcs[i] = f
	}

	sums := make([]float64, workers)
	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for i, f := range funcs {
		n := samples / uint64(workers)
		if uint64(i) < samples%uint64(workers) {
			n++
		}
		g.Go(func() error {
			s := 0.0
			for j := range n {
				if j%checkInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				s += f()
			}
			sums[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Measurement{}, err
	}
	elapsed := time.Since(start)

	total := 0.0
	for _, s := range sums {
		total += s
	}
	m := Measurement{Name: name, Samples: samples, Workers: workers, Elapsed: elapsed}
	if samples > 0 {
		m.Mean = total / float64(samples)
	}
	return m, nil
}
