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

package tabulate

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/0xsoniclabs/etf/cmd/etf-bench/generator"
	"github.com/0xsoniclabs/etf/config"
	"github.com/0xsoniclabs/etf/logger"
	"github.com/0xsoniclabs/etf/partition"
	"github.com/0xsoniclabs/etf/utils"
	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sigurn/crc8"
	"github.com/urfave/cli/v2"
)

var crcTable = crc8.MakeTable(crc8.CRC8)

// Command prints the ETF table of a distribution.
var Command = cli.Command{
	Action: tableAction,
	Name:   "table",
	Usage:  "prints the ETF table of a distribution",
	Flags: []cli.Flag{
		&utils.DistFlag,
		&utils.WidthFlag,
		&utils.TableBitsFlag,
		&utils.DofFlag,
		&utils.TailFlag,
		&utils.LowerFlag,
		&utils.LambdaFlag,
		&utils.OutputFlag,
		&utils.QuietFlag,
		&logger.LogLevelFlag,
	},
	Description: `
Prints breakpoints, fast path ratios and rectangle areas of every interval,
the relative dispersion of the areas and a crc8 fingerprint of the table.
With --output, the intervals are also written as CSV.
`,
}

func tableAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "etf-table")

	sampler, err := generator.NewSampler(cfg, cfg.Distribution)
	if err != nil {
		return err
	}
	t := sampler.Table
	if t == nil {
		return errors.Newf("%v sampling has no table", sampler.Name)
	}

	log.Noticef("%v: %v %v, W=%d, N=%d, %d mantissa bits, outer switch %v",
		sampler.Name, t.Shape, t.Category, t.W, t.N, t.MantissaBits, utils.FormatCount(t.OuterSwitch))
	log.Noticef("area dispersion %.3g, fast path probability %.6f, fingerprint %#02x",
		partition.Dispersion(t.Partition()), FastPathProbability(t), Fingerprint(t))

	printers := utils.NewPrinters().AddPrinterToTable(cfg.Quiet, fmt.Sprintf("ETF table of %v", sampler.Name), header(), func() []table.Row {
		return Rows(t)
	})
	printers.AddPrinterToFile(cfg.Output, func() string {
		w := table.NewWriter()
		w.AppendHeader(header())
		w.AppendRows(Rows(t))
		return w.RenderCSV() + "\n"
	})
	return errors.CombineErrors(printers.Print(), printers.Close())
}

func header() table.Row {
	return table.Row{"i", "x[i]", "x[i+1]", "fsup", "ratio", "area"}
}

// Rows returns one row per interval of t.
func Rows(t *generator.Table) []table.Row {
	areas := partition.Areas(t.Partition())
	rows := make([]table.Row, len(areas))
	for i := range rows {
		rows[i] = table.Row{i,
			fmt.Sprintf("%.10g", t.X[i]), fmt.Sprintf("%.10g", t.X[i+1]),
			fmt.Sprintf("%.6g", t.Fsup[i]), fmt.Sprintf("%.6f", t.Ratio[i]), fmt.Sprintf("%.6g", areas[i]),
		}
	}
	return rows
}

// FastPathProbability returns the probability that a draw falling inside
// the table is accepted without evaluating the density. Intervals are
// selected with equal probability.
func FastPathProbability(t *generator.Table) float64 {
	if len(t.Ratio) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, r := range t.Ratio {
		sum += r
	}
	return sum / float64(len(t.Ratio))
}

// Fingerprint returns the crc8 checksum of the breakpoints and ratios of t.
func Fingerprint(t *generator.Table) uint8 {
	buf := make([]byte, 0, 8*(len(t.X)+2*len(t.Ratio)))
	for _, x := range t.X {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
	}
	for i := range t.Ratio {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(t.Ratio[i]))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(t.Fsup[i]))
	}
	return crc8.Checksum(buf, crcTable)
}
