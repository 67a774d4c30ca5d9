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

package histogram

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/0xsoniclabs/etf/cmd/etf-bench/generator"
	"github.com/0xsoniclabs/etf/config"
	"github.com/0xsoniclabs/etf/logger"
	"github.com/0xsoniclabs/etf/utils"
	"github.com/0xsoniclabs/etf/validation"
	"github.com/cockroachdb/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/floats"
)

const (
	alpha      = 0.01 // significance level of the reported Kolmogorov-Smirnov critical value
	gridPoints = 200  // points of the deviation series
)

// Command renders the empirical distribution of samples against the exact
// one.
var Command = cli.Command{
	Action: histogramAction,
	Name:   "histogram",
	Usage:  "renders the empirical distribution of samples as an HTML chart",
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
		&utils.SamplesFlag,
		&utils.OutputFlag,
		&logger.LogLevelFlag,
	},
	Description: `
Draws samples of a distribution, renders their empirical cumulative
distribution function next to the exact one into an HTML file and logs the
Kolmogorov-Smirnov statistic.
`,
}

// Report compares samples with a reference distribution.
type Report struct {
	ECDF      [][2]float64 // compressed empirical distribution
	Reference [][2]float64 // reference distribution at the points of ECDF
	Deviation [][2]float64 // eCDF minus CDF on a uniform grid
	Moments   validation.Moments
	KS        float64 // Kolmogorov-Smirnov statistic
	Critical  float64 // critical value of KS at level alpha
}

// NewReport summarizes samples against cdf. The deviation is tabulated on
// [lo, hi]; infinite ends are replaced by the extreme samples.
func NewReport(samples []float64, cdf func(float64) float64, lo, hi float64) (*Report, error) {
	ecdf, err := validation.ECDF(samples)
	if err != nil {
		return nil, err
	}
	reference := make([][2]float64, len(ecdf))
	for i, p := range ecdf {
		reference[i] = [2]float64{p[0], cdf(p[0])}
	}
	if math.IsInf(lo, 0) {
		lo = ecdf[0][0]
	}
	if math.IsInf(hi, 0) {
		hi = ecdf[len(ecdf)-1][0]
	}
	grid := floats.Span(make([]float64, gridPoints), lo, hi)
	deviation := make([][2]float64, len(grid))
	for i, x := range grid {
		deviation[i] = [2]float64{x, validation.EvalECDF(ecdf, x) - cdf(x)}
	}
	return &Report{
		ECDF:      ecdf,
		Reference: reference,
		Deviation: deviation,
		Moments:   validation.ComputeMoments(samples),
		KS:        validation.KolmogorovSmirnov(samples, cdf),
		Critical:  validation.KolmogorovSmirnovCritical(len(samples), alpha),
	}, nil
}

func histogramAction(ctx *cli.Context) (err error) {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return errors.New("no output file given; use --output")
	}
	log := logger.NewLogger(cfg.LogLevel, "etf-histogram")

	sampler, err := generator.NewSampler(cfg, cfg.Distribution)
	if err != nil {
		return err
	}
	b, err := generator.NewBits(cfg, 0)
	if err != nil {
		return err
	}
	samples := make([]float64, cfg.Samples)
	sampler.Fill(b, samples)

	lo, hi := math.Inf(-1), math.Inf(1)
	if sampler.Bounded() {
		lo, hi = sampler.Min, sampler.Max
	}
	report, err := NewReport(samples, sampler.CDF, lo, hi)
	if err != nil {
		return err
	}
	log.Noticef("mean %.6g, variance %.6g, skewness %.4g, excess kurtosis %.4g",
		report.Moments.Mean, report.Moments.Variance, report.Moments.Skewness, report.Moments.ExKurtosis)
	if report.KS > report.Critical {
		log.Warningf("Kolmogorov-Smirnov statistic %.5f exceeds critical value %.5f (alpha=%v)", report.KS, report.Critical, alpha)
	} else {
		log.Noticef("Kolmogorov-Smirnov statistic %.5f, critical value %.5f (alpha=%v)", report.KS, report.Critical, alpha)
	}

	file, err := os.Create(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "cannot create %v", cfg.Output)
	}
	defer func() {
		err = errors.CombineErrors(err, file.Close())
	}()
	title := fmt.Sprintf("%v (W=%d, N=%d)", sampler.Name, cfg.Width, cfg.TableBits)
	return Render(file, title, fmt.Sprintf("%v samples", utils.FormatCount(cfg.Samples)), report)
}

func convertCountingData(data [][2]float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(data))
	for _, pair := range data {
		items = append(items, opts.LineData{Value: pair})
	}
	return items
}

// Render writes an HTML line chart of the report to w.
func Render(w io.Writer, title, subtitle string, report *Report) error {
	chart := charts.NewLine()
	chart.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme: types.ThemeChalk,
	}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}))
	chart.AddSeries("eCDF", convertCountingData(report.ECDF)).
		AddSeries("CDF", convertCountingData(report.Reference)).
		AddSeries("eCDF - CDF", convertCountingData(report.Deviation))
	return chart.Render(w)
}
