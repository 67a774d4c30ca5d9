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
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/0xsoniclabs/etf/cmd/etf-bench/generator"
	"github.com/0xsoniclabs/etf/config"
	"github.com/0xsoniclabs/etf/distributions/exponential"
	"github.com/0xsoniclabs/etf/logger"
	"github.com/0xsoniclabs/etf/utils"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/urfave/cli/v2"
)

// number of samples encoded at once
const chunkSize = 1 << 14

// Command writes samples of a distribution to a file.
var Command = cli.Command{
	Action: sampleAction,
	Name:   "sample",
	Usage:  "writes samples of a distribution to a gzip compressed file",
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
Writes the samples as a gzip stream of little-endian IEEE-754 float64
values and logs their mean and variance.
`,
}

// Summary holds running moments of written samples.
type Summary struct {
	Count    uint64
	Mean     float64
	m2       float64
	Min, Max float64
}

// Add accumulates x.
func (s *Summary) Add(x float64) {
	if s.Count == 0 {
		s.Min, s.Max = x, x
	}
	s.Count++
	delta := x - s.Mean
	s.Mean += delta / float64(s.Count)
	s.m2 += delta * (x - s.Mean)
	s.Min = min(s.Min, x)
	s.Max = max(s.Max, x)
}

// Variance returns the unbiased sample variance.
func (s *Summary) Variance() float64 {
	if s.Count < 2 {
		return math.NaN()
	}
	return s.m2 / float64(s.Count-1)
}

func sampleAction(ctx *cli.Context) (err error) {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return errors.New("no output file given; use --output")
	}
	log := logger.NewLogger(cfg.LogLevel, "etf-sample")

	sampler, err := generator.NewSampler(cfg, cfg.Distribution)
	if err != nil {
		return err
	}
	b, err := generator.NewBits(cfg, 0)
	if err != nil {
		return err
	}

	file, err := os.Create(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "cannot create %v", cfg.Output)
	}
	defer func() {
		err = errors.CombineErrors(err, file.Close())
	}()

	log.Noticef("Writing %v samples of %v to %v", utils.FormatCount(cfg.Samples), sampler.Name, cfg.Output)
	summary, err := Write(file, cfg.Samples, func(dst []float64) { sampler.Fill(b, dst) })
	if err != nil {
		return err
	}
	log.Noticef("mean %.6g, variance %.6g, range [%.6g, %.6g]", summary.Mean, summary.Variance(), summary.Min, summary.Max)
	if cfg.Distribution == config.TruncatedDist {
		lambda, fitErr := FitRate(summary)
		if fitErr != nil {
			log.Warningf("cannot fit rate: %v", fitErr)
		} else {
			log.Noticef("fitted rate %.6g, configured rate %.6g", lambda, cfg.Lambda)
		}
	}
	return nil
}

// FitRate estimates the rate of the truncated exponential distribution
// from the mean of its samples.
func FitRate(s *Summary) (float64, error) {
	if s.Count == 0 {
		return 0, errors.New("no samples")
	}
	return exponential.FitLambda(s.Mean, generator.TruncationBound)
}

// Write writes n samples produced by fill to w as a gzip stream of
// little-endian float64 values.
func Write(w io.Writer, n uint64, fill func(dst []float64)) (*Summary, error) {
	zw := gzip.NewWriter(w)
	summary := &Summary{}
	samples := make([]float64, chunkSize)
	buf := make([]byte, 0, 8*chunkSize)
	for n > 0 {
		chunk := samples[:min(n, chunkSize)]
		fill(chunk)
		buf = buf[:0]
		for _, x := range chunk {
			summary.Add(x)
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
		}
		if _, err := zw.Write(buf); err != nil {
			return nil, errors.CombineErrors(err, zw.Close())
		}
		n -= uint64(len(chunk))
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return summary, nil
}

// Read decodes all samples of a stream written by Write.
func Read(r io.Reader) ([]float64, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.CombineErrors(err, zr.Close())
	}
	if err = zr.Close(); err != nil {
		return nil, err
	}
	if len(data)%8 != 0 {
		return nil, errors.Newf("truncated sample stream of %d bytes", len(data))
	}
	samples := make([]float64, len(data)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
	}
	return samples, nil
}
