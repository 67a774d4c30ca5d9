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
	"slices"

	"github.com/0xsoniclabs/etf/etf"
	"github.com/0xsoniclabs/etf/validation"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// Config summarizes the parameters of an etf-bench command.
type Config struct {
	AppName     string
	CommandName string

	Distribution  string   // distribution sampled by single-distribution commands
	Distributions []string // distributions compared by the timing command
	Source        string   // random source
	Width         int      // random bits per variate
	TableBits     int      // log2 of the number of table intervals
	Dof           float64  // chi-squared degrees of freedom
	Tail          float64  // tail position, 0 for the default
	Lower         float64  // lower table bound of low-dof chi-squared
	Lambda        float64  // rate of the truncated exponential
	Seed          uint64
	MinDim        int
	MaxDim        int
	Repeat        int
	Workers       int
	Samples       uint64
	Output        string
	Db            string
	Quiet         bool
	LogLevel      string
}

// NewConfig creates the configuration of a command from its flags and
// validates it.
func NewConfig(ctx *cli.Context) (*Config, error) {
	cfg := createConfigFromFlags(ctx)
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid arguments of %v", cfg.CommandName)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if !slices.Contains(Distributions, cfg.Distribution) {
		return errors.Newf("unknown distribution %q", cfg.Distribution)
	}
	for _, d := range cfg.Distributions {
		if !slices.Contains(Distributions, d) {
			return errors.Newf("unknown distribution %q", d)
		}
	}
	if !slices.Contains(Sources, cfg.Source) {
		return errors.Newf("unknown random source %q", cfg.Source)
	}
	if cfg.TableBits < 1 || cfg.TableBits > etf.MaxTableBits {
		return errors.Newf("table bits must be within [1, %d], got %d", etf.MaxTableBits, cfg.TableBits)
	}
	// one sign bit and at least one mantissa bit
	if cfg.Width < cfg.TableBits+2 || cfg.Width > 64 {
		return errors.Newf("width must be within [%d, 64], got %d", cfg.TableBits+2, cfg.Width)
	}
	if !(cfg.Dof > 0) {
		return errors.Newf("degrees of freedom must be positive, got %v", cfg.Dof)
	}
	if !(cfg.Tail >= 0) {
		return errors.Newf("tail position must not be negative, got %v", cfg.Tail)
	}
	if !(cfg.Lower > 0) {
		return errors.Newf("lower bound must be positive, got %v", cfg.Lower)
	}
	if !(cfg.Lambda > 0) {
		return errors.Newf("rate must be positive, got %v", cfg.Lambda)
	}
	if cfg.MinDim < 8 || cfg.MinDim > cfg.MaxDim || cfg.MaxDim > validation.MaxUrnBits {
		return errors.Newf("invalid dimension range [%d, %d]; must be within [8, %d]", cfg.MinDim, cfg.MaxDim, validation.MaxUrnBits)
	}
	if cfg.Repeat < 1 {
		return errors.Newf("number of trials must be positive, got %d", cfg.Repeat)
	}
	if cfg.Workers < 1 {
		return errors.Newf("number of workers must be positive, got %d", cfg.Workers)
	}
	return nil
}
