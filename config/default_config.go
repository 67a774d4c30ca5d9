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
	"github.com/0xsoniclabs/etf/logger"
	"github.com/0xsoniclabs/etf/utils"
	"github.com/urfave/cli/v2"
)

// createConfigFromFlags returns Config instance with user specified values or the default ones
func createConfigFromFlags(ctx *cli.Context) *Config {
	cfg := &Config{
		AppName:     ctx.App.HelpName,
		CommandName: ctx.Command.Name,

		Db:            getFlagValue(ctx, utils.DbFlag).(string),
		Distribution:  getFlagValue(ctx, utils.DistFlag).(string),
		Distributions: getFlagValue(ctx, utils.DistributionsFlag).([]string),
		Dof:           getFlagValue(ctx, utils.DofFlag).(float64),
		Lambda:        getFlagValue(ctx, utils.LambdaFlag).(float64),
		LogLevel:      getFlagValue(ctx, logger.LogLevelFlag).(string),
		Lower:         getFlagValue(ctx, utils.LowerFlag).(float64),
		MaxDim:        getFlagValue(ctx, utils.MaxDimFlag).(int),
		MinDim:        getFlagValue(ctx, utils.MinDimFlag).(int),
		Output:        getFlagValue(ctx, utils.OutputFlag).(string),
		Quiet:         getFlagValue(ctx, utils.QuietFlag).(bool),
		Repeat:        getFlagValue(ctx, utils.RepeatFlag).(int),
		Samples:       getFlagValue(ctx, utils.SamplesFlag).(uint64),
		Seed:          getFlagValue(ctx, utils.SeedFlag).(uint64),
		Source:        getFlagValue(ctx, utils.SourceFlag).(string),
		TableBits:     getFlagValue(ctx, utils.TableBitsFlag).(int),
		Tail:          getFlagValue(ctx, utils.TailFlag).(float64),
		Width:         getFlagValue(ctx, utils.WidthFlag).(int),
		Workers:       getFlagValue(ctx, utils.WorkersFlag).(int),
	}

	return cfg
}

// getFlagValue returns value specified by user if flag is present in cli context, otherwise return default flag value
func getFlagValue(ctx *cli.Context, flag interface{}) interface{} {
	cmdFlags := ctx.Command.Flags
	for _, cmdFlag := range cmdFlags {
		switch f := flag.(type) {
		case cli.IntFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Int(f.Name)
			}

		case cli.Uint64Flag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Uint64(f.Name)
			}

		case cli.Float64Flag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Float64(f.Name)
			}

		case cli.StringFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.String(f.Name)
			}

		case cli.PathFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Path(f.Name)
			}

		case cli.BoolFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Bool(f.Name)
			}
		case cli.StringSliceFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.StringSlice(f.Name)
			}
		}
	}

	// If flag not found, return the default value of the flag
	switch f := flag.(type) {
	case cli.IntFlag:
		return f.Value
	case cli.Uint64Flag:
		return f.Value
	case cli.Float64Flag:
		return f.Value
	case cli.StringFlag:
		return f.Value
	case cli.PathFlag:
		return f.Value
	case cli.BoolFlag:
		return f.Value
	case cli.StringSliceFlag:
		if f.Value == nil {
			return []string{}
		}
		return f.Value.Value()
	}

	return nil
}
