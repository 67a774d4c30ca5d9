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
	"math"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/0xsoniclabs/etf/cmd/etf-bench/generator"
	"github.com/0xsoniclabs/etf/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func normalTable(t *testing.T) *generator.Table {
	t.Helper()
	cfg := &config.Config{Source: config.MT19937Source, Width: 32, TableBits: 7}
	s, err := generator.NewSampler(cfg, config.NormalDist)
	require.NoError(t, err)
	return s.Table
}

func TestRows(t *testing.T) {
	tab := normalTable(t)
	rows := Rows(tab)
	require.Len(t, rows, 128)
	assert.Equal(t, 0, rows[0][0])
	assert.Equal(t, 127, rows[127][0])
}

func TestFastPathProbability(t *testing.T) {
	p := FastPathProbability(normalTable(t))
	assert.Greater(t, p, 0.9)
	assert.LessOrEqual(t, p, 1.0)
	assert.True(t, math.IsNaN(FastPathProbability(&generator.Table{})))
}

func TestFingerprint(t *testing.T) {
	a, b := normalTable(t), normalTable(t)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	b.X = slices.Clone(b.X)
	b.X[3] = math.Float64frombits(math.Float64bits(b.X[3]) ^ 1)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestTable_Command(t *testing.T) {
	path := t.TempDir() + "/table.csv"

	app := cli.NewApp()
	app.Action = tableAction
	app.Flags = Command.Flags

	err := app.Run([]string{Command.Name, "--dist", "exponential", "--quiet", "--output", path})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 129)
	assert.True(t, strings.HasPrefix(lines[1], "0,0,"), lines[1])
}

func TestTable_CommandWithoutTable(t *testing.T) {
	app := cli.NewApp()
	app.Action = tableAction
	app.Flags = Command.Flags

	err := app.Run([]string{Command.Name, "--dist", "inversion", "--quiet"})
	assert.Error(t, err)
}
