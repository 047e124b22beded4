// Copyright (C) 2020  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromViper(t *testing.T) {
	viper.Set("metrics.filename", "/var/lib/node_exporter/popcl.prom")
	defer viper.Set("metrics.filename", "")

	assert.Equal(t, Options{Filename: "/var/lib/node_exporter/popcl.prom"}, OptionsFromViper())
}

func TestExportDisabled(t *testing.T) {
	assert.NoError(t, NewExporter(Options{}).Export(Run{Stored: 1}))
}

func TestExport(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "popcl.prom")
	exporter := NewExporter(Options{Filename: filename})

	require.NoError(t, exporter.Export(Run{
		Listed:     4,
		Stored:     2,
		Skipped:    1,
		Failed:     1,
		Duration:   1500 * time.Millisecond,
		FinishedAt: time.Unix(1600000000, 0),
		Success:    true,
	}))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "# TYPE popcl_last_run_messages gauge")
	assert.Contains(t, text, `popcl_last_run_messages{state="listed"} 4`)
	assert.Contains(t, text, `popcl_last_run_messages{state="stored"} 2`)
	assert.Contains(t, text, `popcl_last_run_messages{state="skipped"} 1`)
	assert.Contains(t, text, `popcl_last_run_messages{state="failed"} 1`)
	assert.Contains(t, text, "popcl_last_run_duration_seconds 1.5")
	assert.Contains(t, text, "popcl_last_run_timestamp_seconds 1.6e+09")
	assert.Contains(t, text, "popcl_last_run_success 1")
}

func TestExportFailure(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "popcl.prom")
	exporter := NewExporter(Options{Filename: filename})

	require.NoError(t, exporter.Export(Run{Success: true}))
	require.NoError(t, exporter.Export(Run{Success: false}))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(content), "popcl_last_run_success 0")
}
