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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

func init() {
	viper.SetDefault("metrics.filename", "")
}

// Options configure the Exporter.
type Options struct {
	// Filename is the textfile the metrics are written to. Nothing is written if it is empty.
	Filename string
}

// OptionsFromViper returns Options using configuration from viper.
//
// `metrics.filename` is a file read by the node_exporter textfile collector.
func OptionsFromViper() Options {
	return Options{
		Filename: viper.GetString("metrics.filename"),
	}
}

// Run is the outcome of a single run as exported.
type Run struct {
	Listed     int
	Stored     int
	Skipped    int
	Failed     int
	Duration   time.Duration
	FinishedAt time.Time
	Success    bool
}

// Exporter writes the metrics of the last run in the prometheus text format.
type Exporter struct {
	filename string
	registry *prometheus.Registry

	messages  *prometheus.GaugeVec
	duration  prometheus.Gauge
	timestamp prometheus.Gauge
	success   prometheus.Gauge
}

// NewExporter creates a new Exporter.
func NewExporter(opts Options) *Exporter {
	e := Exporter{
		filename: opts.Filename,
		registry: prometheus.NewRegistry(),

		messages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "popcl_last_run_messages",
				Help: "Number of messages of the last run by state.",
			},
			[]string{"state"}, // state: "listed", "stored", "skipped", "failed"
		),
		duration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "popcl_last_run_duration_seconds",
				Help: "Duration of the last run in seconds.",
			},
		),
		timestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "popcl_last_run_timestamp_seconds",
				Help: "Unix time the last run finished.",
			},
		),
		success: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "popcl_last_run_success",
				Help: "Whether the last run completed without error (1) or not (0).",
			},
		),
	}

	e.registry.MustRegister(e.messages, e.duration, e.timestamp, e.success)
	return &e
}

// Export writes run to the configured file. Without a filename this is a noop.
func (e *Exporter) Export(run Run) error {
	if e.filename == "" {
		return nil
	}

	e.messages.WithLabelValues("listed").Set(float64(run.Listed))
	e.messages.WithLabelValues("stored").Set(float64(run.Stored))
	e.messages.WithLabelValues("skipped").Set(float64(run.Skipped))
	e.messages.WithLabelValues("failed").Set(float64(run.Failed))
	e.duration.Set(run.Duration.Seconds())
	e.timestamp.Set(float64(run.FinishedAt.Unix()))

	if run.Success {
		e.success.Set(1)
	} else {
		e.success.Set(0)
	}

	return prometheus.WriteToTextfile(e.filename, e.registry)
}
