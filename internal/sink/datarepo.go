// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package sink

import (
	"log/slog"
	"path/filepath"

	"github.com/cardinalhq/shoprunner/internal/source"
)

// DataRepo flushes one analytic's slot to disk. It snapshots and clears
// the slot under its mutex, releases the lock, and only then touches the
// filesystem, so folding never waits on I/O.
type DataRepo struct {
	name      string
	slot      *Slot
	path      string
	timesPath string
	delim     byte
}

// NewDataRepo binds a slot to its output file. The latency table lands
// next to it under a times_ prefix.
func NewDataRepo(name string, slot *Slot, outputDir string, delim byte) *DataRepo {
	if delim == 0 {
		delim = ';'
	}
	return &DataRepo{
		name:      name,
		slot:      slot,
		path:      filepath.Join(outputDir, name+".csv"),
		timesPath: filepath.Join(outputDir, "times_"+name+".csv"),
		delim:     delim,
	}
}

// OnTimeTick writes the current result and latency tables, then leaves
// the slot empty for the next accumulation window.
func (d *DataRepo) OnTimeTick() {
	result, times := d.slot.Take()
	if result == nil {
		slog.Warn("No data to flush", slog.String("analytic", d.name))
		return
	}
	if err := source.WriteCSV(result, d.path, d.delim); err != nil {
		slog.Error("Failed to write result",
			slog.String("analytic", d.name),
			slog.String("path", d.path),
			slog.Any("error", err))
		return
	}
	if times != nil {
		if err := source.WriteCSV(times, d.timesPath, d.delim); err != nil {
			slog.Error("Failed to write latency samples",
				slog.String("analytic", d.name),
				slog.String("path", d.timesPath),
				slog.Any("error", err))
		}
	}
	slog.Info("Flushed analytic",
		slog.String("analytic", d.name),
		slog.Int("rows", result.NumRows()))
	recordFlush(d.name)
}

// OnRequestTick is a no-op; flushing is purely time-driven.
func (d *DataRepo) OnRequestTick() {}
