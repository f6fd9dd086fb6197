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

// Package ingest feeds the pipeline: a tick-driven directory monitor for
// file drops and a gRPC service for streamed log batches.
package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/cardinalhq/shoprunner/frame"
	"github.com/cardinalhq/shoprunner/internal/queue"
	"github.com/cardinalhq/shoprunner/internal/source"
)

// MonitorConfig wires the directory monitor to its drop directories and
// output queues.
type MonitorConfig struct {
	CSVDir     string
	LogDir     string
	RequestDir string

	// ReferenceFiles lists the file names expected in CSVDir on each tick.
	ReferenceFiles []string

	Delimiter byte

	RefQ *queue.Queue[*frame.Table]
	LogQ *queue.Queue[*frame.Table]
	ReqQ *queue.Queue[*frame.Table]
}

// Monitor scans the drop directories on trigger ticks and turns each new
// regular file into a table exactly once per process lifetime. There is
// no lockfile protocol; a file still being written when it is scanned is
// read as it stands at that moment and is not read again.
type Monitor struct {
	cfg MonitorConfig

	processedRef mapset.Set[string]
	processedLog mapset.Set[string]
	processedReq mapset.Set[string]
}

// NewMonitor creates a monitor with empty processed sets.
func NewMonitor(cfg MonitorConfig) *Monitor {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ';'
	}
	return &Monitor{
		cfg:          cfg,
		processedRef: mapset.NewSet[string](),
		processedLog: mapset.NewSet[string](),
		processedReq: mapset.NewSet[string](),
	}
}

// OnTimeTick ingests new reference CSVs and new log files.
func (m *Monitor) OnTimeTick() {
	for _, name := range m.cfg.ReferenceFiles {
		path := filepath.Join(m.cfg.CSVDir, name)
		if m.processedRef.Contains(path) || !isRegularFile(path) {
			continue
		}
		m.ingestFile(path, m.processedRef, m.cfg.RefQ, true)
	}
	for _, path := range newFiles(m.cfg.LogDir, m.processedLog) {
		m.ingestFile(path, m.processedLog, m.cfg.LogQ, false)
	}
}

// OnRequestTick ingests new request files.
func (m *Monitor) OnRequestTick() {
	for _, path := range newFiles(m.cfg.RequestDir, m.processedReq) {
		m.ingestFile(path, m.processedReq, m.cfg.ReqQ, false)
	}
}

func (m *Monitor) ingestFile(path string, processed mapset.Set[string], out *queue.Queue[*frame.Table], csvStrategy bool) {
	processed.Add(path)

	var tbl *frame.Table
	var err error
	if csvStrategy {
		tbl, err = source.ExtractCSVFile(path, m.cfg.Delimiter)
	} else {
		tbl, err = source.ExtractTextFile(path, m.cfg.Delimiter)
	}
	if err != nil {
		slog.Warn("Failed to extract file, skipping",
			slog.String("path", path),
			slog.Any("error", err))
		recordFileFailed()
		return
	}
	tbl.SetTimestampMs(time.Now().UnixMilli())

	batchID := uuid.New().String()
	if err := out.Push(tbl); err != nil {
		slog.Warn("Output queue closed, dropping file",
			slog.String("path", path),
			slog.String("batch_id", batchID))
		return
	}
	slog.Info("Ingested file",
		slog.String("path", path),
		slog.String("batch_id", batchID),
		slog.Int("rows", tbl.NumRows()))
	recordFileIngested()
}

// newFiles lists regular files in dir, non-recursive, whose paths have
// not been processed yet.
func newFiles(dir string, processed mapset.Set[string]) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("Failed to list directory", slog.String("dir", dir), slog.Any("error", err))
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if processed.Contains(path) {
			continue
		}
		out = append(out, path)
	}
	return out
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
