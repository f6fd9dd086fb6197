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

// Package sink accumulates each analytic's current result and flushes it
// to disk on trigger ticks.
package sink

import (
	"sync"
	"time"

	"github.com/cardinalhq/shoprunner/frame"
)

// Slot holds the currently accumulated result table for one analytic,
// plus a table of per-arrival pipeline latencies, both guarded by one
// mutex. Fold is called by the pipeline's merge task; Take by the
// DataRepo on flush ticks.
type Slot struct {
	mu    sync.Mutex
	table *frame.Table
	times *frame.Table
}

// NewSlot creates an empty slot.
func NewSlot() *Slot { return &Slot{} }

// Fold merges an arriving table into the slot. Single-column arrivals
// fold as a grand total on Count; two-column arrivals group by Value.
// Each arrival also contributes one latency sample of now minus the
// table's ingest timestamp.
func (s *Slot) Fold(t *frame.Table) error {
	now := time.Now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.times == nil {
		times, err := frame.New("time")
		if err != nil {
			return err
		}
		s.times = times
	}
	if err := s.times.AddRow(frame.Int64(now - t.TimestampMs())); err != nil {
		return err
	}

	if s.table == nil {
		s.table = t
		return nil
	}
	var merged *frame.Table
	var err error
	if t.NumCols() == 1 {
		merged, err = frame.MergeAndSum(s.table, t, "", "Count")
	} else {
		merged, err = frame.MergeAndSum(s.table, t, "Value", "Count")
	}
	if err != nil {
		return err
	}
	s.table = merged
	return nil
}

// HasResult reports whether anything has folded since the last Take.
func (s *Slot) HasResult() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table != nil
}

// FoldCount returns the number of arrivals folded since the last Take.
func (s *Slot) FoldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.times == nil {
		return 0
	}
	return s.times.NumRows()
}

// Take snapshots and clears the slot. Either return may be nil when
// nothing arrived since the previous flush.
func (s *Slot) Take() (result, times *frame.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, times = s.table, s.times
	s.table, s.times = nil, nil
	return result, times
}
