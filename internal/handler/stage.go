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

package handler

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/cardinalhq/shoprunner/frame"
	"github.com/cardinalhq/shoprunner/internal/queue"
)

// Stage binds an operator to one input queue and an ordered list of
// output queues.
type Stage struct {
	op   Op
	in   *queue.Queue[*frame.Table]
	outs []*queue.Queue[*frame.Table]

	// busy serializes Drain passes so FIFO order survives overlapping
	// tick submissions.
	busy sync.Mutex
}

// NewStage creates a stage. The output list may be empty for terminal
// probes, though the assembler always wires at least one.
func NewStage(op Op, in *queue.Queue[*frame.Table], outs ...*queue.Queue[*frame.Table]) *Stage {
	return &Stage{op: op, in: in, outs: outs}
}

// Op returns the stage's operator.
func (s *Stage) Op() Op { return s.op }

// Run loops until the input queue closes: pop one table, apply the
// operator, fan the result out. Operator errors drop the offending batch
// and the loop continues. When the input closes, the stage closes its
// output queues so termination cascades down the graph.
func (s *Stage) Run() {
	defer func() {
		for _, out := range s.outs {
			out.Close()
		}
	}()
	for {
		t, err := s.in.Pop()
		if err != nil {
			return
		}
		out, err := s.op.Apply(t)
		if err != nil {
			slog.Warn("Operator failed, dropping batch",
				slog.String("op", s.op.Name()),
				slog.Any("error", err))
			recordBatchDropped(s.op.Name())
			continue
		}
		if !s.fanOut(out) {
			return
		}
		recordTableProcessed(s.op.Name())
	}
}

// Drain processes the input queue until it is empty at the moment of the
// check, then returns. Used by tick-scoped resubmission instead of the
// streaming Run loop; a drain already in progress makes this a no-op.
func (s *Stage) Drain() {
	if !s.busy.TryLock() {
		return
	}
	defer s.busy.Unlock()
	for {
		t, ok := s.in.TryPop()
		if !ok {
			return
		}
		out, err := s.op.Apply(t)
		if err != nil {
			slog.Warn("Operator failed, dropping batch",
				slog.String("op", s.op.Name()),
				slog.Any("error", err))
			recordBatchDropped(s.op.Name())
			continue
		}
		if !s.fanOut(out) {
			return
		}
		recordTableProcessed(s.op.Name())
	}
}

// fanOut dispatches a deep copy of t to every output queue, so no two
// downstream handlers ever share a table. Returns false once any output
// queue has closed.
func (s *Stage) fanOut(t *frame.Table) bool {
	for _, out := range s.outs {
		if err := out.Push(t.Copy(true)); err != nil {
			if errors.Is(err, queue.ErrClosed) {
				return false
			}
		}
	}
	return true
}
