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

// Package handler holds the single-purpose pipeline operators. Each stage
// reads one input queue, applies its operator, and fans the result out to
// its output queues as deep copies.
package handler

import (
	"fmt"

	"github.com/cardinalhq/shoprunner/frame"
)

// Op transforms one table into the table dispatched downstream. Apply may
// mutate its input in place and return it.
type Op interface {
	Name() string
	Apply(t *frame.Table) (*frame.Table, error)
}

// CopyOp passes tables through unchanged; the stage's fan-out provides
// the per-queue deep copies.
type CopyOp struct{}

func (CopyOp) Name() string { return "copy" }

func (CopyOp) Apply(t *frame.Table) (*frame.Table, error) { return t, nil }

// FilterOp keeps the rows whose cell in Column satisfies Cmp against Probe.
type FilterOp struct {
	Column string
	Probe  frame.Value
	Cmp    frame.CompareOp
}

func (op FilterOp) Name() string {
	return fmt.Sprintf("filter(%s %s %s)", op.Column, op.Cmp, op.Probe)
}

func (op FilterOp) Apply(t *frame.Table) (*frame.Table, error) {
	if err := t.FilterByColumn(op.Column, op.Probe, op.Cmp); err != nil {
		return nil, err
	}
	return t, nil
}

// CountLinesOp reduces a table to a single-row {Count} table holding its
// row count.
type CountLinesOp struct{}

func (CountLinesOp) Name() string { return "countlines" }

func (CountLinesOp) Apply(t *frame.Table) (*frame.Table, error) {
	out, err := frame.New("Count")
	if err != nil {
		return nil, err
	}
	if err := out.AddRow(frame.Int32(int32(t.NumRows()))); err != nil {
		return nil, err
	}
	out.SetTimestampMs(t.TimestampMs())
	return out, nil
}

// ValueCountOp reduces a table to the value counts of Column.
type ValueCountOp struct {
	Column string
}

func (op ValueCountOp) Name() string { return fmt.Sprintf("valuecount(%s)", op.Column) }

func (op ValueCountOp) Apply(t *frame.Table) (*frame.Table, error) {
	return t.ValueCounts(op.Column)
}

// SortOp sorts a table in place by Column.
type SortOp struct {
	Column    string
	Ascending bool
}

func (op SortOp) Name() string { return fmt.Sprintf("sort(%s)", op.Column) }

func (op SortOp) Apply(t *frame.Table) (*frame.Table, error) {
	if err := t.SortByColumn(op.Column, op.Ascending); err != nil {
		return nil, err
	}
	return t, nil
}

// LeftJoinOp equijoins the streaming left table against a fixed right
// table captured at construction.
type LeftJoinOp struct {
	Right   *frame.Table
	Key     string
	DropKey bool
}

func (op LeftJoinOp) Name() string { return fmt.Sprintf("leftjoin(%s)", op.Key) }

func (op LeftJoinOp) Apply(t *frame.Table) (*frame.Table, error) {
	return t.LeftJoin(op.Right, op.Key, op.DropKey)
}

// MergeAndSumOp aggregates a fixed pair of tables, ignoring its input.
type MergeAndSumOp struct {
	A, B   *frame.Table
	Key    string
	SumCol string
}

func (op MergeAndSumOp) Name() string { return fmt.Sprintf("mergeandsum(%s,%s)", op.Key, op.SumCol) }

func (op MergeAndSumOp) Apply(_ *frame.Table) (*frame.Table, error) {
	return frame.MergeAndSum(op.A, op.B, op.Key, op.SumCol)
}
