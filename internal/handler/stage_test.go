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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/shoprunner/frame"
	"github.com/cardinalhq/shoprunner/internal/queue"
)

func logBatch(t *testing.T) *frame.Table {
	t.Helper()
	tbl, err := frame.New("timestamp", "type", "content", "extra_1", "extra_2")
	require.NoError(t, err)
	for _, r := range [][]frame.Value{
		{frame.Int32(1), frame.String("User"), frame.String("x"), frame.String("ZOOM"), frame.String("P1")},
		{frame.Int32(1), frame.String("User"), frame.String("x"), frame.String("ZOOM"), frame.String("P2")},
		{frame.Int32(1), frame.String("Audit"), frame.String("y"), frame.String("BUY"), frame.String("P1")},
		{frame.Int32(1), frame.String("User"), frame.String("x"), frame.String("SCROLL"), frame.String("P2")},
	} {
		require.NoError(t, tbl.AddRow(r...))
	}
	return tbl
}

func runStage(op Op, inputs ...*frame.Table) []*queue.Queue[*frame.Table] {
	in := queue.New[*frame.Table](len(inputs) + 1)
	out1 := queue.New[*frame.Table](len(inputs) + 1)
	out2 := queue.New[*frame.Table](len(inputs) + 1)
	for _, t := range inputs {
		_ = in.Push(t)
	}
	in.Close()
	NewStage(op, in, out1, out2).Run()
	return []*queue.Queue[*frame.Table]{out1, out2}
}

func TestCopyFanOutIsolation(t *testing.T) {
	src := logBatch(t)
	outs := runStage(CopyOp{}, src)

	a, err := outs[0].Pop()
	require.NoError(t, err)
	b, err := outs[1].Pop()
	require.NoError(t, err)

	// Mutating one output must not affect the other or the input.
	require.NoError(t, a.DropRow(0))
	assert.Equal(t, 3, a.NumRows())
	assert.Equal(t, 4, b.NumRows())
	assert.Equal(t, 4, src.NumRows())
}

func TestFilterStage(t *testing.T) {
	outs := runStage(FilterOp{Column: "type", Probe: frame.String("User"), Cmp: frame.Equal}, logBatch(t))
	got, err := outs[0].Pop()
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumRows())
}

func TestCountLinesStage(t *testing.T) {
	src := logBatch(t)
	src.SetTimestampMs(777)
	outs := runStage(CountLinesOp{}, src)
	got, err := outs[0].Pop()
	require.NoError(t, err)
	require.Equal(t, 1, got.NumRows())
	v, err := got.Sum("Count")
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.Int())
	assert.Equal(t, int64(777), got.TimestampMs())
}

func TestValueCountStage(t *testing.T) {
	outs := runStage(ValueCountOp{Column: "extra_2"}, logBatch(t))
	got, err := outs[0].Pop()
	require.NoError(t, err)
	assert.Equal(t, []string{"Value", "Count"}, got.ColumnNames())
	assert.Equal(t, 2, got.NumRows())
}

func TestSortStage(t *testing.T) {
	tbl, err := frame.New("Value", "Count")
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow(frame.String("P1"), frame.Int32(3)))
	require.NoError(t, tbl.AddRow(frame.String("P2"), frame.Int32(1)))
	require.NoError(t, tbl.AddRow(frame.String("P3"), frame.Int32(2)))

	outs := runStage(SortOp{Column: "Count", Ascending: true}, tbl)
	got, err := outs[0].Pop()
	require.NoError(t, err)
	col, err := got.Column("Count")
	require.NoError(t, err)
	for i, want := range []string{"1", "2", "3"} {
		s, err := col.StringAt(i)
		require.NoError(t, err)
		assert.Equal(t, want, s)
	}
}

func TestLeftJoinStage(t *testing.T) {
	right, err := frame.New("extra_2", "price")
	require.NoError(t, err)
	require.NoError(t, right.AddRow(frame.String("P1"), frame.Int32(10)))
	require.NoError(t, right.AddRow(frame.String("P2"), frame.Int32(20)))

	outs := runStage(LeftJoinOp{Right: right, Key: "extra_2", DropKey: false}, logBatch(t))
	got, err := outs[0].Pop()
	require.NoError(t, err)
	assert.Equal(t, 4, got.NumRows())
	_, err = got.Column("price")
	require.NoError(t, err)
}

func TestStageDropsBadBatchAndContinues(t *testing.T) {
	good := logBatch(t)
	bad, err := frame.New("unrelated")
	require.NoError(t, err)
	require.NoError(t, bad.AddRow(frame.Int32(1)))

	outs := runStage(FilterOp{Column: "type", Probe: frame.String("User"), Cmp: frame.Equal}, bad, good)

	// The bad batch is dropped; the good one still flows.
	got, err := outs[0].Pop()
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumRows())
	_, err = outs[0].Pop()
	assert.ErrorIs(t, err, queue.ErrClosed)
}

func TestStageClosesOutputsOnInputClose(t *testing.T) {
	outs := runStage(CopyOp{})
	_, err := outs[0].Pop()
	assert.ErrorIs(t, err, queue.ErrClosed)
	_, err = outs[1].Pop()
	assert.ErrorIs(t, err, queue.ErrClosed)
}

func TestMergeAndSumStage(t *testing.T) {
	a, err := frame.New("Count")
	require.NoError(t, err)
	require.NoError(t, a.AddRow(frame.Int32(2)))
	b, err := frame.New("Count")
	require.NoError(t, err)
	require.NoError(t, b.AddRow(frame.Int32(5)))

	trigger, err := frame.New("x")
	require.NoError(t, err)
	require.NoError(t, trigger.AddRow(frame.Int32(0)))

	outs := runStage(MergeAndSumOp{A: a, B: b, Key: "", SumCol: "Count"}, trigger)
	got, err := outs[0].Pop()
	require.NoError(t, err)
	v, err := got.Sum("Count")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int())
}
