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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/shoprunner/frame"
)

func countTable(t *testing.T, n int32) *frame.Table {
	t.Helper()
	tbl, err := frame.New("Count")
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow(frame.Int32(n)))
	return tbl
}

func rankedTable(t *testing.T, pairs map[string]int32) *frame.Table {
	t.Helper()
	tbl, err := frame.New("Value", "Count")
	require.NoError(t, err)
	for _, k := range []string{"P1", "P2", "P3"} {
		if n, ok := pairs[k]; ok {
			require.NoError(t, tbl.AddRow(frame.String(k), frame.Int32(n)))
		}
	}
	return tbl
}

func TestSlotFoldsSingleColumnAsGrandTotal(t *testing.T) {
	s := NewSlot()
	require.NoError(t, s.Fold(countTable(t, 2)))
	require.NoError(t, s.Fold(countTable(t, 1)))

	result, times := s.Take()
	require.NotNil(t, result)
	v, err := result.Sum("Count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int())

	require.NotNil(t, times)
	assert.Equal(t, 2, times.NumRows())
}

func TestSlotFoldsTwoColumnsByKey(t *testing.T) {
	s := NewSlot()
	require.NoError(t, s.Fold(rankedTable(t, map[string]int32{"P1": 2, "P2": 1})))
	require.NoError(t, s.Fold(rankedTable(t, map[string]int32{"P1": 1, "P3": 2})))

	result, _ := s.Take()
	require.NotNil(t, result)
	require.NoError(t, result.SortByColumn("Count", true))

	var got [][2]string
	vc, _ := result.Column("Value")
	cc, _ := result.Column("Count")
	for i := range result.NumRows() {
		k, _ := vc.StringAt(i)
		n, _ := cc.StringAt(i)
		got = append(got, [2]string{k, n})
	}
	assert.Equal(t, [][2]string{{"P2", "1"}, {"P3", "2"}, {"P1", "3"}}, got)
}

func TestSlotTakeClears(t *testing.T) {
	s := NewSlot()
	require.NoError(t, s.Fold(countTable(t, 5)))

	result, times := s.Take()
	assert.NotNil(t, result)
	assert.NotNil(t, times)

	result, times = s.Take()
	assert.Nil(t, result)
	assert.Nil(t, times)
}

func TestDataRepoWritesAndClears(t *testing.T) {
	dir := t.TempDir()
	s := NewSlot()
	require.NoError(t, s.Fold(countTable(t, 7)))

	repo := NewDataRepo("CountView", s, dir, ';')
	repo.OnTimeTick()

	data, err := os.ReadFile(filepath.Join(dir, "CountView.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Count\n7\n", string(data))

	_, err = os.Stat(filepath.Join(dir, "times_CountView.csv"))
	require.NoError(t, err)

	// Slot is cleared; the next tick has nothing to write.
	result, _ := s.Take()
	assert.Nil(t, result)
}

func TestDataRepoEmptySlotWarnsAndSkips(t *testing.T) {
	dir := t.TempDir()
	repo := NewDataRepo("CountBuy", NewSlot(), dir, ';')
	repo.OnTimeTick()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDataRepoRequestTickIsNoOp(t *testing.T) {
	dir := t.TempDir()
	s := NewSlot()
	require.NoError(t, s.Fold(countTable(t, 1)))
	repo := NewDataRepo("ProdView", s, dir, ';')

	repo.OnRequestTick()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	result, _ := s.Take()
	assert.NotNil(t, result)
}
