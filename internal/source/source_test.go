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

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/shoprunner/frame"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractCSVFileInfersTypes(t *testing.T) {
	path := writeFile(t, "products.csv",
		"id;name;price;grade\n2000001;widget;19.5;A\n2000002;gadget;7.25;B\n")

	tbl, err := ExtractCSVFile(path, ';')
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"id", "name", "price", "grade"}, tbl.ColumnNames())

	tests := []struct {
		col  string
		kind frame.Kind
	}{
		{"id", frame.KindInt32},
		{"name", frame.KindString},
		{"price", frame.KindFloat32},
		{"grade", frame.KindChar},
	}
	for _, tt := range tests {
		col, err := tbl.Column(tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.kind, col.Kind(), "column %q", tt.col)
	}
}

func TestExtractCSVFileWideIntegersWiden(t *testing.T) {
	path := writeFile(t, "orders.csv", "ts\n1700000000000\n")
	tbl, err := ExtractCSVFile(path, ';')
	require.NoError(t, err)
	col, err := tbl.Column("ts")
	require.NoError(t, err)
	assert.Equal(t, frame.KindInt64, col.Kind())
}

func TestExtractCSVFileStopsOnEmptyCell(t *testing.T) {
	path := writeFile(t, "users.csv",
		"id;name\n1;Alice\n2;\n3;Carol\n")

	tbl, err := ExtractCSVFile(path, ';')
	require.NoError(t, err)
	// The empty-cell row is dropped and everything after it is skipped.
	assert.Equal(t, 1, tbl.NumRows())
}

func TestExtractTextFileKeepsGoing(t *testing.T) {
	path := writeFile(t, "events.log",
		"timestamp;type;content;extra_1;extra_2\n1;User;x;ZOOM;P1\n2;Audit;y;BUY;P2\n")

	tbl, err := ExtractTextFile(path, ';')
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestExtractTextFileSkipsUnparsableRows(t *testing.T) {
	// The qty column is inferred int32 from the first data row; the empty
	// and non-numeric cells later must drop only their own rows.
	path := writeFile(t, "events.log",
		"timestamp;qty\n1;10\n2;\n3;lots\n4;40\n")

	tbl, err := ExtractTextFile(path, ';')
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())

	col, err := tbl.Column("qty")
	require.NoError(t, err)
	for i, want := range []string{"10", "40"} {
		s, err := col.StringAt(i)
		require.NoError(t, err)
		assert.Equal(t, want, s)
	}
}

func TestExtractLinesSkipsUnparsableRows(t *testing.T) {
	tbl, err := ExtractLines([]string{
		"timestamp;type",
		"1;User",
		";User",
		"2;Audit",
	}, ';')
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestExtractLines(t *testing.T) {
	lines := []string{
		"timestamp;type;content;extra_1;extra_2",
		"1;User;x;ZOOM;P1",
		"1;User;x;ZOOM;P2\n",
	}
	tbl, err := ExtractLines(lines, ';')
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())

	_, err = ExtractLines(nil, ';')
	assert.ErrorIs(t, err, ErrParseBad)
}

func TestExtractRejectsRaggedRows(t *testing.T) {
	path := writeFile(t, "bad.csv", "a;b\n1;2;3\n")
	_, err := ExtractCSVFile(path, ';')
	assert.ErrorIs(t, err, ErrParseBad)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl, err := frame.New("Value", "Count")
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow(frame.String("P1"), frame.Int32(3)))
	require.NoError(t, tbl.AddRow(frame.String("P2"), frame.Int32(1)))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(tbl, path, ';'))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Value;Count\nP1;3\nP2;1\n", string(data))

	back, err := ExtractCSVFile(path, ';')
	require.NoError(t, err)
	assert.Equal(t, tbl.String(), back.String())
}

func TestWriteCSVIsAtomic(t *testing.T) {
	tbl, err := frame.New("v")
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow(frame.Int32(1)))

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteCSV(tbl, path, ';'))

	// No stray temp files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())
}
