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

package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnAppendTypeInvariant(t *testing.T) {
	col := NewColumn("id", KindInt32)
	require.NoError(t, col.Append(Int32(1)))
	require.NoError(t, col.Append(Int32(2)))
	col.AppendNull()
	require.NoError(t, col.RemoveAt(0))
	require.NoError(t, col.Append(Int32(7)))

	err := col.Append(String("nope"))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	for i := range col.Len() {
		v, err := col.Value(i)
		require.NoError(t, err)
		assert.Equal(t, KindInt32, v.Kind())
	}
	assert.Equal(t, 3, col.Len())
}

func TestColumnAppendNullIsZero(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInt32, "0"},
		{KindInt64, "0"},
		{KindFloat32, "0"},
		{KindFloat64, "0"},
		{KindString, ""},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			col := NewColumn("c", tt.kind)
			col.AppendNull()
			s, err := col.StringAt(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestColumnRemoveAtShiftsLeft(t *testing.T) {
	col := NewColumn("v", KindString)
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, col.Append(String(s)))
	}
	require.NoError(t, col.RemoveAt(1))
	require.Equal(t, 2, col.Len())
	s, err := col.StringAt(1)
	require.NoError(t, err)
	assert.Equal(t, "c", s)

	err = col.RemoveAt(5)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestColumnSum(t *testing.T) {
	col := NewColumn("qty", KindInt32)
	for _, v := range []int32{3, 4, 5} {
		require.NoError(t, col.Append(Int32(v)))
	}
	sum, err := col.Sum()
	require.NoError(t, err)
	assert.Equal(t, KindInt32, sum.Kind())
	assert.Equal(t, int64(12), sum.Int())

	f := NewColumn("price", KindFloat32)
	require.NoError(t, f.Append(Float32(1.5)))
	require.NoError(t, f.Append(Float32(2.5)))
	fsum, err := f.Sum()
	require.NoError(t, err)
	assert.Equal(t, KindFloat64, fsum.Kind())
	assert.InDelta(t, 4.0, fsum.Float(), 1e-9)

	str := NewColumn("name", KindString)
	_, err = str.Sum()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestColumnMean(t *testing.T) {
	col := NewColumn("qty", KindInt64)
	for _, v := range []int64{2, 4} {
		require.NoError(t, col.Append(Int64(v)))
	}
	m, err := col.Mean()
	require.NoError(t, err)
	assert.InDelta(t, 3.0, m, 1e-9)

	empty := NewColumn("none", KindInt32)
	m, err = empty.Mean()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m))
	assert.NotEqual(t, 0.0, m)

	ch := NewColumn("grade", KindChar)
	_, err = ch.Mean()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestColumnUnique(t *testing.T) {
	col := NewColumn("product", KindString)
	for _, s := range []string{"P1", "P2", "P1", "P3", "P2"} {
		require.NoError(t, col.Append(String(s)))
	}
	u := col.Unique()
	assert.Equal(t, "product (Unique)", u.Name())
	require.Equal(t, 3, u.Len())
	for i, want := range []string{"P1", "P2", "P3"} {
		s, err := u.StringAt(i)
		require.NoError(t, err)
		assert.Equal(t, want, s)
	}
}

func TestColumnAppendFrom(t *testing.T) {
	src := NewColumn("a", KindInt32)
	require.NoError(t, src.Append(Int32(42)))

	dst := NewColumn("b", KindInt32)
	require.NoError(t, dst.AppendFrom(src, 0))
	v, err := dst.Value(0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int())

	wrong := NewColumn("c", KindString)
	assert.ErrorIs(t, wrong.AppendFrom(src, 0), ErrTypeMismatch)
}

func TestColumnCloneIsDeep(t *testing.T) {
	col := NewColumn("v", KindInt32)
	require.NoError(t, col.Append(Int32(1)))
	cl := col.Clone()
	require.NoError(t, cl.Append(Int32(2)))
	assert.Equal(t, 1, col.Len())
	assert.Equal(t, 2, cl.Len())
}

func TestColumnStringAtFormats(t *testing.T) {
	ch := NewColumn("grade", KindChar)
	require.NoError(t, ch.Append(Char('A')))
	s, err := ch.StringAt(0)
	require.NoError(t, err)
	assert.Equal(t, "A", s)

	f := NewColumn("ratio", KindFloat64)
	require.NoError(t, f.Append(Float64(2.5)))
	s, err = f.StringAt(0)
	require.NoError(t, err)
	assert.Equal(t, "2.5", s)
}

func TestColumnAppendString(t *testing.T) {
	col := NewColumn("qty", KindInt32)
	require.NoError(t, col.AppendString("17"))
	v, err := col.Value(0)
	require.NoError(t, err)
	assert.Equal(t, int64(17), v.Int())

	assert.ErrorIs(t, col.AppendString("seventeen"), ErrTypeMismatch)
	assert.Equal(t, 1, col.Len())
}
