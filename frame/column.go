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
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Column is a homogeneously typed series of values stored in a typed
// backing slice. Every stored value's tag equals the column's element
// kind; that invariant is enforced on every append.
type Column struct {
	name string
	kind Kind

	i32 []int32
	i64 []int64
	f32 []float32
	f64 []float64
	str []string
	chr []rune
}

// NewColumn creates an empty column of the given element kind.
func NewColumn(name string, kind Kind) *Column {
	return &Column{name: name, kind: kind}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the element kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of stored values.
func (c *Column) Len() int {
	switch c.kind {
	case KindInt32:
		return len(c.i32)
	case KindInt64:
		return len(c.i64)
	case KindFloat32:
		return len(c.f32)
	case KindFloat64:
		return len(c.f64)
	case KindString:
		return len(c.str)
	case KindChar:
		return len(c.chr)
	default:
		return 0
	}
}

// Append adds v to the column. The value's kind must equal the column's
// element kind.
func (c *Column) Append(v Value) error {
	if v.kind != c.kind {
		return fmt.Errorf("%w: column %q holds %s, got %s", ErrTypeMismatch, c.name, c.kind, v.kind)
	}
	switch c.kind {
	case KindInt32:
		c.i32 = append(c.i32, int32(v.i))
	case KindInt64:
		c.i64 = append(c.i64, v.i)
	case KindFloat32:
		c.f32 = append(c.f32, float32(v.f))
	case KindFloat64:
		c.f64 = append(c.f64, v.f)
	case KindString:
		c.str = append(c.str, v.s)
	case KindChar:
		c.chr = append(c.chr, v.r)
	default:
		return fmt.Errorf("%w: column %q has no element kind", ErrTypeMismatch, c.name)
	}
	return nil
}

// AppendNull appends the element kind's zero value.
func (c *Column) AppendNull() {
	_ = c.Append(Zero(c.kind))
}

// AppendString parses s according to the element kind and appends it.
func (c *Column) AppendString(s string) error {
	switch c.kind {
	case KindInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: column %q: %q is not an int32", ErrTypeMismatch, c.name, s)
		}
		return c.Append(Int32(int32(n)))
	case KindInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: column %q: %q is not an int64", ErrTypeMismatch, c.name, s)
		}
		return c.Append(Int64(n))
	case KindFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return fmt.Errorf("%w: column %q: %q is not a float32", ErrTypeMismatch, c.name, s)
		}
		return c.Append(Float32(float32(f)))
	case KindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%w: column %q: %q is not a float64", ErrTypeMismatch, c.name, s)
		}
		return c.Append(Float64(f))
	case KindString:
		return c.Append(String(s))
	case KindChar:
		if len(s) == 0 {
			return fmt.Errorf("%w: column %q: empty string is not a char", ErrTypeMismatch, c.name)
		}
		return c.Append(Char([]rune(s)[0]))
	default:
		return fmt.Errorf("%w: column %q has no element kind", ErrTypeMismatch, c.name)
	}
}

// AppendFrom appends other's value at index i. The columns must share
// an element kind.
func (c *Column) AppendFrom(other *Column, i int) error {
	if other.kind != c.kind {
		return fmt.Errorf("%w: column %q holds %s, source column %q holds %s",
			ErrTypeMismatch, c.name, c.kind, other.name, other.kind)
	}
	v, err := other.Value(i)
	if err != nil {
		return err
	}
	return c.Append(v)
}

// RemoveAt deletes the value at index i, shifting subsequent values left.
func (c *Column) RemoveAt(i int) error {
	if i < 0 || i >= c.Len() {
		return fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, c.Len())
	}
	switch c.kind {
	case KindInt32:
		c.i32 = slices.Delete(c.i32, i, i+1)
	case KindInt64:
		c.i64 = slices.Delete(c.i64, i, i+1)
	case KindFloat32:
		c.f32 = slices.Delete(c.f32, i, i+1)
	case KindFloat64:
		c.f64 = slices.Delete(c.f64, i, i+1)
	case KindString:
		c.str = slices.Delete(c.str, i, i+1)
	case KindChar:
		c.chr = slices.Delete(c.chr, i, i+1)
	}
	return nil
}

// Clear drops all values, keeping the element kind.
func (c *Column) Clear() {
	c.i32 = nil
	c.i64 = nil
	c.f32 = nil
	c.f64 = nil
	c.str = nil
	c.chr = nil
}

// Value returns the tagged value at index i.
func (c *Column) Value(i int) (Value, error) {
	if i < 0 || i >= c.Len() {
		return Null(), fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, c.Len())
	}
	switch c.kind {
	case KindInt32:
		return Int32(c.i32[i]), nil
	case KindInt64:
		return Int64(c.i64[i]), nil
	case KindFloat32:
		return Float32(c.f32[i]), nil
	case KindFloat64:
		return Float64(c.f64[i]), nil
	case KindString:
		return String(c.str[i]), nil
	case KindChar:
		return Char(c.chr[i]), nil
	default:
		return Null(), fmt.Errorf("%w: column %q has no element kind", ErrTypeMismatch, c.name)
	}
}

// StringAt returns the value at index i rendered as a string.
func (c *Column) StringAt(i int) (string, error) {
	v, err := c.Value(i)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Clone returns a structurally independent deep copy.
func (c *Column) Clone() *Column {
	return &Column{
		name: c.name,
		kind: c.kind,
		i32:  slices.Clone(c.i32),
		i64:  slices.Clone(c.i64),
		f32:  slices.Clone(c.f32),
		f64:  slices.Clone(c.f64),
		str:  slices.Clone(c.str),
		chr:  slices.Clone(c.chr),
	}
}

// emptyLike returns a zero-row column with the same name and kind.
func (c *Column) emptyLike() *Column {
	return NewColumn(c.name, c.kind)
}

// Sum totals the column. Integer kinds return an integer of the same
// width; float kinds return a float64.
func (c *Column) Sum() (Value, error) {
	switch c.kind {
	case KindInt32:
		var sum int32
		for _, v := range c.i32 {
			sum += v
		}
		return Int32(sum), nil
	case KindInt64:
		var sum int64
		for _, v := range c.i64 {
			sum += v
		}
		return Int64(sum), nil
	case KindFloat32:
		var sum float64
		for _, v := range c.f32 {
			sum += float64(v)
		}
		return Float64(sum), nil
	case KindFloat64:
		var sum float64
		for _, v := range c.f64 {
			sum += v
		}
		return Float64(sum), nil
	default:
		return Null(), fmt.Errorf("%w: sum of %s column %q", ErrUnsupported, c.kind, c.name)
	}
}

// Mean averages the column as a float64. An empty column yields NaN.
func (c *Column) Mean() (float64, error) {
	if !c.kind.Arithmetic() {
		return 0, fmt.Errorf("%w: mean of %s column %q", ErrUnsupported, c.kind, c.name)
	}
	n := c.Len()
	if n == 0 {
		return math.NaN(), nil
	}
	sum, err := c.Sum()
	if err != nil {
		return 0, err
	}
	if c.kind.isInteger() {
		return float64(sum.Int()) / float64(n), nil
	}
	return sum.Float() / float64(n), nil
}

// Unique returns a fresh column holding each value the first time it is
// seen, preserving first-occurrence order. The result's name carries a
// " (Unique)" suffix.
func (c *Column) Unique() *Column {
	out := NewColumn(c.name+" (Unique)", c.kind)
	seen := make(map[Value]struct{}, c.Len())
	for i := range c.Len() {
		v, _ := c.Value(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		_ = out.Append(v)
	}
	return out
}
