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
	"strconv"
	"strings"
)

// Kind identifies the element type of a Value or Column.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindChar
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindChar:
		return "char"
	default:
		return "null"
	}
}

// Arithmetic reports whether sum/mean are defined for the kind.
func (k Kind) Arithmetic() bool {
	switch k {
	case KindInt32, KindInt64, KindFloat32, KindFloat64:
		return true
	}
	return false
}

// Value is a tagged cell. The zero Value has KindNull.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	r    rune
}

// Null returns the untyped null value.
func Null() Value { return Value{} }

func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }

func Char(v rune) Value { return Value{kind: KindChar, r: v} }

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value carries no tag.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload widened to int64.
func (v Value) Int() int64 { return v.i }

// Float returns the floating payload widened to float64.
func (v Value) Float() float64 { return v.f }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// Rune returns the character payload.
func (v Value) Rune() rune { return v.r }

// Zero returns the zero value of kind k. Appending a null to a typed
// column stores this value.
func Zero(k Kind) Value {
	switch k {
	case KindInt32:
		return Int32(0)
	case KindInt64:
		return Int64(0)
	case KindFloat32:
		return Float32(0)
	case KindFloat64:
		return Float64(0)
	case KindString:
		return String("")
	case KindChar:
		return Char(0)
	default:
		return Null()
	}
}

// String renders the value with canonical decimal formatting, no locale.
func (v Value) String() string {
	switch v.kind {
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'f', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindChar:
		return string(v.r)
	default:
		return ""
	}
}

// Equal reports tagged equality: both kind and payload must match.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt32, KindInt64:
		return v.i == o.i
	case KindFloat32, KindFloat64:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindChar:
		return v.r == o.r
	default:
		return true
	}
}

// Compare orders v against o, returning <0, 0 or >0. Integer kinds
// promote to int64 and float kinds to float64 before comparison; any
// other cross-kind comparison fails with ErrTypeMismatch. Characters
// compare as one-character strings.
func (v Value) Compare(o Value) (int, error) {
	switch {
	case v.kind == o.kind:
	case v.kind.isInteger() && o.kind.isInteger():
	case v.kind.isFloat() && o.kind.isFloat():
	default:
		return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, v.kind, o.kind)
	}
	switch {
	case v.kind.isInteger():
		switch {
		case v.i < o.i:
			return -1, nil
		case v.i > o.i:
			return 1, nil
		}
		return 0, nil
	case v.kind.isFloat():
		switch {
		case v.f < o.f:
			return -1, nil
		case v.f > o.f:
			return 1, nil
		}
		return 0, nil
	case v.kind == KindString:
		return strings.Compare(v.s, o.s), nil
	case v.kind == KindChar:
		return strings.Compare(string(v.r), string(o.r)), nil
	default:
		return 0, nil
	}
}

func (k Kind) isInteger() bool { return k == KindInt32 || k == KindInt64 }
func (k Kind) isFloat() bool   { return k == KindFloat32 || k == KindFloat64 }

// CompareOp selects the predicate applied by Table.FilterByColumn.
type CompareOp uint8

const (
	Equal CompareOp = iota
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

func (op CompareOp) String() string {
	switch op {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case LessOrEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// eval applies op to the ordering of a against b.
func (op CompareOp) eval(a, b Value) (bool, error) {
	c, err := a.Compare(b)
	if err != nil {
		return false, err
	}
	switch op {
	case Equal:
		return c == 0, nil
	case NotEqual:
		return c != 0, nil
	case Less:
		return c < 0, nil
	case LessOrEqual:
		return c <= 0, nil
	case Greater:
		return c > 0, nil
	case GreaterOrEqual:
		return c >= 0, nil
	default:
		return false, fmt.Errorf("%w: unknown compare op %d", ErrUnsupported, op)
	}
}
