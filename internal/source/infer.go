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
	"fmt"
	"strconv"
	"strings"

	"github.com/cardinalhq/shoprunner/frame"
)

// inferKind picks the narrowest kind that represents the cell: int32,
// int64, float32, char (single rune), then string.
func inferKind(cell string) frame.Kind {
	if isDigits(cell) {
		if _, err := strconv.ParseInt(cell, 10, 32); err == nil {
			return frame.KindInt32
		}
		return frame.KindInt64
	}
	if isDecimal(cell) {
		return frame.KindFloat32
	}
	if len([]rune(cell)) == 1 {
		return frame.KindChar
	}
	return frame.KindString
}

// isDigits reports whether the cell consists solely of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isDecimal reports whether the cell is digits with exactly one dot.
func isDecimal(s string) bool {
	if s == "" || strings.Count(s, ".") != 1 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// parseCell converts a cell to a value of the column's fixed kind.
func parseCell(cell string, kind frame.Kind) (frame.Value, error) {
	switch kind {
	case frame.KindInt32:
		n, err := strconv.ParseInt(cell, 10, 32)
		if err != nil {
			return frame.Null(), fmt.Errorf("%q is not an int32", cell)
		}
		return frame.Int32(int32(n)), nil
	case frame.KindInt64:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return frame.Null(), fmt.Errorf("%q is not an int64", cell)
		}
		return frame.Int64(n), nil
	case frame.KindFloat32:
		f, err := strconv.ParseFloat(cell, 32)
		if err != nil {
			return frame.Null(), fmt.Errorf("%q is not a float32", cell)
		}
		return frame.Float32(float32(f)), nil
	case frame.KindChar:
		runes := []rune(cell)
		if len(runes) != 1 {
			return frame.Null(), fmt.Errorf("%q is not a single character", cell)
		}
		return frame.Char(runes[0]), nil
	default:
		return frame.String(cell), nil
	}
}
