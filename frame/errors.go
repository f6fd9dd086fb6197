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

import "errors"

var (
	// ErrTypeMismatch indicates a value whose kind does not match the
	// column's element kind, or an operation across differently typed cells.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrShape indicates a row whose width differs from the table's column count.
	ErrShape = errors.New("row width does not match column count")

	// ErrNotFound indicates a missing column.
	ErrNotFound = errors.New("column not found")

	// ErrOutOfRange indicates an index beyond the current size.
	ErrOutOfRange = errors.New("index out of range")

	// ErrSchemaMismatch indicates two tables whose schemas are incompatible.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnsupported indicates an arithmetic operation on a non-arithmetic column.
	ErrUnsupported = errors.New("unsupported operation for element kind")
)
