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
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Table is a rectangular, named-column, row-ordered dataset. Columns are
// owned by the table; fan-out across concurrent consumers must go through
// Copy. The timestamp carries the ingest time through the pipeline.
type Table struct {
	names    []string
	cols     map[string]*Column
	rows     int
	tsMillis int64
}

// New creates an empty table with the given column order. Column types
// are fixed lazily, either by the first AddRow or by AddColumn.
func New(names ...string) (*Table, error) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchemaMismatch, n)
		}
		seen[n] = struct{}{}
	}
	return &Table{
		names:    slices.Clone(names),
		cols:     make(map[string]*Column, len(names)),
		tsMillis: time.Now().UnixMilli(),
	}, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.names) }

// ColumnNames returns the column order.
func (t *Table) ColumnNames() []string { return slices.Clone(t.names) }

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return col, nil
}

// TimestampMs returns the table's ingest timestamp in milliseconds since epoch.
func (t *Table) TimestampMs() int64 { return t.tsMillis }

// SetTimestampMs overrides the ingest timestamp.
func (t *Table) SetTimestampMs(ms int64) { t.tsMillis = ms }

// AddRow appends one row. The value count must equal the column count.
// On the first value ever seen for a column, the value's kind fixes the
// column's element kind; a null value cannot fix a kind.
func (t *Table) AddRow(values ...Value) error {
	if len(values) != len(t.names) {
		return fmt.Errorf("%w: got %d values, want %d", ErrShape, len(values), len(t.names))
	}
	// Validate before mutating so a bad row leaves the table rectangular.
	for i, v := range values {
		col, ok := t.cols[t.names[i]]
		if !ok {
			if v.IsNull() {
				return fmt.Errorf("%w: null cannot fix the type of new column %q", ErrTypeMismatch, t.names[i])
			}
			continue
		}
		if !v.IsNull() && v.Kind() != col.Kind() {
			return fmt.Errorf("%w: column %q holds %s, got %s", ErrTypeMismatch, t.names[i], col.Kind(), v.Kind())
		}
	}
	for i, v := range values {
		name := t.names[i]
		col, ok := t.cols[name]
		if !ok {
			col = NewColumn(name, v.Kind())
			t.cols[name] = col
		}
		if v.IsNull() {
			col.AppendNull()
			continue
		}
		if err := col.Append(v); err != nil {
			return err
		}
	}
	t.rows++
	return nil
}

// AddColumn appends a new column filled with def for every existing row.
// The default value's kind fixes the column's element kind. A name
// declared by New but not yet typed keeps its declared position.
func (t *Table) AddColumn(name string, def Value) error {
	if _, exists := t.cols[name]; exists {
		return fmt.Errorf("%w: column %q already exists", ErrSchemaMismatch, name)
	}
	declared := slices.Contains(t.names, name)
	if def.IsNull() {
		return fmt.Errorf("%w: null cannot fix the type of new column %q", ErrTypeMismatch, name)
	}
	col := NewColumn(name, def.Kind())
	for range t.rows {
		if err := col.Append(def); err != nil {
			return err
		}
	}
	if !declared {
		t.names = append(t.names, name)
	}
	t.cols[name] = col
	return nil
}

// DropColumn removes the named column.
func (t *Table) DropColumn(name string) error {
	if _, ok := t.cols[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(t.cols, name)
	t.names = slices.DeleteFunc(t.names, func(n string) bool { return n == name })
	return nil
}

// DropRow removes row i from every column.
func (t *Table) DropRow(i int) error {
	if i < 0 || i >= t.rows {
		return fmt.Errorf("%w: row %d, rows %d", ErrOutOfRange, i, t.rows)
	}
	for _, name := range t.names {
		if col, ok := t.cols[name]; ok {
			if err := col.RemoveAt(i); err != nil {
				return err
			}
		}
	}
	t.rows--
	return nil
}

// FilterByColumn keeps only the rows whose cell in the named column
// satisfies op against probe. The probe's kind must match the column's
// element kind. Rows are scanned from the highest index downward so
// deletion never invalidates the remaining indices.
func (t *Table) FilterByColumn(name string, probe Value, op CompareOp) error {
	col, err := t.Column(name)
	if err != nil {
		return err
	}
	if probe.Kind() != col.Kind() {
		return fmt.Errorf("%w: column %q holds %s, probe is %s", ErrTypeMismatch, name, col.Kind(), probe.Kind())
	}
	for i := t.rows - 1; i >= 0; i-- {
		v, err := col.Value(i)
		if err != nil {
			return err
		}
		keep, err := op.eval(v, probe)
		if err != nil {
			return err
		}
		if !keep {
			if err := t.DropRow(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// SortByColumn stably sorts the whole table by the named column. Columns
// are reordered in place, so column handles obtained earlier see the new
// order.
func (t *Table) SortByColumn(name string, ascending bool) error {
	col, err := t.Column(name)
	if err != nil {
		return err
	}
	perm := make([]int, t.rows)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		va, _ := col.Value(perm[a])
		vb, _ := col.Value(perm[b])
		c, _ := va.Compare(vb)
		if ascending {
			return c < 0
		}
		return c > 0
	})
	for _, n := range t.names {
		src := t.cols[n]
		dst := src.emptyLike()
		for _, i := range perm {
			if err := dst.AppendFrom(src, i); err != nil {
				return err
			}
		}
		*src = *dst
	}
	return nil
}

// LeftJoin performs an equijoin against right on key, preserving every
// left row. Right rows are looked up by the key's string representation;
// when the same key occurs more than once on the right, the last
// occurrence wins. Unmatched left rows receive nulls for the right's
// non-key columns, which appear after the left's columns in right order.
func (t *Table) LeftJoin(right *Table, key string, dropKey bool) (*Table, error) {
	leftKey, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	rightKey, err := right.Column(key)
	if err != nil {
		return nil, err
	}
	if leftKey.Kind() != rightKey.Kind() {
		return nil, fmt.Errorf("%w: key %q is %s on the left, %s on the right",
			ErrTypeMismatch, key, leftKey.Kind(), rightKey.Kind())
	}

	rowByKey := make(map[string]int, right.NumRows())
	for i := range right.NumRows() {
		s, err := rightKey.StringAt(i)
		if err != nil {
			return nil, err
		}
		rowByKey[s] = i
	}

	out := t.Copy(true)
	for _, rname := range right.names {
		if rname == key {
			continue
		}
		if _, exists := out.cols[rname]; exists {
			return nil, fmt.Errorf("%w: column %q exists on both sides", ErrSchemaMismatch, rname)
		}
		rcol := right.cols[rname]
		joined := rcol.emptyLike()
		for i := range t.rows {
			s, err := leftKey.StringAt(i)
			if err != nil {
				return nil, err
			}
			if j, ok := rowByKey[s]; ok {
				if err := joined.AppendFrom(rcol, j); err != nil {
					return nil, err
				}
			} else {
				joined.AppendNull()
			}
		}
		out.names = append(out.names, rname)
		out.cols[rname] = joined
	}
	if dropKey {
		if err := out.DropColumn(key); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MergeOrdered merges two tables of identical schema, both sorted
// ascending by key, into a new sorted table. Keys are coerced to 64-bit
// signed integers before comparison; the left row wins ties.
func (t *Table) MergeOrdered(other *Table, key string) (*Table, error) {
	if err := t.schemaMatches(other); err != nil {
		return nil, err
	}
	leftKey, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	rightKey, err := other.Column(key)
	if err != nil {
		return nil, err
	}

	out := t.Copy(false)
	i, j := 0, 0
	for i < t.rows && j < other.rows {
		lv, err := intKeyAt(leftKey, i)
		if err != nil {
			return nil, err
		}
		rv, err := intKeyAt(rightKey, j)
		if err != nil {
			return nil, err
		}
		if lv <= rv {
			if err := out.appendRowFrom(t, i); err != nil {
				return nil, err
			}
			i++
		} else {
			if err := out.appendRowFrom(other, j); err != nil {
				return nil, err
			}
			j++
		}
	}
	for ; i < t.rows; i++ {
		if err := out.appendRowFrom(t, i); err != nil {
			return nil, err
		}
	}
	for ; j < other.rows; j++ {
		if err := out.appendRowFrom(other, j); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MergeAndSum groups a and b by keyCol and sums sumCol across both. With
// an empty keyCol the result is a single-row grand total. The result's
// timestamp is a's.
func MergeAndSum(a, b *Table, keyCol, sumCol string) (*Table, error) {
	if keyCol == "" {
		return mergeGrandTotal(a, b, sumCol)
	}
	for _, t := range []*Table{a, b} {
		if _, err := t.Column(keyCol); err != nil {
			return nil, err
		}
		sc, err := t.Column(sumCol)
		if err != nil {
			return nil, err
		}
		if !sc.Kind().isInteger() {
			return nil, fmt.Errorf("%w: sum column %q is %s, want an integer kind", ErrUnsupported, sumCol, sc.Kind())
		}
	}

	var order []string
	totals := make(map[string]int64)
	keyVals := make(map[string]Value)
	for _, t := range []*Table{a, b} {
		kc := t.cols[keyCol]
		sc := t.cols[sumCol]
		for i := range t.rows {
			ks, err := kc.StringAt(i)
			if err != nil {
				return nil, err
			}
			sv, err := sc.Value(i)
			if err != nil {
				return nil, err
			}
			if _, seen := totals[ks]; !seen {
				order = append(order, ks)
				kv, _ := kc.Value(i)
				keyVals[ks] = kv
			}
			totals[ks] += sv.Int()
		}
	}

	sumKind := a.cols[sumCol].Kind()
	out, err := New(keyCol, sumCol)
	if err != nil {
		return nil, err
	}
	for _, ks := range order {
		if err := out.AddRow(keyVals[ks], intOfKind(sumKind, totals[ks])); err != nil {
			return nil, err
		}
	}
	out.SetTimestampMs(a.TimestampMs())
	return out, nil
}

// mergeGrandTotal folds two tables into one row holding the combined sum.
func mergeGrandTotal(a, b *Table, sumCol string) (*Table, error) {
	var total int64
	var kind Kind
	for i, t := range []*Table{a, b} {
		sc, err := t.Column(sumCol)
		if err != nil {
			return nil, err
		}
		if !sc.Kind().isInteger() {
			return nil, fmt.Errorf("%w: sum column %q is %s, want an integer kind", ErrUnsupported, sumCol, sc.Kind())
		}
		if i == 0 {
			kind = sc.Kind()
		}
		sum, err := sc.Sum()
		if err != nil {
			return nil, err
		}
		total += sum.Int()
	}
	out, err := New(sumCol)
	if err != nil {
		return nil, err
	}
	if err := out.AddRow(intOfKind(kind, total)); err != nil {
		return nil, err
	}
	out.SetTimestampMs(a.TimestampMs())
	return out, nil
}

// Concat appends every row of other. Schemas must match exactly.
func (t *Table) Concat(other *Table) error {
	if err := t.schemaMatches(other); err != nil {
		return err
	}
	for i := range other.rows {
		if err := t.appendRowFrom(other, i); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a structurally independent table. With copyData false the
// schema is preserved but the copy has zero rows.
func (t *Table) Copy(copyData bool) *Table {
	out := &Table{
		names:    slices.Clone(t.names),
		cols:     make(map[string]*Column, len(t.names)),
		tsMillis: t.tsMillis,
	}
	for _, n := range t.names {
		if col, ok := t.cols[n]; ok {
			if copyData {
				out.cols[n] = col.Clone()
			} else {
				out.cols[n] = col.emptyLike()
			}
		}
	}
	if copyData {
		out.rows = t.rows
	}
	return out
}

// ValueCounts groups the named column by string representation and
// returns a {Value, Count} table, keys ascending.
func (t *Table) ValueCounts(name string) (*Table, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int32)
	for i := range t.rows {
		s, err := col.StringAt(i)
		if err != nil {
			return nil, err
		}
		counts[s]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out, err := New("Value", "Count")
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := out.AddRow(String(k), Int32(counts[k])); err != nil {
			return nil, err
		}
	}
	out.SetTimestampMs(t.tsMillis)
	return out, nil
}

// Sum totals the named column.
func (t *Table) Sum(name string) (Value, error) {
	col, err := t.Column(name)
	if err != nil {
		return Null(), err
	}
	return col.Sum()
}

// String renders the table as a tab-separated header plus one line per row.
func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.names, "\t"))
	sb.WriteByte('\n')
	for i := range t.rows {
		for j, n := range t.names {
			if j > 0 {
				sb.WriteByte('\t')
			}
			if col, ok := t.cols[n]; ok {
				s, _ := col.StringAt(i)
				sb.WriteString(s)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// appendRowFrom copies row i of src, which must share t's schema.
func (t *Table) appendRowFrom(src *Table, i int) error {
	for _, n := range t.names {
		dst, ok := t.cols[n]
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, n)
		}
		scol, ok := src.cols[n]
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, n)
		}
		if err := dst.AppendFrom(scol, i); err != nil {
			return err
		}
	}
	t.rows++
	return nil
}

// schemaMatches verifies identical column order and element kinds.
func (t *Table) schemaMatches(other *Table) error {
	if !slices.Equal(t.names, other.names) {
		return fmt.Errorf("%w: column order %v vs %v", ErrSchemaMismatch, t.names, other.names)
	}
	for _, n := range t.names {
		lc, lok := t.cols[n]
		rc, rok := other.cols[n]
		if !lok || !rok {
			continue
		}
		if lc.Kind() != rc.Kind() {
			return fmt.Errorf("%w: column %q is %s vs %s", ErrSchemaMismatch, n, lc.Kind(), rc.Kind())
		}
	}
	return nil
}

// intKeyAt coerces the key cell at index i to an int64.
func intKeyAt(col *Column, i int) (int64, error) {
	s, err := col.StringAt(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q is not integer-convertible", ErrTypeMismatch, s)
	}
	return n, nil
}

// intOfKind builds an integer value of the requested width.
func intOfKind(k Kind, v int64) Value {
	if k == KindInt64 {
		return Int64(v)
	}
	return Int32(int32(v))
}
