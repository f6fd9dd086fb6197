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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardinalhq/shoprunner/frame"
)

// WriteCSV serializes the table to path: header line followed by one row
// per line, no quoting, same separator as ingestion. The write is atomic
// — a temp file in the target directory renamed over the destination.
func WriteCSV(t *frame.Table, path string, delim byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shoprunner-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	if err := writeDelimited(w, t, delim); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

func writeDelimited(w *bufio.Writer, t *frame.Table, delim byte) error {
	names := t.ColumnNames()
	if _, err := w.WriteString(strings.Join(names, string(delim))); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	for i := range t.NumRows() {
		for j, n := range names {
			if j > 0 {
				if err := w.WriteByte(delim); err != nil {
					return err
				}
			}
			col, err := t.Column(n)
			if err != nil {
				return err
			}
			s, err := col.StringAt(i)
			if err != nil {
				return err
			}
			if _, err := w.WriteString(s); err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// WriteText dumps the table's tab-separated rendering, for debugging
// sinks that do not need to round-trip.
func WriteText(t *frame.Table, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shoprunner-*.txt")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(t.String()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}
