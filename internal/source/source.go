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

// Package source parses delimited text into frame tables and serializes
// tables back out. Three extraction strategies exist: csv files (stop on
// the first row with an empty cell), plain text/log files, and in-memory
// line batches as delivered by the RPC ingress.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cardinalhq/shoprunner/frame"
)

// ErrParseBad indicates a malformed data row.
var ErrParseBad = errors.New("malformed row")

// ExtractCSVFile parses a delimited reference file. The first line is the
// header; column types are inferred from the first data row. A row with
// an empty cell is dropped with a warning and ingestion of the file stops
// at that point.
func ExtractCSVFile(path string, delim byte) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return extract(f, delim, true, path)
}

// ExtractTextFile parses a delimited log file. Same format as a CSV
// reference file, but an empty cell does not stop ingestion: a row whose
// cells fail the column's parse is skipped with a warning and the rest of
// the file is still read. A row whose cell count differs from the header
// fails the whole file.
func ExtractTextFile(path string, delim byte) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return extract(f, delim, false, path)
}

// ExtractLines parses an in-memory batch of delimited lines. The first
// element is the header. Trailing newlines on individual lines are
// tolerated.
func ExtractLines(lines []string, delim byte) (*frame.Table, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrParseBad)
	}
	joined := strings.Join(lines, "\n")
	return extract(strings.NewReader(joined), delim, false, "batch")
}

func extract(r io.Reader, delim byte, stopOnEmpty bool, name string) (*frame.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return nil, fmt.Errorf("%w: %s has no header", ErrParseBad, name)
	}
	header := strings.TrimRight(scanner.Text(), "\r\n")
	names := strings.Split(header, string(delim))
	tbl, err := frame.New(names...)
	if err != nil {
		return nil, err
	}

	var kinds []frame.Kind
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		cells := strings.Split(line, string(delim))
		if len(cells) != len(names) {
			return nil, fmt.Errorf("%w: %s: row has %d cells, header has %d", ErrParseBad, name, len(cells), len(names))
		}

		empty := 0
		for _, c := range cells {
			if c == "" {
				empty++
			}
		}
		if empty > 0 && stopOnEmpty {
			slog.Warn("Empty cells in row, dropping row and stopping ingestion",
				slog.String("source", name),
				slog.Int("emptyCells", empty),
				slog.String("row", line))
			break
		}

		if kinds == nil {
			kinds = make([]frame.Kind, len(cells))
			for i, c := range cells {
				kinds[i] = inferKind(c)
			}
		}
		row := make([]frame.Value, len(cells))
		rowErr := error(nil)
		for i, c := range cells {
			v, err := parseCell(c, kinds[i])
			if err != nil {
				rowErr = err
				break
			}
			row[i] = v
		}
		if rowErr == nil {
			rowErr = tbl.AddRow(row...)
		}
		if rowErr != nil {
			// Log and RPC batches keep going past a bad row; reference
			// files abort so a half-read table never circulates.
			if stopOnEmpty {
				return nil, fmt.Errorf("%w: %s: %v", ErrParseBad, name, rowErr)
			}
			slog.Warn("Skipping unparsable row",
				slog.String("source", name),
				slog.String("row", line),
				slog.Any("error", rowErr))
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return tbl, nil
}
