// Copyright 2025 AscendedCode

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table implements a simple row container which can be written out
// as CSV or as readable aligned text.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Table container.
//
// A typical use:
//
//	type MyRow struct {
//	  Period string
//	  Value  float64
//	}
//
//	func (r MyRow) CSV() []string {
//	  return []string{r.Period, fmt.Sprintf("%g", r.Value)}
//	}
//	t := NewTable("period", "value")
//	t.AddRow(MyRow{"2024-01", 42.0})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a new Table instance with optional column headers. When
// present, the number of headers is expected to match the row width.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// WriteCSV writes the entire table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// trim cuts a cell to the maximum column width, marking the cut with "...".
func trim(s string, width int) string {
	if width == 0 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

// WriteText writes the table as text with aligned columns.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	var cells [][]string
	if !p.NoHeader && len(t.Header) > 0 {
		cells = append(cells, t.Header)
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		cells = append(cells, r.CSV())
	}
	var widths []int
	for _, row := range cells {
		if len(row) == 0 {
			return errors.Reason("row size = 0")
		}
		if widths == nil {
			widths = make([]int, len(row))
		}
		if len(row) != len(widths) {
			return errors.Reason("row size [%d] != expected size [%d]",
				len(row), len(widths))
		}
		for i, c := range row {
			c = trim(c, p.MaxColWidth)
			if widths[i] < len(c) {
				widths[i] = len(c)
			}
		}
	}
	for _, row := range cells {
		line := make([]string, len(row))
		for i, c := range row {
			line[i] = fmt.Sprintf("%-*s", widths[i], trim(c, p.MaxColWidth))
		}
		s := strings.TrimRight(strings.Join(line, "  "), " ") + "\n"
		if _, err := io.WriteString(w, s); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
