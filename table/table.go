// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Table of rows with an optional header. When present, the header must have
// the same number of columns as each Row.
type Table struct {
	Header []string
	Rows   []Row
}

func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Params for writing Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // skip the header
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// lines of the table to write according to p, the header first.
func (t *Table) lines(p Params) [][]string {
	var res [][]string
	if !p.NoHeader && len(t.Header) > 0 {
		res = append(res, t.Header)
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		res = append(res, r.CSV())
	}
	return res
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.lines(p)); err != nil {
		return errors.Annotate(err, "failed to write CSV")
	}
	return nil
}

// columnWidths of the lines, capped at maxWidth when it's positive.
func columnWidths(lines [][]string, maxWidth int) ([]int, error) {
	var widths []int
	for i, l := range lines {
		if len(l) == 0 {
			return nil, errors.Reason("line %d is empty", i)
		}
		if widths == nil {
			widths = make([]int, len(l))
		}
		if len(l) != len(widths) {
			return nil, errors.Reason("line %d has %d columns, expected %d",
				i, len(l), len(widths))
		}
		for j, s := range l {
			n := len([]rune(s))
			if maxWidth > 0 && n > maxWidth {
				n = maxWidth
			}
			if n > widths[j] {
				widths[j] = n
			}
		}
	}
	return widths, nil
}

// pad the cell to the width, right-aligned; longer cells are cut with "..".
func pad(s string, width int) string {
	if r := []rune(s); len(r) > width {
		s = string(r[:width-2]) + ".."
	}
	return fmt.Sprintf("%[2]*[1]s", s, width)
}

// WriteText writes the table as text with aligned columns, for ease of
// reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	lines := t.lines(p)
	widths, err := columnWidths(lines, p.MaxColWidth)
	if err != nil {
		return errors.Annotate(err, "failed to compute column widths")
	}
	hasHeader := !p.NoHeader && len(t.Header) > 0
	for i, l := range lines {
		cells := make([]string, len(l))
		for j, s := range l {
			cells[j] = pad(s, widths[j])
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " | ")); err != nil {
			return errors.Annotate(err, "failed to write line %d", i)
		}
		if i == 0 && hasHeader {
			for j, n := range widths {
				cells[j] = strings.Repeat("-", n)
			}
			if _, err := fmt.Fprintln(w, strings.Join(cells, " | ")); err != nil {
				return errors.Annotate(err, "failed to write header separator")
			}
		}
	}
	return nil
}

// Float formats x with prec significant digits, or "-" for NaN.
func Float(x float64, prec int) string {
	if math.IsNaN(x) {
		return "-"
	}
	return strconv.FormatFloat(x, 'g', prec, 64)
}

// Int formats n in decimal.
func Int(n int) string { return strconv.Itoa(n) }
