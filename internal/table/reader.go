package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyFile is returned when a sample file has no header row.
var ErrEmptyFile = errors.New("file has no header row")

// FromRows builds a raw table from a header row and data rows.
//
// Blank header cells become "Unnamed: <index>" and repeated header text is
// suffixed ".1", ".2", ... so every column name is unique. Short rows are
// padded with nulls; cells beyond the header width are ignored. Each cell is
// typed with ParseCell.
func FromRows(header []string, rows [][]string) *Table {
	return fromCells(header, len(rows), func(i, j int) Value {
		if j < len(rows[i]) {
			return ParseCell(rows[i][j])
		}
		return Null()
	})
}

// fromCells builds a table of n rows under header, reading each cell from
// cell(row, column).
func fromCells(header []string, n int, cell func(i, j int) Value) *Table {
	names := headerNames(header)
	t := New(n)
	for j, name := range names {
		values := make([]Value, n)
		for i := range values {
			values[i] = cell(i, j)
		}
		t.index[name] = len(t.cols)
		t.cols = append(t.cols, NewColumn(name, values))
	}
	return t
}

func headerNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			base := name
			n := suffix[base]
			for {
				n++
				name = base + "." + strconv.Itoa(n)
				if !used[name] {
					break
				}
			}
			suffix[base] = n
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// ReadCSV reads a comma-separated sample file. The first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(Sanitize(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rec)
	}
	return FromRows(header, rows), nil
}

// ReadXLSX reads the first worksheet of an Excel workbook. The first row is
// the header. Cells are read at their stored precision, not as displayed,
// and numbers in date-formatted cells become times.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	dates := newDateCells(f, sheet)
	data := rows[1:]
	return fromCells(rows[0], len(data), func(i, j int) Value {
		if j >= len(data[i]) {
			return Null()
		}
		v := ParseCell(data[i][j])
		serial, ok := v.Float64()
		if !ok {
			return v
		}
		// Data starts on sheet row 2.
		cell, err := excelize.CoordinatesToCellName(j+1, i+2)
		if err != nil || !dates.isDate(cell) {
			return v
		}
		ts, err := excelize.ExcelDateToTime(serial, dates.date1904)
		if err != nil {
			return v
		}
		return Time(ts.UTC().Round(time.Millisecond))
	}), nil
}

// builtInDateFormats are the built-in number format IDs that display dates
// or times.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// numFmtLiteral matches quoted text, escaped characters, and bracketed
// sections such as colors in a number format code.
var numFmtLiteral = regexp.MustCompile(`"[^"]*"|\\.|\[[^\]]*\]`)

// dateCells reports which cells of a sheet carry a date number format.
// Results are cached per style.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	byStyle  map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, byStyle: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *dateCells) isDate(cell string) bool {
	idx, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if is, ok := d.byStyle[idx]; ok {
		return is
	}
	style, err := d.f.GetStyle(idx)
	is := err == nil && isDateFormat(style)
	d.byStyle[idx] = is
	return is
}

func isDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return isDateCode(*style.CustomNumFmt)
	}
	return builtInDateFormats[style.NumFmt]
}

// isDateCode reports whether a custom number format code renders a date or
// time part.
func isDateCode(code string) bool {
	code = strings.ToLower(numFmtLiteral.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "ydmhs")
}

// WriteCSV writes the table with a header row. Nulls are written as empty cells.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	rec := make([]string, t.Width())
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.cols {
			rec[j] = c.Values[i].Text()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
