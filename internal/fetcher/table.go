package fetcher

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Row is one record of a tabular snapshot, keyed by header name.
type Row map[string]string

// Get returns the trimmed value of a column; missing columns are "".
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Table is a decoded tabular snapshot. Reference tables are small (tens of
// rows), so decoding is eager rather than streamed.
type Table []Row

// CSVOptions configures the CSV decoder.
type CSVOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character, 0 = none
}

// DecodeCSV reads a header-rowed CSV document into a Table. Short rows pad
// with empty strings; extra cells are dropped.
func DecodeCSV(r io.Reader, opts CSVOptions) (Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("fetcher: csv document is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var table Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: csv row")
		}
		table = append(table, rowFromCells(header, record))
	}
}

// XLSXOptions configures the XLSX decoder.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// DecodeXLSX reads one worksheet into a Table using its first row as the
// header.
func DecodeXLSX(path string, opts XLSXOptions) (Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open xlsx")
	}

	sheet, err := pickSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("fetcher: xlsx sheet is empty")
	}

	header := cellStrings(sheet.Rows[0])
	table := make(Table, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		table = append(table, rowFromCells(header, cellStrings(row)))
	}
	return table, nil
}

// DecodeJSON decodes a whole JSON snapshot document.
func DecodeJSON[T any](r io.Reader) (*T, error) {
	var doc T
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, eris.Wrap(err, "fetcher: decode json")
	}
	return &doc, nil
}

func pickSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("fetcher: xlsx sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("fetcher: xlsx sheet index %d out of range (%d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func cellStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = strings.TrimSpace(cell.String())
	}
	return cells
}

func rowFromCells(header, cells []string) Row {
	row := make(Row, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		if i < len(cells) {
			row[h] = strings.TrimSpace(cells[i])
		} else {
			row[h] = ""
		}
	}
	return row
}
