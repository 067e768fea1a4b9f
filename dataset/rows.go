// Package dataset loads transcript rows and price history from files on disk.
//
// Transcript rows come from JSON (an array of objects), JSON Lines, CSV or
// XLSX files; tabular formats use their first row as the header. Price
// history comes from CSV or XLSX tables.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/earncall/ingestion"
	"github.com/xuri/excelize/v2"
)

// Format identifies a dataset file format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// DetectFormat maps a file extension to its Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadRows reads every record of the dataset at path.
func LoadRows(path string) ([]ingestion.Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatXLSX {
		table, err := readXLSX(path)
		if err != nil {
			return nil, err
		}
		return tableToRows(table)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		return decodeJSON(f)
	case FormatJSONL:
		return decodeJSONLines(f)
	default:
		table, err := readCSV(f)
		if err != nil {
			return nil, err
		}
		return tableToRows(table)
	}
}

func decodeJSON(r io.Reader) ([]ingestion.Row, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", ErrInvalidValue, err)
	}
	rows := make([]ingestion.Row, len(records))
	for i, rec := range records {
		rows[i] = ingestion.Row(rec)
	}
	return rows, nil
}

func decodeJSONLines(r io.Reader) ([]ingestion.Row, error) {
	dec := json.NewDecoder(r)
	var rows []ingestion.Row
	for line := 1; ; line++ {
		var rec map[string]any
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidValue, line, err)
		}
		rows = append(rows, ingestion.Row(rec))
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", ErrInvalidValue, err)
	}
	return table, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrNoData)
	}
	sheet := sheets[0]

	// Raw values keep numbers unformatted; date cells hold serials that are
	// converted below.
	table, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	dates := newDateCells(f)
	for r, row := range table {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if converted, ok := dates.convert(sheet, cell, value); ok {
				row[c] = converted
			}
		}
	}
	return table, nil
}

// dateCells recognizes cells whose number format displays a date and turns
// their serial values into text ingestion.ParseDate accepts.
type dateCells struct {
	f          *excelize.File
	date1904   bool
	styleDates map[int]bool
}

func newDateCells(f *excelize.File) *dateCells {
	d := &dateCells{f: f, styleDates: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *dateCells) convert(sheet, cell, value string) (string, bool) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", false
	}
	styleID, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || !d.isDateStyle(styleID) {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly), true
	}
	return t.Format(time.DateTime), true
}

func (d *dateCells) isDateStyle(styleID int) bool {
	if isDate, ok := d.styleDates[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		switch {
		case style.CustomNumFmt != nil:
			isDate = isDateFormat(*style.CustomNumFmt)
		default:
			isDate = isBuiltInDateFormat(style.NumFmt)
		}
	}
	d.styleDates[styleID] = isDate
	return isDate
}

// isBuiltInDateFormat reports whether a built-in number format id shows a
// date: 14-17 and 22 are dates and datetimes, 27-36 and 50-58 are the East
// Asian date variants.
func isBuiltInDateFormat(id int) bool {
	return (id >= 14 && id <= 17) || id == 22 || (id >= 27 && id <= 36) || (id >= 50 && id <= 58)
}

// isDateFormat reports whether a custom format code contains a year or day
// token outside quoted literals and bracketed sections.
func isDateFormat(code string) bool {
	quoted, bracketed := false, false
	for i := 0; i < len(code); i++ {
		switch ch := code[i]; {
		case ch == '\\':
			i++
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '[':
			bracketed = true
		case ch == ']':
			bracketed = false
		case bracketed:
		case ch == 'y' || ch == 'Y' || ch == 'd' || ch == 'D':
			return true
		}
	}
	return false
}

// tableToRows keys each data row by the header. Short rows are padded
// with empty strings; fully blank rows are skipped.
func tableToRows(table [][]string) ([]ingestion.Row, error) {
	if len(table) == 0 {
		return nil, ErrNoData
	}
	header := make([]string, len(table[0]))
	for i, h := range table[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]ingestion.Row, 0, len(table)-1)
	for _, record := range table[1:] {
		if isBlank(record) {
			continue
		}
		row := make(ingestion.Row, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = record[i]
			}
			row[key] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
