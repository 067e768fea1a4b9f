package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/ingestion"
)

// PriceRecord is one price bar read from disk, keyed by company name
// because IDs are assigned only once the company is stored.
type PriceRecord struct {
	Company string
	Bar     core.PriceBar
}

// priceColumns lists the accepted header spellings per field.
var priceColumns = map[string][]string{
	"company": {"company", "company_name", "name"},
	"date":    {"date", "day"},
	"open":    {"open", "open_price"},
	"close":   {"close", "close_price"},
	"high":    {"high", "high_price"},
	"low":     {"low", "low_price"},
	"volume":  {"volume"},
}

// LoadPriceBars reads a company,date,open,close,high,low,volume table from a
// CSV or XLSX file. When company is non-empty the company column is optional
// and every row is attributed to it.
func LoadPriceBars(path, company string) ([]PriceRecord, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var table [][]string
	switch format {
	case FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		if table, err = readCSV(f); err != nil {
			return nil, err
		}
	case FormatXLSX:
		if table, err = readXLSX(path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: price history must be csv or xlsx", ErrUnsupportedFormat)
	}
	return parsePriceTable(table, company)
}

func parsePriceTable(table [][]string, company string) ([]PriceRecord, error) {
	if len(table) < 2 {
		return nil, ErrNoData
	}

	index := map[string]int{}
	for i, h := range table[0] {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for field, aliases := range priceColumns {
			for _, alias := range aliases {
				if name == alias {
					if _, seen := index[field]; !seen {
						index[field] = i
					}
				}
			}
		}
	}
	for _, field := range []string{"date", "open", "close", "high", "low", "volume"} {
		if _, ok := index[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}
	if _, ok := index["company"]; !ok && company == "" {
		return nil, fmt.Errorf("%w: company", ErrMissingColumn)
	}

	var out []PriceRecord
	for n, record := range table[1:] {
		if isBlank(record) {
			continue
		}
		line := n + 2
		cell := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		rec := PriceRecord{Company: company}
		if rec.Company == "" {
			rec.Company = cell("company")
		}
		date, err := ingestion.ParseDate(cell("date"))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidValue, line, err)
		}
		rec.Bar.Date = date

		prices := []struct {
			field string
			dst   *float64
		}{
			{"open", &rec.Bar.Open},
			{"close", &rec.Bar.Close},
			{"high", &rec.Bar.High},
			{"low", &rec.Bar.Low},
		}
		for _, p := range prices {
			if *p.dst, err = parseNumber(cell(p.field)); err != nil {
				return nil, fmt.Errorf("%w: line %d %s: %w", ErrInvalidValue, line, p.field, err)
			}
		}
		volume, err := parseNumber(cell("volume"))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d volume: %w", ErrInvalidValue, line, err)
		}
		rec.Bar.Volume = int64(volume)

		out = append(out, rec)
	}
	return out, nil
}

// parseNumber accepts plain and thousands-separated numbers. Empty cells read as zero.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
