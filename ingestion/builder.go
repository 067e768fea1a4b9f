package ingestion

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/earncall/core"
)

// Row is one dataset record. Extra fields are ignored.
type Row map[string]any

// FieldKeys names the row fields holding a transcript's text, company and date.
type FieldKeys struct {
	Text    string
	Company string
	Date    string
}

// DefaultFieldKeys returns the field names used by the bundled datasets.
func DefaultFieldKeys() FieldKeys {
	return FieldKeys{
		Text:    "transcript",
		Company: "company",
		Date:    "date",
	}
}

func (k FieldKeys) withDefaults() FieldKeys {
	def := DefaultFieldKeys()
	if k.Text == "" {
		k.Text = def.Text
	}
	if k.Company == "" {
		k.Company = def.Company
	}
	if k.Date == "" {
		k.Date = def.Date
	}
	return k
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses the date formats accepted in dataset rows.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// BuildTranscripts creates one transcript per row, each with a fresh ID and
// the quarter marker found in its text. When companies is non-empty,
// transcripts whose company is not listed are dropped after construction.
func BuildTranscripts(rows []Row, keys FieldKeys, companies []string) ([]*core.Transcript, error) {
	keys = keys.withDefaults()

	transcripts := make([]*core.Transcript, 0, len(rows))
	for i, row := range rows {
		t, err := buildTranscript(row, keys)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidRow, i, err)
		}
		transcripts = append(transcripts, t)
	}

	if len(companies) == 0 {
		return transcripts, nil
	}
	return slices.DeleteFunc(transcripts, func(t *core.Transcript) bool {
		return !slices.Contains(companies, t.Company)
	}), nil
}

func buildTranscript(row Row, keys FieldKeys) (*core.Transcript, error) {
	text, err := stringField(row, keys.Text)
	if err != nil {
		return nil, err
	}
	company, err := stringField(row, keys.Company)
	if err != nil {
		return nil, err
	}
	date, err := dateField(row, keys.Date)
	if err != nil {
		return nil, err
	}

	var quarter *string
	if q, ok := FindQuarter(text); ok {
		quarter = &q
	}
	return core.NewTranscript(text, company, date, quarter), nil
}

func stringField(row Row, key string) (string, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is %T, want string", key, v)
	}
	return s, nil
}

func dateField(row Row, key string) (time.Time, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return time.Time{}, fmt.Errorf("missing field %q", key)
	}
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case *time.Time:
		if d == nil {
			return time.Time{}, fmt.Errorf("missing field %q", key)
		}
		return *d, nil
	case string:
		t, err := ParseDate(d)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %q: %w", key, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("field %q is %T, want date", key, v)
	}
}
