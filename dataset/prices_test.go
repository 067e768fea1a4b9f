package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPriceBars_CSV(t *testing.T) {
	path := writeFile(t, "prices.csv", "Company,Date,Open,Close,High,Low,Volume\n"+
		"Acme,2024-01-15,10.5,11,12,10,\"1,000\"\n"+
		"Bolt,2024-01-16,20,19.5,21,19,500\n")

	records, err := LoadPriceBars(path, "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Acme", first.Company)
	assert.True(t, first.Bar.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 10.5, first.Bar.Open, 1e-9)
	assert.InDelta(t, 11, first.Bar.Close, 1e-9)
	assert.InDelta(t, 12, first.Bar.High, 1e-9)
	assert.InDelta(t, 10, first.Bar.Low, 1e-9)
	assert.Equal(t, int64(1000), first.Bar.Volume)
	assert.Equal(t, "Bolt", records[1].Company)
}

func TestLoadPriceBars_FixedCompanyAndAliases(t *testing.T) {
	path := writeFile(t, "prices.csv", "date,open_price,close_price,high_price,low_price,volume\n"+
		"2024-01-15,1,2,3,0.5,10\n")

	records, err := LoadPriceBars(path, "Acme")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].Company)
	assert.InDelta(t, 3, records[0].Bar.High, 1e-9)
}

func TestLoadPriceBars_XLSX(t *testing.T) {
	path := writeXLSX(t, "prices.xlsx", [][]any{
		{"company", "date", "open", "close", "high", "low", "volume"},
		{"Acme", "2024-01-15", 10, 11, 12, 9, 1500},
	})

	records, err := LoadPriceBars(path, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1500), records[0].Bar.Volume)
	assert.InDelta(t, 9, records[0].Bar.Low, 1e-9)
}

func TestLoadPriceBars_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		company string
		wantErr error
	}{
		{
			name:    "missing volume column",
			file:    "p.csv",
			content: "company,date,open,close,high,low\nAcme,2024-01-15,1,1,1,1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "missing company column without default",
			file:    "p.csv",
			content: "date,open,close,high,low,volume\n2024-01-15,1,1,1,1,1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "bad date",
			file:    "p.csv",
			content: "company,date,open,close,high,low,volume\nAcme,15/01/2024,1,1,1,1,1\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad number",
			file:    "p.csv",
			content: "company,date,open,close,high,low,volume\nAcme,2024-01-15,abc,1,1,1,1\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "header only",
			file:    "p.csv",
			content: "company,date,open,close,high,low,volume\n",
			wantErr: ErrNoData,
		},
		{
			name:    "json not supported",
			file:    "p.json",
			content: "[]",
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPriceBars(writeFile(t, tt.file, tt.content), tt.company)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
