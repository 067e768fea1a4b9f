package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateCompany(t *testing.T) {
	tests := []struct {
		name    string
		company *Company
		wantErr error
	}{
		{
			name:    "valid company",
			company: &Company{Name: "Apple Inc.", Ticker: "AAPL", Sector: "Technology"},
			wantErr: nil,
		},
		{
			name:    "valid company without ticker",
			company: &Company{Name: "Apple Inc."},
			wantErr: nil,
		},
		{
			name:    "nil company",
			company: nil,
			wantErr: ErrInvalidCompany,
		},
		{
			name:    "empty name",
			company: &Company{Name: ""},
			wantErr: ErrEmptyName,
		},
		{
			name:    "whitespace name",
			company: &Company{Name: "   "},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCompany(tt.company)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCompany() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCompany() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTranscriptRecord(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		record  *TranscriptRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &TranscriptRecord{CompanyId: 1, Date: date, Text: "Revenue grew."},
			wantErr: nil,
		},
		{
			name:    "valid record without text",
			record:  &TranscriptRecord{CompanyId: 1, Date: date},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidTranscript,
		},
		{
			name:    "missing company",
			record:  &TranscriptRecord{Date: date},
			wantErr: ErrMissingCompany,
		},
		{
			name:    "missing date",
			record:  &TranscriptRecord{CompanyId: 1},
			wantErr: ErrMissingDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTranscriptRecord(tt.record)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTranscriptRecord() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTranscriptRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePriceBar(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		bar     *PriceBar
		wantErr error
	}{
		{
			name:    "valid bar",
			bar:     &PriceBar{CompanyId: 1, Date: date, Open: 10, Close: 11, High: 12, Low: 9, Volume: 1000},
			wantErr: nil,
		},
		{
			name:    "nil bar",
			bar:     nil,
			wantErr: ErrInvalidPriceBar,
		},
		{
			name:    "missing company",
			bar:     &PriceBar{Date: date, High: 1, Low: 1},
			wantErr: ErrMissingCompany,
		},
		{
			name:    "missing date",
			bar:     &PriceBar{CompanyId: 1, High: 1, Low: 1},
			wantErr: ErrMissingDate,
		},
		{
			name:    "high below low",
			bar:     &PriceBar{CompanyId: 1, Date: date, High: 8, Low: 9},
			wantErr: ErrInvalidPriceRange,
		},
		{
			name:    "negative volume",
			bar:     &PriceBar{CompanyId: 1, Date: date, High: 10, Low: 9, Volume: -1},
			wantErr: ErrNegativeVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePriceBar(tt.bar)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePriceBar() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePriceBar() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
