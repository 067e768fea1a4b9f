// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateCompany validates a Company according to domain rules.
//
// Validation rules:
//   - Name must not be empty or whitespace
//
// NOT validated:
//   - Ticker and Sector (optional)
//   - ID (0 is valid before insertion)
func ValidateCompany(company *Company) error {
	if company == nil {
		return fmt.Errorf("%w: company is nil", ErrInvalidCompany)
	}

	if strings.TrimSpace(company.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCompany, ErrEmptyName)
	}

	return nil
}

// ValidateTranscriptRecord validates a TranscriptRecord according to domain rules.
//
// Validation rules:
//   - CompanyId must be set
//   - Date must be set
//
// Text may be empty; metadata-only transcripts are accepted.
func ValidateTranscriptRecord(record *TranscriptRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidTranscript)
	}

	if record.CompanyId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTranscript, ErrMissingCompany)
	}

	if record.Date.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidTranscript, ErrMissingDate)
	}

	return nil
}

// ValidatePriceBar validates a PriceBar according to domain rules.
//
// Validation rules:
//   - CompanyId must be set
//   - Date must be set
//   - High must not be below Low
//   - Volume must not be negative
func ValidatePriceBar(bar *PriceBar) error {
	if bar == nil {
		return fmt.Errorf("%w: price bar is nil", ErrInvalidPriceBar)
	}

	if bar.CompanyId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPriceBar, ErrMissingCompany)
	}

	if bar.Date.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidPriceBar, ErrMissingDate)
	}

	if bar.High < bar.Low {
		return fmt.Errorf("%w: %w", ErrInvalidPriceBar, ErrInvalidPriceRange)
	}

	if bar.Volume < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPriceBar, ErrNegativeVolume)
	}

	return nil
}
