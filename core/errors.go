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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCompany indicates a Company failed validation.
	ErrInvalidCompany = errors.New("invalid company")

	// ErrInvalidTranscript indicates a TranscriptRecord failed validation.
	ErrInvalidTranscript = errors.New("invalid transcript")

	// ErrInvalidPriceBar indicates a PriceBar failed validation.
	ErrInvalidPriceBar = errors.New("invalid price bar")

	// ErrEmptyName indicates the company Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrMissingCompany indicates a record does not reference a company.
	ErrMissingCompany = errors.New("company id is required")

	// ErrMissingDate indicates the Date field is zero.
	ErrMissingDate = errors.New("date is required")

	// ErrInvalidPriceRange indicates the high price is below the low price.
	ErrInvalidPriceRange = errors.New("high price is below low price")

	// ErrNegativeVolume indicates a negative traded volume.
	ErrNegativeVolume = errors.New("volume cannot be negative")
)
