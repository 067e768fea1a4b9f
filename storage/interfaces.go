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


package storage

import (
	"context"
	"time"

	"github.com/poiesic/earncall/core"
)

// CompanyRepository provides operations for managing companies.
type CompanyRepository interface {
	// InsertCompany stores a new company and assigns its ID.
	// Sets InsertedAt if not already set.
	// Returns ErrDuplicateKey if a company with the same name exists.
	InsertCompany(ctx context.Context, company *core.Company) (*core.Company, error)

	// GetCompany retrieves a company by ID.
	// Returns ErrNotFound if the company doesn't exist.
	GetCompany(ctx context.Context, id core.ID) (*core.Company, error)

	// FindCompanyByName retrieves a company by its unique name.
	// Returns ErrNotFound if no company has that name.
	FindCompanyByName(ctx context.Context, name string) (*core.Company, error)

	// QueryCompanies returns every company ordered by name.
	QueryCompanies(ctx context.Context) ([]*core.Company, error)
}

// TranscriptFilter narrows a transcript query.
type TranscriptFilter struct {
	// CompanyId restricts results to one company. Zero means all companies.
	CompanyId core.ID

	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// TranscriptRepository provides operations for managing transcript records.
type TranscriptRepository interface {
	// InsertTranscript stores a new transcript record and assigns its ID.
	// Returns ErrNotFound if the referenced company doesn't exist.
	InsertTranscript(ctx context.Context, record *core.TranscriptRecord) (*core.TranscriptRecord, error)

	// QueryTranscripts returns transcript records ordered by date, newest
	// first, with CompanyName populated.
	QueryTranscripts(ctx context.Context, filter TranscriptFilter) ([]*core.TranscriptRecord, error)
}

// PriceFilter narrows a price query.
type PriceFilter struct {
	// CompanyId restricts results to one company. Required.
	CompanyId core.ID

	// Start and End bound the query as Start <= Date < End.
	// A zero value leaves that side unbounded.
	Start time.Time
	End   time.Time
}

// PriceRepository provides operations for managing daily price bars.
type PriceRepository interface {
	// InsertPriceBar stores a new price bar and assigns its ID.
	// Returns ErrNotFound if the referenced company doesn't exist.
	InsertPriceBar(ctx context.Context, bar *core.PriceBar) (*core.PriceBar, error)

	// QueryPriceBars returns the company's price bars ordered by date ascending.
	// Returns ErrInvalidQuery if filter.CompanyId is zero.
	QueryPriceBars(ctx context.Context, filter PriceFilter) ([]*core.PriceBar, error)
}

// Store combines all repositories of a storage backend.
type Store interface {
	CompanyRepository
	TranscriptRepository
	PriceRepository

	// Close closes the storage backend and releases resources.
	Close() error
}
