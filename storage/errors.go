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

import "errors"

// Lookup and write errors.
var (
	// ErrNotFound is returned when a company, transcript or price bar does
	// not exist, including when an insert references an unknown company.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a company name is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidQuery is returned for filters that cannot be answered,
	// such as a negative limit or a price query without a company.
	ErrInvalidQuery = errors.New("invalid query")
)

// Backend errors.
var (
	ErrStorageClosed     = errors.New("store closed")
	ErrTransactionFailed = errors.New("commit failed")
)

// Codec errors.
var (
	ErrSerializationFailed = errors.New("serialization failed")
	// ErrTrailingData means a decoded value did not consume its whole buffer.
	ErrTrailingData = errors.New("trailing bytes after value")
)
