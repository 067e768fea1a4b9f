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


// Package storage provides the storage abstraction layer for earncall.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. Two backends implement Store:
//
//   - storage/badger: embedded key/value store, values encoded with mus-go
//   - storage/sqlite: relational store with companies, transcripts and
//     stock_prices tables
//
// Public constructors return the Store interface:
//
//	store, err := badger.NewStore("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//
// # Semantics
//
// Company names are unique. Transcripts and price bars reference an
// existing company; inserting one for an unknown company fails with
// ErrNotFound. Chunks are never persisted.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
