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

package badger

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/earncall/storage"
)

// Store implements storage.Store on BadgerDB.
type Store struct {
	backend       *Backend
	ownsBackend   bool
	companySeq    *badger.Sequence
	transcriptSeq *badger.Sequence
	priceSeq      *badger.Sequence
}

var _ storage.Store = (*Store)(nil)

// NewStore opens (or creates) a BadgerDB store in the directory at path.
func NewStore(path string) (storage.Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	store, err := newStore(backend, true)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return store, nil
}

// NewStoreWithBackend creates a store on an already opened backend. Closing
// the store releases its sequences but leaves the backend open.
func NewStoreWithBackend(backend *Backend) (storage.Store, error) {
	return newStore(backend, false)
}

func newStore(backend *Backend, ownsBackend bool) (*Store, error) {
	s := &Store{backend: backend, ownsBackend: ownsBackend}

	var err error
	if s.companySeq, err = backend.GetSequence(companyIDSeq); err != nil {
		return nil, err
	}
	if s.transcriptSeq, err = backend.GetSequence(transcriptIDSeq); err != nil {
		s.companySeq.Release()
		return nil, err
	}
	if s.priceSeq, err = backend.GetSequence(priceIDSeq); err != nil {
		s.companySeq.Release()
		s.transcriptSeq.Release()
		return nil, err
	}
	return s, nil
}

// Close releases the ID sequences and, if the store opened it, the backend.
func (s *Store) Close() error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	err := errors.Join(
		s.companySeq.Release(),
		s.transcriptSeq.Release(),
		s.priceSeq.Release(),
	)
	if s.ownsBackend {
		err = errors.Join(err, s.backend.Close())
	}
	return err
}
