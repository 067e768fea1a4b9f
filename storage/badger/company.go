package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
)

// InsertCompany stores a new company. Names are unique.
func (s *Store) InsertCompany(ctx context.Context, company *core.Company) (*core.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := core.ValidateCompany(company); err != nil {
		return nil, err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		nameKey := makeCompanyNameKey(company.Name)
		if _, err := tx.Get(nameKey); err == nil {
			return fmt.Errorf("%w: company %q", storage.ErrDuplicateKey, company.Name)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		id, err := nextID(s.companySeq)
		if err != nil {
			return err
		}
		company.Id = core.ID(id)
		if company.InsertedAt.IsZero() {
			company.InsertedAt = time.Now().UTC()
		}

		if err := tx.Set(makeCompanyKey(company.Id), storage.MarshalCompany(company)); err != nil {
			return err
		}
		return tx.Set(nameKey, storage.MarshalID(company.Id))
	}, true)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany retrieves a company by ID.
func (s *Store) GetCompany(ctx context.Context, id core.ID) (*core.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var company *core.Company
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		company, err = get(tx, makeCompanyKey(id), storage.UnmarshalCompany)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// FindCompanyByName retrieves a company by its unique name.
func (s *Store) FindCompanyByName(ctx context.Context, name string) (*core.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var company *core.Company
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		id, err := get(tx, makeCompanyNameKey(name), storage.UnmarshalID)
		if err != nil {
			return err
		}
		company, err = get(tx, makeCompanyKey(id), storage.UnmarshalCompany)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// QueryCompanies returns all companies ordered by name.
func (s *Store) QueryCompanies(ctx context.Context) ([]*core.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	companies := []*core.Company{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(companyNamePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// The name index is ordered by name bytes.
		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, err := readID(iter.Item())
			if err != nil {
				return err
			}
			company, err := get(tx, makeCompanyKey(core.ID(id)), storage.UnmarshalCompany)
			if err != nil {
				return err
			}
			companies = append(companies, company)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// requireCompany fails with storage.ErrNotFound when id names no company.
func requireCompany(tx *badger.Txn, id core.ID) (*core.Company, error) {
	company, err := get(tx, makeCompanyKey(id), storage.UnmarshalCompany)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: company %d", storage.ErrNotFound, id)
	}
	return company, err
}
