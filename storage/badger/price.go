package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
)

// InsertPriceBar stores a daily price bar for an existing company.
func (s *Store) InsertPriceBar(ctx context.Context, bar *core.PriceBar) (*core.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := core.ValidatePriceBar(bar); err != nil {
		return nil, err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := requireCompany(tx, bar.CompanyId); err != nil {
			return err
		}

		id, err := nextID(s.priceSeq)
		if err != nil {
			return err
		}
		bar.Id = core.ID(id)
		if bar.InsertedAt.IsZero() {
			bar.InsertedAt = time.Now().UTC()
		}

		if err := tx.Set(makePriceKey(bar.Id), storage.MarshalPriceBar(bar)); err != nil {
			return err
		}
		return tx.Set(makePriceCompanyKey(bar.CompanyId, bar.Date, bar.Id), storage.MarshalID(bar.Id))
	}, true)
	if err != nil {
		return nil, err
	}
	return bar, nil
}

// QueryPriceBars returns a company's price bars in date order, limited to
// filter.Start <= Date < filter.End when those bounds are set.
func (s *Store) QueryPriceBars(ctx context.Context, filter storage.PriceFilter) ([]*core.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.CompanyId == 0 {
		return nil, storage.ErrInvalidQuery
	}

	prefix := makePartialPriceCompanyKey(filter.CompanyId)
	start := prefix
	if !filter.Start.IsZero() {
		start = makePartialPriceDateKey(filter.CompanyId, filter.Start)
	}
	var end []byte
	if !filter.End.IsZero() {
		end = makePartialPriceDateKey(filter.CompanyId, filter.End)
	}

	bars := []*core.PriceBar{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(start); iter.Valid(); iter.Next() {
			item := iter.Item()
			if end != nil && bytes.Compare(item.Key(), end) >= 0 {
				break
			}
			id, err := readID(item)
			if err != nil {
				return err
			}
			bar, err := get(tx, makePriceKey(core.ID(id)), storage.UnmarshalPriceBar)
			if err != nil {
				return err
			}
			bars = append(bars, bar)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return bars, nil
}
