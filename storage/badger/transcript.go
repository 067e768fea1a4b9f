package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
)

// InsertTranscript stores a transcript record for an existing company.
func (s *Store) InsertTranscript(ctx context.Context, record *core.TranscriptRecord) (*core.TranscriptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := core.ValidateTranscriptRecord(record); err != nil {
		return nil, err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		company, err := requireCompany(tx, record.CompanyId)
		if err != nil {
			return err
		}

		id, err := nextID(s.transcriptSeq)
		if err != nil {
			return err
		}
		record.Id = core.ID(id)
		record.CompanyName = company.Name
		if record.InsertedAt.IsZero() {
			record.InsertedAt = time.Now().UTC()
		}

		if err := tx.Set(makeTranscriptKey(record.Id), storage.MarshalTranscriptRecord(record)); err != nil {
			return err
		}
		idValue := storage.MarshalID(record.Id)
		if err := tx.Set(makeTranscriptDateKey(record.Date, record.Id), idValue); err != nil {
			return err
		}
		return tx.Set(makeTranscriptCompanyKey(record.CompanyId, record.Date, record.Id), idValue)
	}, true)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// QueryTranscripts returns transcript records newest first.
func (s *Store) QueryTranscripts(ctx context.Context, filter storage.TranscriptFilter) ([]*core.TranscriptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.Limit < 0 {
		return nil, storage.ErrInvalidQuery
	}

	prefix := []byte(transcriptDatePrefix + ":")
	if filter.CompanyId != 0 {
		prefix = makePartialTranscriptCompanyKey(filter.CompanyId)
	}

	records := []*core.TranscriptRecord{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, err := readID(iter.Item())
			if err != nil {
				return err
			}
			ids = append(ids, core.ID(id))
		}
		// Index order is oldest first.
		slices.Reverse(ids)
		if filter.Limit > 0 && len(ids) > filter.Limit {
			ids = ids[:filter.Limit]
		}

		names := map[core.ID]string{}
		for _, id := range ids {
			record, err := get(tx, makeTranscriptKey(id), storage.UnmarshalTranscriptRecord)
			if err != nil {
				return err
			}
			name, ok := names[record.CompanyId]
			if !ok {
				company, err := requireCompany(tx, record.CompanyId)
				if err != nil {
					return err
				}
				name = company.Name
				names[record.CompanyId] = name
			}
			record.CompanyName = name
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}
