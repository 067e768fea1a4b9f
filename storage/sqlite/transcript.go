package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
)

// InsertTranscript stores a transcript record for an existing company.
func (s *Store) InsertTranscript(ctx context.Context, record *core.TranscriptRecord) (*core.TranscriptRecord, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if err := core.ValidateTranscriptRecord(record); err != nil {
		return nil, err
	}
	company, err := s.GetCompany(ctx, record.CompanyId)
	if err != nil {
		return nil, fmt.Errorf("company %d: %w", record.CompanyId, err)
	}
	if record.InsertedAt.IsZero() {
		record.InsertedAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO transcripts (company_id, date, transcript_text, sentiment_score, created_at) VALUES (?, ?, ?, ?, ?)`,
		int64(record.CompanyId), formatTime(record.Date), nullableString(record.Text),
		nullableFloat(record.SentimentScore), formatTime(record.InsertedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transcript: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert transcript: %w", err)
	}
	record.Id = core.ID(id)
	record.CompanyName = company.Name
	return record, nil
}

// QueryTranscripts returns transcript records newest first.
func (s *Store) QueryTranscripts(ctx context.Context, filter storage.TranscriptFilter) ([]*core.TranscriptRecord, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if filter.Limit < 0 {
		return nil, storage.ErrInvalidQuery
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT t.id, t.company_id, c.name, t.date, t.transcript_text, t.sentiment_score, t.created_at
		FROM transcripts t JOIN companies c ON t.company_id = c.id`)
	if filter.CompanyId != 0 {
		query.WriteString(` WHERE t.company_id = ?`)
		args = append(args, int64(filter.CompanyId))
	}
	query.WriteString(` ORDER BY t.date DESC, t.id DESC`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*core.TranscriptRecord{}
	for rows.Next() {
		r, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanTranscript(scanner interface{ Scan(dest ...any) error }) (*core.TranscriptRecord, error) {
	var (
		id         int64
		companyID  int64
		name       string
		dateRaw    string
		text       sql.NullString
		sentiment  sql.NullFloat64
		createdRaw string
	)
	if err := scanner.Scan(&id, &companyID, &name, &dateRaw, &text, &sentiment, &createdRaw); err != nil {
		return nil, err
	}

	date, err := parseTime(dateRaw)
	if err != nil {
		return nil, fmt.Errorf("transcript %d date: %w", id, err)
	}
	r := &core.TranscriptRecord{
		Id:          core.ID(id),
		CompanyId:   core.ID(companyID),
		CompanyName: name,
		Date:        date,
		Text:        text.String,
	}
	if sentiment.Valid {
		score := sentiment.Float64
		r.SentimentScore = &score
	}
	if created, err := parseTime(createdRaw); err == nil {
		r.InsertedAt = created
	}
	return r, nil
}
