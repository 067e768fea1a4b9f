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

// InsertPriceBar stores a daily price bar for an existing company.
func (s *Store) InsertPriceBar(ctx context.Context, bar *core.PriceBar) (*core.PriceBar, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if err := core.ValidatePriceBar(bar); err != nil {
		return nil, err
	}
	if bar.InsertedAt.IsZero() {
		bar.InsertedAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO stock_prices (company_id, date, open_price, close_price, high_price, low_price, volume, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(bar.CompanyId), formatTime(bar.Date), bar.Open, bar.Close, bar.High, bar.Low, bar.Volume,
		formatTime(bar.InsertedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert price bar for company %d: %w", bar.CompanyId, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert price bar: %w", err)
	}
	bar.Id = core.ID(id)
	return bar, nil
}

// QueryPriceBars returns a company's price bars in date order, limited to
// filter.Start <= Date < filter.End when those bounds are set.
func (s *Store) QueryPriceBars(ctx context.Context, filter storage.PriceFilter) ([]*core.PriceBar, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if filter.CompanyId == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var query strings.Builder
	args := []any{int64(filter.CompanyId)}
	query.WriteString(`SELECT id, company_id, date, open_price, close_price, high_price, low_price, volume, created_at
		FROM stock_prices WHERE company_id = ?`)
	if !filter.Start.IsZero() {
		query.WriteString(` AND date >= ?`)
		args = append(args, formatTime(filter.Start))
	}
	if !filter.End.IsZero() {
		query.WriteString(` AND date < ?`)
		args = append(args, formatTime(filter.End))
	}
	query.WriteString(` ORDER BY date, id`)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bars := []*core.PriceBar{}
	for rows.Next() {
		var (
			id, companyID               int64
			dateRaw, createdRaw         string
			open, closePrice, high, low sql.NullFloat64
			volume                      sql.NullInt64
		)
		if err := rows.Scan(&id, &companyID, &dateRaw, &open, &closePrice, &high, &low, &volume, &createdRaw); err != nil {
			return nil, err
		}
		date, err := parseTime(dateRaw)
		if err != nil {
			return nil, fmt.Errorf("price bar %d date: %w", id, err)
		}
		bar := &core.PriceBar{
			Id:        core.ID(id),
			CompanyId: core.ID(companyID),
			Date:      date,
			Open:      open.Float64,
			Close:     closePrice.Float64,
			High:      high.Float64,
			Low:       low.Float64,
			Volume:    volume.Int64,
		}
		if created, err := parseTime(createdRaw); err == nil {
			bar.InsertedAt = created
		}
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}
