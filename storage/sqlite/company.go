package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
)

const companyColumns = "id, name, ticker, sector, created_at"

// InsertCompany stores a new company. Names are unique.
func (s *Store) InsertCompany(ctx context.Context, company *core.Company) (*core.Company, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if err := core.ValidateCompany(company); err != nil {
		return nil, err
	}
	if company.InsertedAt.IsZero() {
		company.InsertedAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO companies (name, ticker, sector, created_at) VALUES (?, ?, ?, ?)`,
		company.Name, nullableString(company.Ticker), nullableString(company.Sector), formatTime(company.InsertedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert company %q: %w", company.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert company %q: %w", company.Name, err)
	}
	company.Id = core.ID(id)
	return company, nil
}

// GetCompany retrieves a company by ID.
func (s *Store) GetCompany(ctx context.Context, id core.ID) (*core.Company, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, int64(id))
	return scanCompany(row)
}

// FindCompanyByName retrieves a company by its unique name.
func (s *Store) FindCompanyByName(ctx context.Context, name string) (*core.Company, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = ?`, name)
	return scanCompany(row)
}

// QueryCompanies returns all companies ordered by name.
func (s *Store) QueryCompanies(ctx context.Context) ([]*core.Company, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []*core.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func scanCompany(scanner interface{ Scan(dest ...any) error }) (*core.Company, error) {
	var (
		id         int64
		name       string
		ticker     sql.NullString
		sector     sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&id, &name, &ticker, &sector, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	c := &core.Company{
		Id:     core.ID(id),
		Name:   name,
		Ticker: ticker.String,
		Sector: sector.String,
	}
	if created, err := parseTime(createdRaw); err == nil {
		c.InsertedAt = created
	}
	return c, nil
}
