// Package storagetest provides a behavioural test suite shared by every
// storage.Store implementation.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func insertCompany(t *testing.T, s storage.Store, name string) *core.Company {
	t.Helper()
	c, err := s.InsertCompany(context.Background(), &core.Company{Name: name, Ticker: name[:1], Sector: "Technology"})
	require.NoError(t, err)
	return c
}

// Run executes the suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"InsertAndGetCompany", testInsertAndGetCompany},
		{"DuplicateCompanyName", testDuplicateCompanyName},
		{"ConcurrentDuplicateCompany", testConcurrentDuplicateCompany},
		{"FindCompanyByName", testFindCompanyByName},
		{"QueryCompaniesOrderedByName", testQueryCompaniesOrderedByName},
		{"InsertTranscriptUnknownCompany", testInsertTranscriptUnknownCompany},
		{"QueryTranscriptsNewestFirst", testQueryTranscriptsNewestFirst},
		{"QueryTranscriptsByCompany", testQueryTranscriptsByCompany},
		{"TranscriptSentimentRoundTrip", testTranscriptSentimentRoundTrip},
		{"PriceBarsRange", testPriceBarsRange},
		{"PriceBarsRequireCompany", testPriceBarsRequireCompany},
		{"CancelledContext", testCancelledContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func testInsertAndGetCompany(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c, err := s.InsertCompany(ctx, &core.Company{Name: "TechNova Inc", Ticker: "TNV", Sector: "Technology"})
	require.NoError(t, err)
	assert.NotZero(t, c.Id)
	assert.False(t, c.InsertedAt.IsZero())

	got, err := s.GetCompany(ctx, c.Id)
	require.NoError(t, err)
	assert.Equal(t, "TechNova Inc", got.Name)
	assert.Equal(t, "TNV", got.Ticker)
	assert.Equal(t, "Technology", got.Sector)

	_, err = s.GetCompany(ctx, c.Id+1000)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDuplicateCompanyName(t *testing.T, s storage.Store) {
	insertCompany(t, s, "Acme")
	_, err := s.InsertCompany(context.Background(), &core.Company{Name: "Acme"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func testConcurrentDuplicateCompany(t *testing.T, s storage.Store) {
	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.InsertCompany(context.Background(), &core.Company{Name: "Contested"})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.LessOrEqual(t, succeeded, 1)

	companies, err := s.QueryCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, companies, succeeded)
}

func testFindCompanyByName(t *testing.T, s storage.Store) {
	want := insertCompany(t, s, "Globex")

	got, err := s.FindCompanyByName(context.Background(), "Globex")
	require.NoError(t, err)
	assert.Equal(t, want.Id, got.Id)

	_, err = s.FindCompanyByName(context.Background(), "globex")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testQueryCompaniesOrderedByName(t *testing.T, s storage.Store) {
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		insertCompany(t, s, name)
	}

	companies, err := s.QueryCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 3)
	assert.Equal(t, "Alpha", companies[0].Name)
	assert.Equal(t, "Mid", companies[1].Name)
	assert.Equal(t, "Zeta", companies[2].Name)
}

func testInsertTranscriptUnknownCompany(t *testing.T, s storage.Store) {
	_, err := s.InsertTranscript(context.Background(), &core.TranscriptRecord{CompanyId: 999, Date: day(1)})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.InsertTranscript(context.Background(), &core.TranscriptRecord{Date: day(1)})
	assert.ErrorIs(t, err, core.ErrMissingCompany)
}

func testQueryTranscriptsNewestFirst(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := insertCompany(t, s, "Alpha")
	b := insertCompany(t, s, "Beta")

	for i, d := range []int{3, 1, 5} {
		owner := a
		if i == 1 {
			owner = b
		}
		_, err := s.InsertTranscript(ctx, &core.TranscriptRecord{
			CompanyId: owner.Id,
			Date:      day(d),
			Text:      fmt.Sprintf("transcript %d", d),
		})
		require.NoError(t, err)
	}

	records, err := s.QueryTranscripts(ctx, storage.TranscriptFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].Date.Equal(day(5)))
	assert.True(t, records[1].Date.Equal(day(3)))
	assert.True(t, records[2].Date.Equal(day(1)))
	assert.Equal(t, "Alpha", records[0].CompanyName)
	assert.Equal(t, "Beta", records[2].CompanyName)
	assert.Equal(t, "transcript 5", records[0].Text)

	limited, err := s.QueryTranscripts(ctx, storage.TranscriptFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.True(t, limited[0].Date.Equal(day(5)))

	_, err = s.QueryTranscripts(ctx, storage.TranscriptFilter{Limit: -1})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func testQueryTranscriptsByCompany(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := insertCompany(t, s, "Alpha")
	b := insertCompany(t, s, "Beta")

	for d := 1; d <= 4; d++ {
		owner := a
		if d%2 == 0 {
			owner = b
		}
		_, err := s.InsertTranscript(ctx, &core.TranscriptRecord{CompanyId: owner.Id, Date: day(d)})
		require.NoError(t, err)
	}

	records, err := s.QueryTranscripts(ctx, storage.TranscriptFilter{CompanyId: b.Id})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, b.Id, r.CompanyId)
		assert.Equal(t, "Beta", r.CompanyName)
	}
	assert.True(t, records[0].Date.Equal(day(4)))

	empty, err := s.QueryTranscripts(ctx, storage.TranscriptFilter{CompanyId: b.Id + 100})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testTranscriptSentimentRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := insertCompany(t, s, "Alpha")
	score := 0.42

	_, err := s.InsertTranscript(ctx, &core.TranscriptRecord{CompanyId: c.Id, Date: day(1), SentimentScore: &score})
	require.NoError(t, err)
	_, err = s.InsertTranscript(ctx, &core.TranscriptRecord{CompanyId: c.Id, Date: day(2)})
	require.NoError(t, err)

	records, err := s.QueryTranscripts(ctx, storage.TranscriptFilter{CompanyId: c.Id})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[0].SentimentScore)
	require.NotNil(t, records[1].SentimentScore)
	assert.InDelta(t, 0.42, *records[1].SentimentScore, 1e-9)
}

func testPriceBarsRange(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := insertCompany(t, s, "Alpha")
	b := insertCompany(t, s, "Beta")

	for _, d := range []int{5, 1, 3, 2, 4} {
		_, err := s.InsertPriceBar(ctx, &core.PriceBar{
			CompanyId: a.Id, Date: day(d),
			Open: float64(d), Close: float64(d) + 0.5, High: float64(d) + 1, Low: float64(d) - 1,
			Volume: int64(d * 100),
		})
		require.NoError(t, err)
	}
	_, err := s.InsertPriceBar(ctx, &core.PriceBar{CompanyId: b.Id, Date: day(3), High: 1, Low: 1})
	require.NoError(t, err)

	all, err := s.QueryPriceBars(ctx, storage.PriceFilter{CompanyId: a.Id})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, bar := range all {
		assert.True(t, bar.Date.Equal(day(i+1)), "bar %d date %s", i, bar.Date)
	}
	assert.Equal(t, int64(100), all[0].Volume)
	assert.InDelta(t, 1.5, all[0].Close, 1e-9)

	ranged, err := s.QueryPriceBars(ctx, storage.PriceFilter{CompanyId: a.Id, Start: day(2), End: day(4)})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.True(t, ranged[0].Date.Equal(day(2)))
	assert.True(t, ranged[1].Date.Equal(day(3)))

	from, err := s.QueryPriceBars(ctx, storage.PriceFilter{CompanyId: a.Id, Start: day(4)})
	require.NoError(t, err)
	assert.Len(t, from, 2)
}

func testPriceBarsRequireCompany(t *testing.T, s storage.Store) {
	ctx := context.Background()
	_, err := s.QueryPriceBars(ctx, storage.PriceFilter{})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = s.InsertPriceBar(ctx, &core.PriceBar{CompanyId: 12345, Date: day(1), High: 1, Low: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testCancelledContext(t *testing.T, s storage.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.InsertCompany(ctx, &core.Company{Name: "Late"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.QueryCompanies(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
