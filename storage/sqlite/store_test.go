package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
	"github.com/poiesic/earncall/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := NewStore(filepath.Join(t.TempDir(), "earncall.db"))
		require.NoError(t, err)
		return s
	})
}

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := NewMemoryStore()
		require.NoError(t, err)
		return s
	})
}

func TestStore_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "earncall.db")
	ctx := context.Background()

	s, err := NewStore(path)
	require.NoError(t, err)
	_, err = s.InsertCompany(ctx, &core.Company{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	companies, err := s.QueryCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0].Name)
}

func TestStore_SchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earncall.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	_, err = s.(*Store).db.Exec(`UPDATE schema_version SET version = 99`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = NewStore(path)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestStore_ClosedStore(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.QueryCompanies(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, s.Close(), storage.ErrStorageClosed)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-01-15T00:00:00.000000Z",
		"2024-01-15T00:00:00Z",
		"2024-01-15 00:00:00",
		"2024-01-15",
	} {
		got, err := parseTime(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed to %s", raw, got)
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}

func TestFormatTime_SortsLexically(t *testing.T) {
	earlier := formatTime(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	later := formatTime(time.Date(2024, 1, 15, 9, 0, 0, 500, time.UTC).Add(time.Microsecond))
	assert.Less(t, earlier, later)
}
