package badger

import (
	"context"
	"testing"

	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/storage"
	"github.com/poiesic/earncall/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := NewMemoryStore()
		require.NoError(t, err)
		return s
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(dir)
	require.NoError(t, err)
	c, err := s.InsertCompany(ctx, &core.Company{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.FindCompanyByName(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, c.Id, got.Id)

	next, err := s.InsertCompany(ctx, &core.Company{Name: "Bolt"})
	require.NoError(t, err)
	assert.NotEqual(t, c.Id, next.Id)
}

func TestStore_CloseTwice(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), storage.ErrStorageClosed)
}

func TestStoreWithBackend_LeavesBackendOpen(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	s, err := NewStoreWithBackend(backend)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.False(t, backend.IsClosed())
}
