package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoajasa245/quran-reader/internal/database/dbtest"
)

type keyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

func exerciseKeyValue(t *testing.T, kv keyValue, prefix string) {
	t.Helper()
	ctx := context.Background()
	key := prefix + "bookmarkedAyats"

	_, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, key, `[{"surah":2,"ayat":5}]`))
	value, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"surah":2,"ayat":5}]`, value)

	require.NoError(t, kv.Set(ctx, key, `[]`))
	value, ok, err = kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value)
}

func TestMemory(t *testing.T) {
	exerciseKeyValue(t, NewMemory(), "")
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	exerciseKeyValue(t, store, "")
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(context.Background(), "bookmarkedAyats")
	require.NoError(t, err)
	assert.True(t, ok, "values survive reopening")
	assert.Equal(t, `[]`, value)
}

func TestPostgres(t *testing.T) {
	srv := dbtest.New(t)
	exerciseKeyValue(t, NewPostgres(srv), "user:1:")
}
