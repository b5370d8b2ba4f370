package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestSQLiteGetMissing(t *testing.T) {
	kv := setupSQLite(t)

	v, ok, err := kv.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLiteSetAndUpdate(t *testing.T) {
	ctx := context.Background()
	kv := setupSQLite(t)

	require.NoError(t, kv.Set(ctx, KeyLanguage, "en"))
	require.NoError(t, kv.Set(ctx, KeyLanguage, "ar"))

	v, ok, err := kv.Get(ctx, KeyLanguage)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ar", v)

	var count int64
	require.NoError(t, kv.db.Model(&setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyFontSize, "20"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	v, ok, err := kv.Get(ctx, KeyFontSize)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "20", v)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "mushaf:bookmarks", RedisKey(KeyBookmarks))
}

func TestOpenRedisUnreachable(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
