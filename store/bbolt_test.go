package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoltStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")

	bs := NewBoltStore(path)
	require.NoError(t, bs.Open(ctx))
	defer bs.Close(ctx)

	_, found, err := bs.Get(ctx, "keys")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, bs.Put(ctx, "keys", []byte("blob-1")))

	got, found, err := bs.Get(ctx, "keys")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("blob-1"), got)

	require.NoError(t, bs.Delete(ctx, "keys"))
	_, found, err = bs.Get(ctx, "keys")
	require.NoError(t, err)
	require.False(t, found)
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")

	first := NewBoltStore(path)
	require.NoError(t, first.Open(ctx))
	require.NoError(t, first.Put(ctx, "items/abc", []byte("record-blob")))
	require.NoError(t, first.Close(ctx))

	second := NewBoltStore(path)
	require.NoError(t, second.Open(ctx))
	defer second.Close(ctx)

	got, found, err := second.Get(ctx, "items/abc")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("record-blob"), got)
}

func TestBoltStore_IteratePrefixInOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")

	bs := NewBoltStore(path)
	require.NoError(t, bs.Open(ctx))
	defer bs.Close(ctx)

	require.NoError(t, bs.Put(ctx, "items/b", []byte("2")))
	require.NoError(t, bs.Put(ctx, "items/a", []byte("1")))
	require.NoError(t, bs.Put(ctx, "keys", []byte("not-an-item")))

	var seen []string
	require.NoError(t, bs.Iterate(ctx, "items/", func(key string, blob []byte) (bool, error) {
		seen = append(seen, key)
		return true, nil
	}))

	require.Equal(t, []string{"items/a", "items/b"}, seen)
}

func TestBoltStore_ClearRemovesEverything(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")

	bs := NewBoltStore(path)
	require.NoError(t, bs.Open(ctx))
	defer bs.Close(ctx)

	require.NoError(t, bs.Put(ctx, "keys", []byte("k")))
	require.NoError(t, bs.Put(ctx, "items/a", []byte("v")))

	require.NoError(t, bs.Clear(ctx))

	_, found, err := bs.Get(ctx, "keys")
	require.NoError(t, err)
	require.False(t, found)

	var seen []string
	require.NoError(t, bs.Iterate(ctx, "items/", func(key string, blob []byte) (bool, error) {
		seen = append(seen, key)
		return true, nil
	}))
	require.Empty(t, seen)
}

func TestBoltStore_CreatesParentDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "vault.db")

	bs := NewBoltStore(path)
	require.NoError(t, bs.Open(ctx))
	defer bs.Close(ctx)

	_, err := os.Stat(path)
	require.NoError(t, err)
}
