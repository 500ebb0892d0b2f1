package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	require.NoError(t, m.Open(ctx))

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, m.Put(ctx, "a", []byte("1")))
	got, found, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("1"), got)

	require.NoError(t, m.Delete(ctx, "a"))
	_, found, err = m.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemStore_IsolatesReturnedSlices(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	require.NoError(t, m.Open(ctx))

	original := []byte("secret")
	require.NoError(t, m.Put(ctx, "a", original))
	original[0] = 'X'

	got, _, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("secret"), got)
}

func TestMemStore_IteratePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	require.NoError(t, m.Open(ctx))

	require.NoError(t, m.Put(ctx, "items/2", []byte("b")))
	require.NoError(t, m.Put(ctx, "items/1", []byte("a")))
	require.NoError(t, m.Put(ctx, "keys", []byte("k")))

	var seen []string
	require.NoError(t, m.Iterate(ctx, "items/", func(key string, blob []byte) (bool, error) {
		seen = append(seen, key)
		return true, nil
	}))

	require.Equal(t, []string{"items/1", "items/2"}, seen)
}

func TestMemStore_Clear(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	require.NoError(t, m.Open(ctx))
	require.NoError(t, m.Put(ctx, "a", []byte("1")))
	require.NoError(t, m.Clear(ctx))

	_, found, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, found)
}
