package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRUD_GetMissingReturnsNilNoError(t *testing.T) {
	ctx := context.Background()
	d, _ := unlockedFixture(t)

	r, err := d.Get(ctx, "nonexistent")
	require.NoError(t, err)
	require.Nil(t, r)
}

func TestCRUD_RemoveMissingReturnsNilNoError(t *testing.T) {
	ctx := context.Background()
	d, _ := unlockedFixture(t)

	r, err := d.Remove(ctx, "nonexistent")
	require.NoError(t, err)
	require.Nil(t, r)
}

func TestCRUD_ListReflectsMultipleRecords(t *testing.T) {
	ctx := context.Background()
	d, _ := unlockedFixture(t)

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		r, err := d.Add(ctx, NewRecord{
			Title: "item",
			Entry: map[string]interface{}{"kind": "login", "username": "u", "password": "p"},
		})
		require.NoError(t, err)
		ids[r.ID] = true
	}

	records, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for id := range ids {
		require.Contains(t, records, id)
	}
}

func TestCRUD_AddPreservesOriginsAndTags(t *testing.T) {
	ctx := context.Background()
	d, _ := unlockedFixture(t)

	r, err := d.Add(ctx, NewRecord{
		Title:   "with metadata",
		Entry:   map[string]interface{}{"kind": "login", "username": "u", "password": "p"},
		Origins: []string{"https://example.com"},
		Tags:    []string{"work", "email"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.com"}, r.Origins)
	require.Equal(t, []string{"work", "email"}, r.Tags)

	got, err := d.Get(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, r.Origins, got.Origins)
	require.Equal(t, r.Tags, got.Tags)
}

func TestCRUD_UpdateNoChangeRecordsNoHistory(t *testing.T) {
	ctx := context.Background()
	d, _ := unlockedFixture(t)

	r, err := d.Add(ctx, NewRecord{
		Title: "same",
		Entry: map[string]interface{}{"kind": "login", "username": "u", "password": "p"},
	})
	require.NoError(t, err)

	updated, err := d.Update(ctx, RecordUpdate{
		ID:    r.ID,
		Title: r.Title,
		Entry: map[string]interface{}{"kind": "login", "username": "u", "password": "p"},
	})
	require.NoError(t, err)
	require.Len(t, updated.History, 0)
}

func TestCRUD_MultipleUpdatesPrependHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	d, _ := unlockedFixture(t)

	r, err := d.Add(ctx, NewRecord{
		Title: "t",
		Entry: map[string]interface{}{"kind": "login", "username": "u", "password": "p1"},
	})
	require.NoError(t, err)

	first, err := d.Update(ctx, RecordUpdate{
		ID:    r.ID,
		Title: r.Title,
		Entry: map[string]interface{}{"kind": "login", "username": "u", "password": "p2"},
	})
	require.NoError(t, err)
	require.Len(t, first.History, 1)

	second, err := d.Update(ctx, RecordUpdate{
		ID:    r.ID,
		Title: r.Title,
		Entry: map[string]interface{}{"kind": "login", "username": "u", "password": "p3"},
	})
	require.NoError(t, err)
	require.Len(t, second.History, 2)
	require.True(t, second.History[0].Created.After(second.History[1].Created) ||
		second.History[0].Created.Equal(second.History[1].Created))
	require.Equal(t, first.History[0].Patch, second.History[1].Patch)
}
