// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordFillsDefaults(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	e := &Entry{Source: "result.json", Name: "Bob", Kind: "personal", Path: "/out/Bob.pdf"}
	require.NoError(t, s.Record(ctx, e))

	assert.NotZero(t, e.ID)
	_, err := uuid.Parse(e.RunID)
	assert.NoError(t, err)
	assert.Equal(t, StatusCreated, e.Status)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		require.NoError(t, s.Record(ctx, &Entry{
			Name:      name,
			Path:      "/out/" + name + ".pdf",
			Messages:  i + 1,
			Pages:     1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Name)
	assert.Equal(t, "first", all[2].Name)
	assert.Equal(t, 3, all[0].Messages)
	assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_PublishedEntry(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	created := &Entry{Name: "Bob", Path: "/out/Bob.pdf", Status: StatusCreated}
	require.NoError(t, s.Record(ctx, created))
	require.NoError(t, s.Record(ctx, &Entry{Name: "Bob", Path: "/out/Bob.pdf", Status: StatusExists}))

	e, err := s.PublishedEntry(ctx, "/out/Bob.pdf")
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, e.Status)
	assert.Equal(t, created.ID, e.ID)

	require.NoError(t, s.Record(ctx, &Entry{Name: "Eve", Path: "/out/Eve.pdf", Status: StatusExists}))
	_, err = s.PublishedEntry(ctx, "/out/Eve.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.PublishedEntry(ctx, "/out/none.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, &Entry{Name: "Team", Path: "/out/Team.pdf"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Team", entries[0].Name)
}

func TestStore_Closed(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Record(context.Background(), &Entry{}), ErrClosed)
	_, err := s.List(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}
