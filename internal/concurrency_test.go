// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatpdf/internal/export"
	"github.com/jeranaias/chatpdf/internal/history"
)

// =============================================================================
// RACE CONDITION TESTS
// =============================================================================

// Run with: go test -race ./internal/...

const raceConcurrency = 6

// TestConcurrency_DistinctExports shares one pipeline and one history store
// between goroutines converting different conversations.
func TestConcurrency_DistinctExports(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	dest := t.TempDir()
	p := export.New(export.Options{Dest: dest, Locale: "en", History: store, Logger: quietLogger()})

	paths := make([]string, raceConcurrency)
	for i := range paths {
		paths[i] = writeExport(t, longPersonalExport(fmt.Sprintf("Peer %d", i), 20))
	}

	var wg sync.WaitGroup
	results := make([]*export.Result, raceConcurrency)
	errs := make([]error, raceConcurrency)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.Run(context.Background(), paths[i])
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := range paths {
		require.NoError(t, errs[i], "run %d", i)
		assert.Equal(t, export.StatusCreated, results[i].Status)
		assert.FileExists(t, results[i].Path)
		assert.False(t, seen[results[i].Path], "duplicate output path %s", results[i].Path)
		seen[results[i].Path] = true
	}

	entries, err := store.List(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, entries, raceConcurrency)
}

// TestConcurrency_SameExport converts one export from several goroutines;
// exactly one of them publishes the document.
func TestConcurrency_SameExport(t *testing.T) {
	dest := t.TempDir()
	p := export.New(export.Options{Dest: dest, Locale: "en", Logger: quietLogger()})
	path := writeExport(t, groupExport)

	var wg sync.WaitGroup
	var mu sync.Mutex
	counts := make(map[export.Status]int)
	var firstErr error

	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.Run(context.Background(), path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			counts[res.Status]++
		}()
	}
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, 1, counts[export.StatusCreated])
	assert.Equal(t, raceConcurrency-1, counts[export.StatusExists])

	dir := filepath.Join(dest, "ChatPDF", "Team")
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1, "temporary files must not be left behind")
}
