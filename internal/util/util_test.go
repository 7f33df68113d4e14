// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("hello, world!"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", string(content))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("test data"), 0644))
	assert.True(t, Exists(path))
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

// =============================================================================
// TEMP + PUBLISH TESTS
// =============================================================================

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriteTemp_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	_, err := WriteTemp(dir, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, dirEntries(t, dir))
}

func TestPublishExclusive(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "out.pdf")

	tmp, err := WriteTemp(dir, func(w io.Writer) error {
		_, err := w.Write([]byte("one"))
		return err
	})
	require.NoError(t, err)
	require.NoError(t, PublishExclusive(tmp, final, 0644))

	content, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))
	assert.Equal(t, []string{"out.pdf"}, dirEntries(t, dir))
}

func TestPublishExclusive_LoserKeepsWinner(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(final, []byte("winner"), 0644))

	tmp, err := WriteTemp(dir, func(w io.Writer) error {
		_, err := w.Write([]byte("loser"))
		return err
	})
	require.NoError(t, err)

	err = PublishExclusive(tmp, final, 0644)
	assert.ErrorIs(t, err, os.ErrExist)

	content, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "winner", string(content))
	assert.Equal(t, []string{"out.pdf"}, dirEntries(t, dir))
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"ascii short", "hello", 10, "hello"},
		{"ascii exact", "hello", 5, "hello"},
		{"ascii truncate", "hello world", 8, "hello..."},
		{"tiny width", "hello", 2, "he"},
		{"cjk truncate", "日本語テキスト", 7, "日本..."},
		{"empty", "", 5, ""},
		{"zero width", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWidth(tt.input, tt.maxWidth)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, StringWidth(got), max(tt.maxWidth, 0))
		})
	}
}

func TestTruncateLeft(t *testing.T) {
	assert.Equal(t, "short.json", TruncateLeft("short.json", 20))
	assert.Equal(t, ".../chat/result.json", TruncateLeft("/home/user/exports/chat/result.json", 20))
	assert.Equal(t, "", TruncateLeft("abc", 0))
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 6, StringWidth("日本語"))
	assert.Equal(t, 0, StringWidth(""))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "日本 ", PadRight("日本", 5))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
}
