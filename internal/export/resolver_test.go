// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Bob", "Bob"},
		{"spaces kept", "Team chat", "Team chat"},
		{"cyrillic kept", "Ирина", "Ирина"},
		{"slashes", "a/b\\c", "a-b-c"},
		{"windows reserved", `x:y*z?"<>|`, "x-y-z-----"},
		{"control chars", "a\x01b", "a-b"},
		{"newline", "a\nb", "a b"},
		{"trailing dots", "name. . ", "name"},
		{"surrounding space", "  Bob  ", "Bob"},
		{"empty", "", "conversation"},
		{"only dots", "...", "conversation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.input))
		})
	}
}

func TestSafeName_Truncates(t *testing.T) {
	got := SafeName(strings.Repeat("я", 150))
	assert.Equal(t, maxNameRunes, len([]rune(got)))
}

func TestResolver_Resolve(t *testing.T) {
	r := &Resolver{Root: "/home/u/Desktop", Subdir: "ChatPDF"}

	got := r.Resolve("Bob", "05.03.2024 — 09.04.2024", ".pdf")
	want := filepath.Join("/home/u/Desktop", "ChatPDF", "Bob", "Bob, 05.03.2024 — 09.04.2024.pdf")
	assert.Equal(t, want, got)

	got = r.Resolve("a/b", "01.01.2024 — 01.01.2024", ".md")
	assert.Equal(t, "a-b", filepath.Base(filepath.Dir(got)))
}

func TestResolver_Exists(t *testing.T) {
	dir := t.TempDir()
	r := &Resolver{Root: dir, Subdir: "out"}
	path := r.Resolve("Bob", "id", ".pdf")

	assert.False(t, r.Exists(path))

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, r.Exists(path))
}
