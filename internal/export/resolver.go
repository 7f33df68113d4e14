// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"path/filepath"
	"strings"

	"github.com/jeranaias/chatpdf/internal/util"
)

// =============================================================================
// OUTPUT PATH RESOLVER
// =============================================================================

// maxNameRunes limits the conversation part of generated names.
const maxNameRunes = 100

// Resolver maps conversations to output paths.
type Resolver struct {
	Root   string // Destination root, e.g. ~/Desktop
	Subdir string // Folder under Root holding per-conversation folders
}

// Resolve returns {root}/{subdir}/{safe}/{safe}, {identifier}{ext}.
func (r *Resolver) Resolve(name, identifier, ext string) string {
	safe := SafeName(name)
	return filepath.Join(r.Root, r.Subdir, safe, safe+", "+identifier+ext)
}

// Exists reports whether an output path is already taken.
func (r *Resolver) Exists(path string) bool {
	return util.Exists(path)
}

// SafeName removes or replaces characters that are invalid in file names.
// Spaces and non-Latin letters are kept.
func SafeName(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxNameRunes {
		runes = runes[:maxNameRunes]
	}

	// Replace problematic characters (Windows and Unix)
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		'\t': ' ',
		'\n': ' ',
		'\r': ' ',
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	// Windows rejects names ending in a dot or space.
	name := strings.TrimRight(string(result), ". ")
	if name == "" {
		return "conversation"
	}
	return name
}
