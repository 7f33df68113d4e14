// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package normalize

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

const combiningKeycap = '\u20E3'

// IsPictographic reports whether a grapheme cluster is an emoji: it holds a
// code point with the Emoji property or ends a keycap sequence.
func IsPictographic(cluster []rune) bool {
	for _, r := range cluster {
		if r == combiningKeycap || unicode.Is(emojiProperty, r) {
			return true
		}
	}
	return false
}

// ReplacePictographs replaces every pictographic grapheme cluster in s with
// placeholder. Multi-rune sequences (flags, skin tones, ZWJ families) count
// as one cluster.
func ReplacePictographs(s, placeholder string) string {
	if !mayContainPictographs(s) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if IsPictographic(gr.Runes()) {
			sb.WriteString(placeholder)
		} else {
			sb.WriteString(gr.Str())
		}
	}
	return sb.String()
}

// mayContainPictographs is a fast path for text below U+00A9.
func mayContainPictographs(s string) bool {
	for _, r := range s {
		if r >= '\u00A9' {
			return true
		}
	}
	return false
}
