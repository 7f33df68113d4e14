// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeWidth measures one unit per rune.
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func lineTexts(lines []line) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		for _, pc := range ln.pieces {
			out[i] += pc.text
		}
	}
	return out
}

func TestWrap_BreaksAtSpaces(t *testing.T) {
	lines := wrap([]Run{{Text: "the quick brown fox jumps"}}, 10, runeWidth)
	assert.Equal(t, []string{"the quick", "brown fox", "jumps"}, lineTexts(lines))

	for _, ln := range lines {
		assert.LessOrEqual(t, ln.width, 10.0)
	}
}

func TestWrap_TrailingSpaceNotCounted(t *testing.T) {
	lines := wrap([]Run{{Text: "abcd efgh"}}, 4, runeWidth)
	assert.Equal(t, []string{"abcd", "efgh"}, lineTexts(lines))
	assert.Equal(t, 4.0, lines[0].width)
}

func TestWrap_LongWordSplit(t *testing.T) {
	lines := wrap([]Run{{Text: "abcdefghij xy"}}, 4, runeWidth)
	assert.Equal(t, []string{"abcd", "efgh", "ij", "xy"}, lineTexts(lines))
}

func TestWrap_Breaks(t *testing.T) {
	runs := []Run{{Text: "one"}, {Break: true}, {Break: true}, {Text: "two"}}
	lines := wrap(runs, 80, runeWidth)
	assert.Equal(t, []string{"one", "", "two"}, lineTexts(lines))
}

func TestWrap_KeepsLinkPieces(t *testing.T) {
	runs := []Run{
		{Text: "ping "},
		{Text: "@dan", Href: "https://t.me/dan"},
		{Text: " now"},
	}
	lines := wrap(runs, 80, runeWidth)
	require.Len(t, lines, 1)
	require.Len(t, lines[0].pieces, 3)
	assert.Equal(t, "https://t.me/dan", lines[0].pieces[1].href)
	assert.Equal(t, 13.0, lines[0].width)
}

func TestWrap_Empty(t *testing.T) {
	lines := wrap(nil, 80, runeWidth)
	require.Len(t, lines, 1)
	assert.Empty(t, lines[0].pieces)
}

func TestSplitClusters_KeepsGraphemes(t *testing.T) {
	// "e" + combining acute accent is one cluster of two runes.
	chunks := splitClusters("e\u0301e\u0301e\u0301", 2, runeWidth)
	assert.Equal(t, []string{"e\u0301", "e\u0301", "e\u0301"}, chunks)
}
