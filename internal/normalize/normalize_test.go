// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/chatpdf/internal/chat"
)

func TestNormalize_Plain(t *testing.T) {
	n := New(Options{})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unchanged", "hello there", "hello there"},
		{"newline", "line one\nline two", "line one<br/><br/>line two"},
		{"crlf", "a\r\nb", "a<br/><br/>b"},
		{"emoji", "ok 👍", "ok (EMOJI)"},
		{"zwj family is one cluster", "👨‍👩‍👧!", "(EMOJI)!"},
		{"flag is one cluster", "🇺🇦", "(EMOJI)"},
		{"skin tone", "👋🏽 hi", "(EMOJI) hi"},
		{"heart with selector", "❤️", "(EMOJI)"},
		{"keycap", "1️⃣", "(EMOJI)"},
		{"bare digits stay", "call 911 #1 *", "call 911 #1 *"},
		{"text-style emoji", "© 2024 Acme™", "(EMOJI) 2024 Acme(EMOJI)"},
		{"arrow emoji", "↔ arrows", "(EMOJI) arrows"},
		{"symbols that are not emoji", "★ rating ✓", "★ rating ✓"},
		{"emoji star and check", "⭐ ✔", "(EMOJI) (EMOJI)"},
		{"angle brackets", "a < b > c", "a &lt; b &gt; c"},
		{"cyrillic untouched", "Привет", "Привет"},
		{"ampersand untouched", "AT&T", "AT&T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(chat.Plain(tt.input)))
		})
	}
}

func TestNormalize_RichMentionExample(t *testing.T) {
	n := New(Options{})
	content := chat.Rich(chat.MentionSegment("@alice"), chat.PlainSegment(" hi"))

	got := n.Normalize(content)
	assert.Equal(t, `<a href="https://t.me/alice">@alice</a> hi`, got)
}

func TestNormalize_RichSegments(t *testing.T) {
	n := New(Options{ProfileBaseURL: "https://example.org/u/", Placeholder: "[E]"})

	content := chat.Rich(
		chat.PlainSegment("see "),
		chat.LinkSegment("https://go.dev"),
		chat.PlainSegment(" and "),
		chat.AnchorSegment("https://pkg.go.dev", "docs"),
		chat.TextSegment{Kind: chat.SegmentUnknown, Text: "dropped", Tag: "future"},
		chat.MentionSegment("@Bob_Smith"),
		chat.PlainSegment("\n🎉"),
	)

	want := `see <a href="https://go.dev">https://go.dev</a> and ` +
		`<a href="https://pkg.go.dev">docs</a>` +
		`<a href="https://example.org/u/bob_smith">@Bob_Smith</a>` +
		`<br/><br/>[E]`
	assert.Equal(t, want, n.Normalize(content))
}

func TestNormalize_AnchorWithoutHref(t *testing.T) {
	n := New(Options{})
	got := n.Normalize(chat.Rich(chat.AnchorSegment("", "just text")))
	assert.Equal(t, "just text", got)
}

func TestNormalize_HrefEscaping(t *testing.T) {
	n := New(Options{})
	got := n.Normalize(chat.Rich(chat.LinkSegment(`https://x.test/?q="a b"`)))
	assert.Equal(t, `<a href="https://x.test/?q=%22a%20b%22">https://x.test/?q="a b"</a>`, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(Options{})

	inputs := []string{
		"plain words",
		"x < y",
		"a & b &lt; c",
		"already (EMOJI) replaced",
		"",
	}
	for _, in := range inputs {
		once := n.Normalize(chat.Plain(in))
		twice := n.Normalize(chat.Plain(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestProfileURL(t *testing.T) {
	n := New(Options{})
	assert.Equal(t, "https://t.me/alice", n.ProfileURL("@Alice"))
	assert.Equal(t, "https://t.me/alice", n.ProfileURL("alice"))
}

func TestIsPictographic(t *testing.T) {
	assert.True(t, IsPictographic([]rune("😀")))
	assert.True(t, IsPictographic([]rune("☀")))
	assert.False(t, IsPictographic([]rune("a")))
	assert.False(t, IsPictographic([]rune("Ж")))
	assert.False(t, IsPictographic([]rune("中")))

	tests := []struct {
		r    string
		want bool
	}{
		{"©", true},
		{"™", true},
		{"‼", true},
		{"↔", true},
		{"✔", true},
		{"★", false},
		{"✓", false},
		{"→", false},
		{"—", false},
		{"7", false},
		{"#", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPictographic([]rune(tt.r)), "%q", tt.r)
	}
}
