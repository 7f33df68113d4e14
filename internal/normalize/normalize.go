// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package normalize

import (
	"strings"

	"github.com/jeranaias/chatpdf/internal/chat"
)

const (
	// DefaultPlaceholder replaces pictographic characters.
	DefaultPlaceholder = "(EMOJI)"

	// DefaultProfileBaseURL prefixes mention handles.
	DefaultProfileBaseURL = "https://t.me/"

	// LineBreak is the markup for a forced line break.
	LineBreak = "<br/>"

	// ParagraphBreak replaces every newline of the source text.
	ParagraphBreak = LineBreak + LineBreak
)

// Options configures a Normalizer.
type Options struct {
	// Placeholder replaces each pictographic grapheme cluster.
	// Default: "(EMOJI)"
	Placeholder string

	// ProfileBaseURL is joined with a lower-cased mention handle.
	// Default: "https://t.me/"
	ProfileBaseURL string
}

// Normalizer converts TextContent into a single markup string.
type Normalizer struct {
	placeholder string
	profileBase string
}

// New creates a Normalizer, filling unset options with defaults.
func New(opts Options) *Normalizer {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.ProfileBaseURL == "" {
		opts.ProfileBaseURL = DefaultProfileBaseURL
	}
	return &Normalizer{
		placeholder: opts.Placeholder,
		profileBase: opts.ProfileBaseURL,
	}
}

// Placeholder returns the pictograph placeholder token.
func (n *Normalizer) Placeholder() string {
	return n.placeholder
}

// Normalize renders content as markup. Segments are concatenated in order;
// segments with unrecognized tags are skipped.
func (n *Normalizer) Normalize(content chat.TextContent) string {
	if !content.IsRich() {
		return n.Text(content.PlainText())
	}

	var sb strings.Builder
	for _, seg := range content.Segments() {
		switch seg.Kind {
		case chat.SegmentPlain:
			sb.WriteString(escapeText(seg.Text))
		case chat.SegmentMention:
			if seg.Text == "" {
				continue
			}
			sb.WriteString(anchor(n.ProfileURL(seg.Text), seg.Text))
		case chat.SegmentLink:
			if seg.Text == "" {
				continue
			}
			sb.WriteString(anchor(seg.Text, seg.Text))
		case chat.SegmentAnchorLink:
			if seg.Href == "" {
				sb.WriteString(escapeText(seg.Text))
				continue
			}
			sb.WriteString(anchor(seg.Href, seg.Text))
		default:
			// Unknown tags are skipped; export schemas grow new ones.
		}
	}
	return n.finish(sb.String())
}

// Text normalizes a free-standing string: angle brackets are escaped,
// newlines become paragraph breaks and pictographs become the placeholder.
func (n *Normalizer) Text(s string) string {
	return n.finish(escapeText(s))
}

// ProfileURL returns the canonical profile link for a mention handle.
func (n *Normalizer) ProfileURL(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	return n.profileBase + strings.ToLower(handle)
}

func (n *Normalizer) finish(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", ParagraphBreak)
	return ReplacePictographs(s, n.placeholder)
}

// =============================================================================
// MARKUP HELPERS
// =============================================================================

var textEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

var hrefEscaper = strings.NewReplacer(`"`, "%22", "<", "%3C", ">", "%3E", " ", "%20")

// escapeText escapes the characters that would open or close markup.
// Ampersands are left alone so that escaping is idempotent.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func anchor(href, text string) string {
	return `<a href="` + hrefEscaper.Replace(strings.TrimSpace(href)) + `">` + escapeText(text) + `</a>`
}
