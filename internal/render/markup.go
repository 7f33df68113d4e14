// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// =============================================================================
// MARKUP
// =============================================================================

// Run is a span of text sharing one link target, or a line break.
type Run struct {
	Text  string
	Href  string // Link target; empty for plain text
	Break bool
}

// NewSanitizer returns the policy applied to block markup: links with an
// href and line breaks survive, every other element is stripped.
func NewSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("href").OnElements("a")
	p.AllowElements("br")
	return p
}

// Tokenize splits markup into runs. Entities are unescaped, adjacent text
// with the same target is merged and unknown elements are ignored.
func Tokenize(markup string) []Run {
	var runs []Run
	var href string

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return runs

		case html.TextToken:
			text := string(z.Text())
			if text == "" {
				continue
			}
			if n := len(runs); n > 0 && !runs[n-1].Break && runs[n-1].Href == href {
				runs[n-1].Text += text
				continue
			}
			runs = append(runs, Run{Text: text, Href: href})

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch atom.Lookup(name) {
			case atom.Br:
				runs = append(runs, Run{Break: true})
			case atom.A:
				href = ""
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = strings.TrimSpace(string(val))
					}
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.A {
				href = ""
			}
		}
	}
}
