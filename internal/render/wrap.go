// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/rivo/uniseg"
)

// =============================================================================
// LINE BREAKING
// =============================================================================

// piece is a measured span of one line.
type piece struct {
	text  string
	href  string
	width float64
}

// line is one output line of a paragraph.
type line struct {
	pieces []piece
	width  float64
}

func (l *line) add(p piece) {
	if n := len(l.pieces); n > 0 && l.pieces[n-1].href == p.href {
		l.pieces[n-1].text += p.text
		l.pieces[n-1].width += p.width
	} else {
		l.pieces = append(l.pieces, p)
	}
	l.width += p.width
}

// trimRight drops trailing spaces so that aligned lines end on a glyph.
func (l *line) trimRight(measure func(string) float64) {
	for n := len(l.pieces); n > 0; n = len(l.pieces) {
		last := &l.pieces[n-1]
		trimmed := strings.TrimRight(last.text, " ")
		if trimmed == last.text {
			return
		}
		l.width -= last.width
		if trimmed == "" {
			l.pieces = l.pieces[:n-1]
			continue
		}
		last.text = trimmed
		last.width = measure(trimmed)
		l.width += last.width
		return
	}
}

// wrap breaks runs into lines no wider than maxWidth. Words are split at
// spaces; a word wider than a line is split between grapheme clusters.
// Break runs end the current line, so two in a row leave an empty line.
func wrap(runs []Run, maxWidth float64, measure func(string) float64) []line {
	var lines []line
	var cur line

	flush := func() {
		cur.trimRight(measure)
		lines = append(lines, cur)
		cur = line{}
	}

	for _, run := range runs {
		if run.Break {
			flush()
			continue
		}

		for _, word := range strings.SplitAfter(run.Text, " ") {
			trimmed := strings.TrimRight(word, " ")
			if trimmed == "" {
				if word != "" && len(cur.pieces) > 0 {
					cur.add(piece{text: word, href: run.Href, width: measure(word)})
				}
				continue
			}

			tw := measure(trimmed)
			if len(cur.pieces) > 0 && cur.width+tw > maxWidth {
				flush()
			}
			if tw <= maxWidth {
				cur.add(piece{text: word, href: run.Href, width: measure(word)})
				continue
			}

			for _, chunk := range splitClusters(trimmed, maxWidth, measure) {
				if len(cur.pieces) > 0 {
					flush()
				}
				cur.add(piece{text: chunk, href: run.Href, width: measure(chunk)})
			}
			if tail := word[len(trimmed):]; tail != "" {
				cur.add(piece{text: tail, href: run.Href, width: measure(tail)})
			}
		}
	}

	if len(cur.pieces) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitClusters cuts s into chunks no wider than maxWidth, never splitting
// a grapheme cluster. A single cluster wider than maxWidth is its own chunk.
func splitClusters(s string, maxWidth float64, measure func(string) float64) []string {
	var chunks []string
	var sb strings.Builder

	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if sb.Len() > 0 && measure(sb.String()+cluster) > maxWidth {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		sb.WriteString(cluster)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}
