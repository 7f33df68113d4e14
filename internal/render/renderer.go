// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"io"

	"golang.org/x/text/language"

	"github.com/jeranaias/chatpdf/internal/layout"
)

// =============================================================================
// RENDERER INTERFACE
// =============================================================================

// Renderer writes a Document in one output format.
type Renderer interface {
	// Render writes the document to w.
	Render(w io.Writer, doc *Document) error

	// FileExtension returns the file extension (e.g., ".pdf", ".md").
	FileExtension() string

	// MimeType returns the MIME type of the output format.
	MimeType() string
}

// Document is the input of a Renderer.
type Document struct {
	Title    string // Plain conversation name, used for metadata
	Subject  string // Period label
	Author   string
	Language language.Tag // Drives upper-casing of styled blocks
	Blocks   []layout.Block
}

// PlainText strips markup from s and joins its runs.
func PlainText(s string) string {
	var out []byte
	for _, run := range Tokenize(s) {
		if run.Break {
			out = append(out, ' ')
			continue
		}
		out = append(out, run.Text...)
	}
	return string(out)
}
