// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns laid-out conversation blocks into documents.
//
// # Key Types
//
//   - Renderer: Common interface of the document renderers
//   - Document: Title, metadata and the ordered blocks to render
//   - PDFRenderer: Paginated A4 PDF output
//   - MarkdownRenderer: Markdown output for terminal previews
//   - StyleTable: Paragraph style per block kind and role
//
// # Markup
//
// Block text is inline markup: escaped text, <a href="..."> links and
// <br/> line breaks. Tokenize splits it into runs; anything else is
// stripped by the sanitizer before rendering.
//
// # Usage
//
//	r := render.NewPDFRenderer(render.Options{RegularFont: "/path/Font.ttf"})
//	err := r.Render(w, &render.Document{Title: name, Blocks: blocks})
package render
