// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/chatpdf/internal/layout"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownOptions configures a MarkdownRenderer.
type MarkdownOptions struct {
	// IncludeMetadata writes a YAML frontmatter block.
	IncludeMetadata bool

	// Now stamps the frontmatter. Default: time.Now
	Now func() time.Time
}

// MarkdownRenderer renders documents as Markdown.
type MarkdownRenderer struct {
	options   MarkdownOptions
	sanitizer *bluemonday.Policy
}

// NewMarkdownRenderer creates a new Markdown renderer.
func NewMarkdownRenderer(opts MarkdownOptions) *MarkdownRenderer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MarkdownRenderer{options: opts, sanitizer: NewSanitizer()}
}

// frontmatter is the metadata header of a Markdown document.
type frontmatter struct {
	Title     string `yaml:"title"`
	Period    string `yaml:"period,omitempty"`
	Blocks    int    `yaml:"blocks"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Render writes the document as Markdown.
func (e *MarkdownRenderer) Render(w io.Writer, doc *Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		meta, err := yaml.Marshal(frontmatter{
			Title:     doc.Title,
			Period:    doc.Subject,
			Blocks:    len(doc.Blocks),
			Exported:  e.options.Now().Format(time.RFC3339),
			Generator: DefaultCreator,
		})
		if err != nil {
			return fmt.Errorf("encode frontmatter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(meta)
		sb.WriteString("---\n\n")
	}

	for _, block := range doc.Blocks {
		text := e.inline(block.Text)
		switch block.Kind {
		case layout.BlockTitle:
			fmt.Fprintf(&sb, "# %s\n\n", text)
		case layout.BlockPeriodLabel:
			fmt.Fprintf(&sb, "*%s*\n\n", text)
		case layout.BlockDateSeparator:
			fmt.Fprintf(&sb, "---\n\n##### — %s —\n\n", text)
		case layout.BlockActorHeader:
			fmt.Fprintf(&sb, "### %s\n\n", text)
		case layout.BlockServiceNotice:
			fmt.Fprintf(&sb, "_%s_\n\n", text)
		case layout.BlockMessageBody:
			sb.WriteString(e.formatBody(block.Role, text))
			sb.WriteString("\n\n")
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownRenderer) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownRenderer) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatBody marks own messages as quotes so both sides stay apart.
func (e *MarkdownRenderer) formatBody(role layout.RoleTag, text string) string {
	if role != layout.RoleSelf {
		return text
	}
	return "> " + strings.ReplaceAll(text, "\n", "\n> ")
}

// inline converts block markup to Markdown text.
func (e *MarkdownRenderer) inline(markup string) string {
	var sb strings.Builder
	for _, run := range Tokenize(e.sanitizer.Sanitize(markup)) {
		switch {
		case run.Break:
			sb.WriteString("\n")
		case run.Href != "":
			fmt.Fprintf(&sb, "[%s](%s)", escapeMarkdown(run.Text), escapeLinkTarget(run.Href))
		default:
			sb.WriteString(escapeMarkdown(run.Text))
		}
	}
	return strings.TrimSpace(sb.String())
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}

// escapeLinkTarget keeps a link target inside its parentheses.
func escapeLinkTarget(s string) string {
	s = strings.ReplaceAll(s, "(", "%28")
	s = strings.ReplaceAll(s, ")", "%29")
	s = strings.ReplaceAll(s, " ", "%20")
	return s
}
