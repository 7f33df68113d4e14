// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/chatpdf/internal/config"
	"github.com/jeranaias/chatpdf/internal/render"
)

// =============================================================================
// PREVIEW
// =============================================================================

// HandlePreview prints the layout of an export in the terminal without
// writing a document. --raw prints the Markdown source with frontmatter.
//
// Usage: chatpdf preview FILE [--raw] [--locale L]
func HandlePreview(ctx context.Context, app *App, p *ArgParser) error {
	file := p.Flag("file", "f")
	if file == "" {
		file = p.Positional(0)
	}
	if file == "" {
		return ErrMissingArgument("file", "chatpdf preview result.json")
	}
	file = config.ExpandPath(file)

	raw := p.BoolFlag("raw")
	pipeline := app.Pipeline(PipelineOverrides{Locale: p.Flag("locale")})

	var sb strings.Builder
	md := render.NewMarkdownRenderer(render.MarkdownOptions{IncludeMetadata: raw})
	if err := pipeline.Preview(&sb, file, md); err != nil {
		return err
	}

	if raw || !ColorsEnabled() {
		fmt.Fprint(app.Out, sb.String())
		return nil
	}

	out, err := renderTerminalMarkdown(sb.String(), GetTerminalWidth())
	if err != nil {
		// Fall back to the Markdown source
		app.Logger.Warn("terminal rendering failed", "error", err)
		fmt.Fprint(app.Out, sb.String())
		return nil
	}
	fmt.Fprint(app.Out, out)
	return nil
}

// renderTerminalMarkdown renders Markdown with a glamour style matching the
// terminal background.
func renderTerminalMarkdown(markdown string, width int) (string, error) {
	style := "dark"
	if !darkBackground() {
		style = "light"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-4),
		glamour.WithEmoji(),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return r.Render(markdown)
}
