// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeranaias/chatpdf/internal/history"
	"github.com/jeranaias/chatpdf/internal/util"
)

// DefaultHistoryLimit is the number of entries shown by default.
const DefaultHistoryLimit = 20

// HandleHistory lists previous conversions, newest first.
//
// Usage: chatpdf history [--limit N | -n N]
func HandleHistory(ctx context.Context, app *App, p *ArgParser) error {
	limit, err := p.FlagIntOrDefault("n", DefaultHistoryLimit)
	if err != nil {
		return err
	}
	if limit, err = p.FlagIntOrDefault("limit", limit); err != nil {
		return err
	}
	if limit <= 0 {
		return ErrInvalidFormat("limit", fmt.Sprint(limit), "a positive number, e.g. --limit 10")
	}

	if !app.Config.History.Enabled {
		fmt.Fprintln(app.Out, RenderConditional(DimStyle, "History is disabled (history.enabled = false)."))
		return nil
	}
	store := app.History()
	if store == nil {
		return NewCommandError("history", "open", "history database unavailable", nil)
	}

	entries, err := store.List(ctx, limit)
	if err != nil {
		return NewCommandError("history", "list", "query failed", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(app.Out, RenderConditional(DimStyle, "No conversions yet."))
		return nil
	}

	PrintHistory(app.Out, entries, GetTerminalWidth())
	return nil
}

// PrintHistory writes one line per entry: time, status, conversation and
// period, then the document path on its own line.
func PrintHistory(w io.Writer, entries []history.Entry, width int) {
	for _, e := range entries {
		status := RenderConditional(SuccessStyle, util.PadRight(string(e.Status), 8))
		if e.Status == history.StatusExists {
			status = RenderConditional(WarningStyle, util.PadRight(string(e.Status), 8))
		}

		when := e.CreatedAt.Local().Format("2006-01-02 15:04")
		title := util.TruncateWidth(e.Name, 30) + ", " + e.Period
		fmt.Fprintf(w, "%s  %s %s\n", RenderConditional(DimStyle, when), status, title)
		fmt.Fprintf(w, "%s%s\n", "                  ", RenderConditional(DimStyle, util.TruncateLeft(e.Path, width-18)))
	}
}
