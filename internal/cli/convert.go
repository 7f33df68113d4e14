// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jeranaias/chatpdf/internal/config"
	"github.com/jeranaias/chatpdf/internal/export"
	"github.com/jeranaias/chatpdf/internal/history"
)

// =============================================================================
// CONVERT
// =============================================================================

// HandleConvert converts the given exports. A directory argument, or no
// argument at all, opens the discovery menu.
//
// Usage: chatpdf [convert] [-f FILE|DIR]... [FILE]... [-d DEST] [--locale L] [--open]
func HandleConvert(ctx context.Context, app *App, p *ArgParser) error {
	var overrides PipelineOverrides
	overrides.Dest = p.Flag("destination", "dest", "d")
	overrides.Locale = p.Flag("locale")
	if p.HasFlag("open") {
		open := p.BoolFlag("open")
		overrides.Open = &open
	}

	inputs := append([]string{}, p.FlagValues("file", "f")...)
	inputs = append(inputs, p.PositionalFrom(0)...)

	var files []string
	searchRoot := ""
	for _, in := range inputs {
		path := config.ExpandPath(in)
		info, err := os.Stat(path)
		if err != nil {
			return ErrNotFound("export", in)
		}
		if info.IsDir() {
			searchRoot = path
			continue
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		chosen, err := chooseExport(app, searchRoot)
		if errors.Is(err, errMenuExit) {
			return nil
		}
		if err != nil {
			return err
		}
		files = []string{chosen}
	}

	pipeline := app.Pipeline(overrides)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := pipeline.Run(ctx, file)
		if err != nil {
			return err
		}
		PrintResult(app.Out, res, publishedEntry(ctx, app, res))
	}
	return nil
}

// publishedEntry looks up the run that created an already existing
// document. It returns nil when history is off or has no record.
func publishedEntry(ctx context.Context, app *App, res *export.Result) *history.Entry {
	if res.Status != export.StatusExists {
		return nil
	}
	store := app.History()
	if store == nil {
		return nil
	}
	e, err := store.PublishedEntry(ctx, res.Path)
	if err != nil {
		app.Logger.Debug("no creation record", "path", res.Path, "error", err)
		return nil
	}
	return &e
}

// chooseExport shows the discovery menu for root, or the configured search
// root when root is empty.
func chooseExport(app *App, root string) (string, error) {
	if root == "" {
		root = app.Config.Input.SearchRoot
	}
	if !CanPrompt() {
		return "", &TTYRequiredError{Operation: "choose an export (pass -f FILE)"}
	}

	candidates, err := Discover(root, app.Config.Input.MaxDepth, app.Config.Input.MaxResults)
	if err != nil {
		return "", NewCommandError("convert", "search", root, err)
	}
	if len(candidates) == 0 {
		return "", ErrNotFound("export under", root)
	}

	RenderMenu(app.Out, candidates, GetTerminalWidth())
	fmt.Fprintln(app.Out)

	prompter := newLinerPrompter()
	defer prompter.Close()
	return Choose(prompter, app.Out, candidates)
}

// PrintResult reports a run outcome. published, when known, is the run that
// created an existing document.
func PrintResult(w io.Writer, res *export.Result, published *history.Entry) {
	switch res.Status {
	case export.StatusCreated:
		fmt.Fprintln(w, RenderConditional(SuccessStyle, filepath.Base(res.Path)+" is ready!"))
		fmt.Fprintf(w, "\n%s %s\n", RenderLabel("Copied to", 10), filepath.Dir(res.Path))
		if res.Pages > 0 {
			fmt.Fprintf(w, "%s %d\n", RenderLabel("Pages", 10), res.Pages)
		}
	case export.StatusExists:
		fmt.Fprintln(w, RenderConditional(WarningStyle, "This PDF-file already exists!"))
		fmt.Fprintf(w, "\n%s %s\n", RenderLabel("Location", 10), res.Path)
		if published != nil {
			fmt.Fprintf(w, "%s %s\n", RenderLabel("Created", 10), published.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
	}
}
