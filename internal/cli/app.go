// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jeranaias/chatpdf/internal/config"
	"github.com/jeranaias/chatpdf/internal/export"
	"github.com/jeranaias/chatpdf/internal/history"
)

// =============================================================================
// APP
// =============================================================================

// App carries what every command needs: configuration, output streams and
// the logger. The history store is opened on first use.
type App struct {
	Config     *config.Config
	ConfigPath string // Explicit --config path, if any
	Logger     *slog.Logger
	Out        io.Writer
	Err        io.Writer

	history *history.Store
}

// NewApp loads configuration and builds the logger.
func NewApp(args Args, stdout, stderr io.Writer) (*App, error) {
	logger := NewLogger(stderr, args.Verbose, args.Quiet)

	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(config.ExpandPath(args.ConfigPath))
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, err
		}
		if err != nil {
			// Defaults are still usable
			logger.Warn("ignoring unreadable config", "error", err)
		}
	}

	return &App{
		Config:     cfg,
		ConfigPath: args.ConfigPath,
		Logger:     logger,
		Out:        stdout,
		Err:        stderr,
	}, nil
}

// NewLogger returns a text logger on w. The level is Warn, Debug when
// verbose; quiet keeps errors only.
func NewLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// History returns the export ledger, or nil when it is disabled or cannot
// be opened.
func (a *App) History() *history.Store {
	if a.history != nil || !a.Config.History.Enabled {
		return a.history
	}

	path, err := a.Config.HistoryPath()
	if err == nil {
		a.history, err = history.Open(path)
	}
	if err != nil {
		a.Logger.Warn("export history unavailable", "error", err)
		return nil
	}
	return a.history
}

// PipelineOverrides are per-invocation changes to the configured options.
type PipelineOverrides struct {
	Dest   string
	Locale string
	Open   *bool
}

// Pipeline builds an export pipeline from the configuration.
func (a *App) Pipeline(o PipelineOverrides) *export.Pipeline {
	cfg := a.Config

	opts := export.Options{
		Dest:            cfg.Output.Dest,
		Subdir:          cfg.Output.Subdir,
		Locale:          cfg.ResolvedLocale(),
		Placeholder:     cfg.Format.Placeholder,
		ProfileBaseURL:  cfg.Format.ProfileBaseURL,
		UnknownSender:   cfg.Format.UnknownSender,
		RegularFont:     cfg.Fonts.Regular,
		BoldFont:        cfg.Fonts.Bold,
		OpenAfterExport: cfg.Output.OpenAfterExport,
		Logger:          a.Logger,
	}
	if o.Dest != "" {
		opts.Dest = config.ExpandPath(o.Dest)
	}
	if o.Locale != "" {
		opts.Locale = o.Locale
	}
	if o.Open != nil {
		opts.OpenAfterExport = *o.Open
	}
	if store := a.History(); store != nil {
		opts.History = store
	}

	return export.New(opts)
}

// Close releases the history store.
func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	err := a.history.Close()
	a.history = nil
	if err != nil && !errors.Is(err, history.ErrClosed) {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}
