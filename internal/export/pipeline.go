// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/chatpdf/internal/chat"
	"github.com/jeranaias/chatpdf/internal/history"
	"github.com/jeranaias/chatpdf/internal/layout"
	"github.com/jeranaias/chatpdf/internal/normalize"
	"github.com/jeranaias/chatpdf/internal/render"
	"github.com/jeranaias/chatpdf/internal/timerange"
	"github.com/jeranaias/chatpdf/internal/util"
)

// =============================================================================
// RESULT
// =============================================================================

// Status is the outcome of a successful run.
type Status int

const (
	// StatusCreated means a new document was published.
	StatusCreated Status = iota + 1
	// StatusExists means the document was already present; nothing was written.
	StatusExists
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusExists:
		return "exists"
	default:
		return "unknown"
	}
}

// Result describes a finished run.
type Result struct {
	Status   Status
	Source   string // Export file
	Path     string // Document path
	Name     string // Conversation name
	Kind     chat.Kind
	Range    timerange.Range
	Period   string // Range identifier, e.g. "05.03.2024 — 09.04.2024"
	Messages int
	Pages    int // Zero when the document already existed
	Duration time.Duration
}

// =============================================================================
// OPTIONS
// =============================================================================

// Recorder stores run outcomes. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, e *history.Entry) error
}

// Options configures a Pipeline.
type Options struct {
	// Dest is the destination root. Default: ~/Desktop
	Dest string

	// Subdir is created under Dest. Default: "ChatPDF"
	Subdir string

	// Locale selects month names and upper-casing.
	Locale string

	// Text normalization settings; zero values use the normalize defaults.
	Placeholder    string
	ProfileBaseURL string

	// UnknownSender attributes messages without a sender.
	UnknownSender string

	// RegularFont and BoldFont are TrueType paths for the PDF renderer.
	RegularFont string
	BoldFont    string

	// Renderer overrides the PDF renderer.
	Renderer render.Renderer

	// Validate checks a rendered PDF and returns its page count.
	// Default: ValidatePDF. Only used for PDF renderers.
	Validate func(path string) (int, error)

	// OpenAfterExport opens newly created documents.
	OpenAfterExport bool

	// Open opens a document. Default: OpenFile
	Open func(path string) error

	// History records outcomes when set.
	History Recorder

	// Logger receives progress and warnings. Default: slog.Default()
	Logger *slog.Logger
}

// DefaultOptions returns default pipeline options.
func DefaultOptions() Options {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Options{
		Dest:   filepath.Join(home, "Desktop"),
		Subdir: "ChatPDF",
	}
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline converts exports one at a time. Runs share no mutable state, so
// a Pipeline may be reused across runs.
type Pipeline struct {
	opts       Options
	resolver   *Resolver
	formatter  timerange.Formatter
	normalizer *normalize.Normalizer
	renderer   render.Renderer
	logger     *slog.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	defaults := DefaultOptions()
	if opts.Dest == "" {
		opts.Dest = defaults.Dest
	}
	if opts.Subdir == "" {
		opts.Subdir = defaults.Subdir
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewPDFRenderer(render.Options{
			RegularFont: opts.RegularFont,
			BoldFont:    opts.BoldFont,
			Logger:      opts.Logger,
		})
	}
	if opts.Validate == nil {
		opts.Validate = ValidatePDF
	}
	if opts.Open == nil {
		opts.Open = OpenFile
	}

	return &Pipeline{
		opts:      opts,
		resolver:  &Resolver{Root: opts.Dest, Subdir: opts.Subdir},
		formatter: timerange.NewFormatter(opts.Locale),
		normalizer: normalize.New(normalize.Options{
			Placeholder:    opts.Placeholder,
			ProfileBaseURL: opts.ProfileBaseURL,
		}),
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}
}

// Resolver returns the output path resolver.
func (p *Pipeline) Resolver() *Resolver {
	return p.resolver
}

// Run converts the export at path. An already existing document is a
// normal outcome reported as StatusExists. On error no file is left at the
// document path.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	conv, err := chat.Load(path)
	if err != nil {
		return nil, err
	}

	rng, err := timerange.Analyze(conv.Messages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res := &Result{
		Source:   path,
		Name:     conv.Name,
		Kind:     conv.Kind,
		Range:    rng,
		Period:   rng.Identifier(p.formatter),
		Messages: len(conv.Messages),
	}
	res.Path = p.resolver.Resolve(conv.Name, res.Period, p.renderer.FileExtension())

	logger := p.logger.With("source", path, "name", conv.Name, "kind", conv.Kind.String())
	logger.Debug("export loaded", "messages", res.Messages, "period", res.Period)

	if p.resolver.Exists(res.Path) {
		return p.finish(ctx, res, StatusExists, start), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := p.document(conv, rng, logger)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := util.WriteTemp(filepath.Dir(res.Path), func(w io.Writer) error {
		return p.renderer.Render(w, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	if p.renderer.MimeType() == "application/pdf" {
		pages, err := p.opts.Validate(tmp)
		if err != nil {
			os.Remove(tmp)
			return nil, fmt.Errorf("render %s: %w", path, err)
		}
		res.Pages = pages
	}

	if err := util.PublishExclusive(tmp, res.Path, 0644); err != nil {
		if errors.Is(err, os.ErrExist) {
			logger.Info("document published concurrently", "path", res.Path)
			res.Pages = 0
			return p.finish(ctx, res, StatusExists, start), nil
		}
		return nil, fmt.Errorf("publish %s: %w", path, err)
	}

	res = p.finish(ctx, res, StatusCreated, start)
	if p.opts.OpenAfterExport {
		if err := p.opts.Open(res.Path); err != nil {
			// Non-fatal - file was still created successfully
			logger.Warn("could not open document", "path", res.Path, "error", err)
		}
	}
	return res, nil
}

// Preview lays out the export at path and renders it with r to w. Nothing
// is written to the destination and no history is recorded.
func (p *Pipeline) Preview(w io.Writer, path string, r render.Renderer) error {
	conv, err := chat.Load(path)
	if err != nil {
		return err
	}
	rng, err := timerange.Analyze(conv.Messages)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	doc, err := p.document(conv, rng, p.logger.With("source", path))
	if err != nil {
		return fmt.Errorf("layout %s: %w", path, err)
	}
	return r.Render(w, doc)
}

// document lays out conv. A fresh engine is built per call.
func (p *Pipeline) document(conv *chat.Conversation, rng timerange.Range, logger *slog.Logger) (*render.Document, error) {
	engine := layout.New(layout.Options{
		Formatter:     p.formatter,
		Normalizer:    p.normalizer,
		UnknownSender: p.opts.UnknownSender,
		Logger:        logger,
	})
	blocks, err := engine.Layout(conv, rng)
	if err != nil {
		return nil, err
	}
	return &render.Document{
		Title:    conv.Name,
		Subject:  rng.Label(p.formatter),
		Language: p.formatter.Tag(),
		Blocks:   blocks,
	}, nil
}

// finish stamps the outcome and records it in the history ledger.
func (p *Pipeline) finish(ctx context.Context, res *Result, status Status, start time.Time) *Result {
	res.Status = status
	res.Duration = time.Since(start)

	p.logger.Debug("export finished",
		"path", res.Path, "status", status.String(), "pages", res.Pages, "duration", res.Duration)

	if p.opts.History == nil {
		return res
	}
	entry := &history.Entry{
		Source:   res.Source,
		Name:     res.Name,
		Kind:     res.Kind.String(),
		Period:   res.Period,
		Path:     res.Path,
		Status:   history.Status(status.String()),
		Messages: res.Messages,
		Pages:    res.Pages,
	}
	if err := p.opts.History.Record(ctx, entry); err != nil {
		p.logger.Warn("could not record history", "path", res.Path, "error", err)
	}
	return res
}
