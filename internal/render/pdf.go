// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"

	"github.com/jeranaias/chatpdf/internal/layout"
)

// =============================================================================
// PDF RENDERER
// =============================================================================

const (
	// DefaultMargin is the page margin in points (one inch).
	DefaultMargin = 72.0

	// DefaultCreator is written to the document metadata.
	DefaultCreator = "chatpdf"

	// Family name registered for TrueType fonts.
	ttfFamily = "body"

	// Core font used when no TrueType font is configured.
	coreFamily = "Helvetica"

	// Vertical space around date rules (0.3cm and 0.5cm).
	ruleSpaceBefore = 8.5
	ruleSpaceAfter  = 14.17
	ruleThickness   = 1.0
)

// Options configures a PDFRenderer.
type Options struct {
	// RegularFont and BoldFont are TrueType font paths. Without a regular
	// font the core Helvetica font is used, limited to Windows-1252 text.
	// BoldFont defaults to RegularFont.
	RegularFont string
	BoldFont    string

	// Styles overrides the style table. Default: DefaultStyles()
	Styles *StyleTable

	// Margin is the page margin in points. Default: 72
	Margin float64

	// Creator is written to the document metadata. Default: "chatpdf"
	Creator string

	// Logger reports text the core font cannot show. Default: slog.Default()
	Logger *slog.Logger
}

// PDFRenderer renders documents as A4 portrait PDF files.
type PDFRenderer struct {
	opts      Options
	sanitizer *bluemonday.Policy
}

// NewPDFRenderer creates a new PDF renderer.
func NewPDFRenderer(opts Options) *PDFRenderer {
	if opts.Styles == nil {
		opts.Styles = DefaultStyles()
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.Creator == "" {
		opts.Creator = DefaultCreator
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &PDFRenderer{opts: opts, sanitizer: NewSanitizer()}
}

// FileExtension returns the file extension for PDF.
func (r *PDFRenderer) FileExtension() string {
	return ".pdf"
}

// MimeType returns the MIME type for PDF.
func (r *PDFRenderer) MimeType() string {
	return "application/pdf"
}

// Render draws every block in order and writes the PDF to w.
func (r *PDFRenderer) Render(w io.Writer, doc *Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(r.opts.Margin, r.opts.Margin, r.opts.Margin)
	pdf.SetAutoPageBreak(true, r.opts.Margin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.Subject, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator(r.opts.Creator, true)

	pw := &pdfWriter{
		pdf:    pdf,
		styles: r.opts.Styles,
		upper:  cases.Upper(doc.Language),
	}
	if err := pw.loadFonts(r.opts.RegularFont, r.opts.BoldFont); err != nil {
		return err
	}
	if pw.family == coreFamily {
		if count, sample := Unencodable(doc); count > 0 {
			r.opts.Logger.Warn("text outside Windows-1252 will not render without a TrueType font",
				"document", doc.Title, "characters", count, "sample", string(sample),
				"hint", "set fonts.regular to a TTF file")
		}
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	pw.left = left
	pw.width = pageWidth - left - right
	pw.bottom = pageHeight - bottom

	pdf.AddPage()
	for _, block := range doc.Blocks {
		pw.block(block, r.sanitizer.Sanitize(block.Text))
		if pdf.Err() {
			return fmt.Errorf("render %s block: %w", block.Kind, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Unencodable counts the characters of doc that the core font's
// Windows-1252 encoding cannot represent, and returns the first of them.
func Unencodable(doc *Document) (count int, sample rune) {
	check := func(s string) {
		for _, r := range s {
			if r < 0x80 {
				continue
			}
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				if count == 0 {
					sample = r
				}
				count++
			}
		}
	}
	check(doc.Title)
	check(doc.Subject)
	for _, b := range doc.Blocks {
		check(PlainText(b.Text))
	}
	return count, sample
}

// =============================================================================
// PAGE WRITER
// =============================================================================

// pdfWriter holds the drawing state of one Render call.
type pdfWriter struct {
	pdf       *fpdf.Fpdf
	styles    *StyleTable
	upper     cases.Caser
	family    string
	translate func(string) string

	left   float64 // Left margin
	width  float64 // Content width
	bottom float64 // Page break line
}

func (p *pdfWriter) loadFonts(regular, bold string) error {
	if regular == "" {
		p.family = coreFamily
		p.translate = p.pdf.UnicodeTranslatorFromDescriptor("cp1252")
		return nil
	}
	if bold == "" {
		bold = regular
	}
	for _, path := range []string{regular, bold} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("load font: %w", err)
		}
	}

	p.pdf.AddUTF8Font(ttfFamily, "", regular)
	p.pdf.AddUTF8Font(ttfFamily, "B", bold)
	if p.pdf.Err() {
		return fmt.Errorf("load font: %w", p.pdf.Error())
	}
	p.family = ttfFamily
	p.translate = func(s string) string { return s }
	return nil
}

func (p *pdfWriter) block(b layout.Block, markup string) {
	st := p.styles.For(b)

	runs := Tokenize(markup)
	if st.Upper {
		for i := range runs {
			runs[i].Text = p.upper.String(runs[i].Text)
		}
	}
	if b.Kind == layout.BlockDateSeparator {
		runs = append([]Run{{Text: "— "}}, append(runs, Run{Text: " —"})...)
	}

	p.space(st.SpaceBefore)
	if st.Rules {
		p.rule()
	}
	p.paragraph(runs, st)
	if st.Rules {
		p.rule()
	}
	p.space(st.SpaceAfter)
}

// space adds vertical space. Space at the top of a page is dropped.
func (p *pdfWriter) space(h float64) {
	if h <= 0 {
		return
	}
	_, top, _, _ := p.pdf.GetMargins()
	if p.pdf.GetY() <= top {
		return
	}
	p.pdf.Ln(h)
}

// rule draws a centered half-width horizontal rule.
func (p *pdfWriter) rule() {
	if p.pdf.GetY()+ruleSpaceBefore+ruleSpaceAfter > p.bottom {
		p.pdf.AddPage()
	}
	y := p.pdf.GetY() + ruleSpaceBefore
	x := p.left + p.width/4

	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.SetLineWidth(ruleThickness)
	p.pdf.SetLineCapStyle("round")
	p.pdf.Line(x, y, x+p.width/2, y)
	p.pdf.SetY(y + ruleSpaceAfter)
}

func (p *pdfWriter) setFont(st Style, link bool) {
	style := ""
	if st.Bold {
		style = "B"
	}
	if link {
		style += "U"
		c := p.styles.Link
		p.pdf.SetTextColor(c.R, c.G, c.B)
	} else {
		p.pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)
	}
	p.pdf.SetFont(p.family, style, st.Size)
}

func (p *pdfWriter) paragraph(runs []Run, st Style) {
	p.setFont(st, false)
	measure := func(s string) float64 {
		return p.pdf.GetStringWidth(p.translate(s))
	}

	align := "L"
	for _, ln := range wrap(runs, p.width, measure) {
		if len(ln.pieces) == 0 {
			p.pdf.Ln(st.Leading)
			continue
		}

		x := p.left
		switch st.Align {
		case AlignCenter:
			x += (p.width - ln.width) / 2
		case AlignRight:
			x += p.width - ln.width
		}

		for _, pc := range ln.pieces {
			p.setFont(st, pc.href != "")
			p.pdf.SetX(x)
			p.pdf.CellFormat(pc.width, st.Leading, p.translate(pc.text), "", 0, align, false, 0, pc.href)
			x += pc.width
		}
		p.pdf.Ln(st.Leading)
	}
}
