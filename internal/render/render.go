// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts word-processing documents to PDF: the body is
// extracted as an HTML fragment, embedded in a fixed page template, and
// printed to a paginated PDF by a PDFEngine.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docsweep/internal/docx"
)

// Extractor returns the body of the document at path as an HTML fragment.
type Extractor func(path string) (string, error)

// Renderer turns DOCX files into PDF files.
type Renderer struct {
	engine  PDFEngine
	extract Extractor
	log     zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithExtractor replaces the DOCX extractor.
func WithExtractor(x Extractor) Option {
	return func(r *Renderer) { r.extract = x }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// New creates a Renderer that prints through engine.
func New(engine PDFEngine, opts ...Option) *Renderer {
	r := &Renderer{
		engine:  engine,
		extract: docx.Extract,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render converts the document at srcPath to a PDF at pdfPath. The PDF is
// written only after every step has succeeded, so a failure leaves no
// target file behind.
func (r *Renderer) Render(ctx context.Context, srcPath, pdfPath string) error {
	start := time.Now()

	fragment, err := r.extract(srcPath)
	if err != nil {
		return fmt.Errorf("extracting document body: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	doc, err := Wrap(title, fragment)
	if err != nil {
		return err
	}

	pdf, err := r.engine.PDF(ctx, doc)
	if err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	if len(pdf) == 0 {
		return ErrEmptyPDF
	}

	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", pdfPath, err)
	}

	r.log.Debug().
		Str("source", srcPath).
		Int("html_bytes", len(doc)).
		Int("pdf_bytes", len(pdf)).
		Dur("elapsed", time.Since(start)).
		Msg("rendered document")
	return nil
}
