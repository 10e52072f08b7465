// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs a conversion pass over one directory: DOCX files are
// rendered to PDF concurrently, XLSX workbooks are exported to CSV inline,
// and files whose target already exists are skipped.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/docsweep/pkg/types"
)

// Renderer converts a word-processing document to PDF.
type Renderer interface {
	Render(ctx context.Context, srcPath, pdfPath string) error
}

// Exporter converts a workbook to one CSV file per sheet and returns the
// paths written.
type Exporter interface {
	Export(srcPath, csvPath string) ([]string, error)
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// Driver performs directory conversion passes.
type Driver struct {
	dir         string
	maxParallel int
	renderer    Renderer
	exporter    Exporter
	w           io.Writer
	log         zerolog.Logger

	mu      sync.Mutex
	summary types.RunSummary
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// New creates a Driver for cfg.Dir. Status lines are written to w.
func New(cfg types.ConvertConfig, r Renderer, e Exporter, w io.Writer, opts ...Option) *Driver {
	d := &Driver{
		dir:         cfg.Dir,
		maxParallel: cfg.MaxParallel,
		renderer:    r,
		exporter:    e,
		w:           w,
		log:         zerolog.Nop(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Run scans the directory once. Workbooks are exported in scan order before
// Run waits for the document renders it scheduled. Per-file failures are
// recorded in the summary and never returned; the error is reserved for
// failures that prevent the pass, such as an unreadable directory, or for
// ctx being cancelled.
func (d *Driver) Run(ctx context.Context) (types.RunSummary, error) {
	dir, err := filepath.Abs(d.dir)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("resolving source directory %s: %w", d.dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("reading source directory %s: %w", dir, err)
	}

	d.mu.Lock()
	d.summary = types.RunSummary{Dir: dir, StartedAt: time.Now()}
	d.mu.Unlock()

	var (
		renders errgroup.Group
		limit   *semaphore.Weighted
	)
	if d.maxParallel > 0 {
		limit = semaphore.NewWeighted(int64(d.maxParallel))
	}

	var scanErr error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			scanErr = err
			break
		}
		if entry.IsDir() {
			continue
		}
		kind, ok := Classify(entry.Name())
		if !ok {
			continue
		}
		src := filepath.Join(dir, entry.Name())

		switch kind {
		case types.KindPDF:
			d.record(types.FileResult{Source: src, Kind: kind, Status: types.StatusFinal})
		case types.KindPPTX:
			d.record(types.FileResult{Source: src, Kind: kind, Status: types.StatusUnsupported})
		case types.KindDOCX:
			target := TargetPath(src, ".pdf")
			if exists(target) {
				d.record(skipped(src, kind, target))
				continue
			}
			d.log.Debug().Str("source", src).Msg("scheduling render")
			renders.Go(func() error {
				d.render(ctx, limit, src, target)
				return nil
			})
		case types.KindXLSX:
			target := TargetPath(src, ".csv")
			if exists(target) {
				d.record(skipped(src, kind, target))
				continue
			}
			d.export(src, target)
		}
	}

	_ = renders.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	summary := d.summary
	summary.FinishedAt = time.Now()
	summary.Sort()

	fmt.Fprintf(d.w, "\nConversion complete: %d converted, %d skipped, %d failed, %d unsupported, %d already PDF (total: %d)\n",
		summary.Converted, summary.Skipped, summary.Failed, summary.Unsupported, summary.Final, summary.Total())
	d.log.Info().
		Str("dir", dir).
		Int("converted", summary.Converted).
		Int("failed", summary.Failed).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("pass finished")

	return summary, scanErr
}

func (d *Driver) render(ctx context.Context, limit *semaphore.Weighted, src, target string) {
	res := types.FileResult{Source: src, Kind: types.KindDOCX}
	if limit != nil {
		if err := limit.Acquire(ctx, 1); err != nil {
			res.Status = types.StatusFailed
			res.Error = err.Error()
			d.record(res)
			return
		}
		defer limit.Release(1)
	}

	start := time.Now()
	err := d.renderer.Render(ctx, src, target)
	res.Duration = time.Since(start)
	if err != nil {
		res.Status = types.StatusFailed
		res.Error = err.Error()
	} else {
		res.Status = types.StatusConverted
		res.Targets = []string{target}
	}
	d.record(res)
}

func (d *Driver) export(src, target string) {
	start := time.Now()
	written, err := d.exporter.Export(src, target)
	res := types.FileResult{
		Source:   src,
		Kind:     types.KindXLSX,
		Targets:  written,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Status = types.StatusFailed
		res.Error = err.Error()
	} else {
		res.Status = types.StatusConverted
	}
	d.record(res)
}

// record adds r to the summary and prints its status line.
func (d *Driver) record(r types.FileResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.summary.Add(r)

	name := filepath.Base(r.Source)
	switch r.Status {
	case types.StatusConverted:
		fmt.Fprintf(d.w, "%s %s -> %s\n", green(pad("converted:")), name, baseNames(r.Targets))
	case types.StatusSkipped:
		fmt.Fprintf(d.w, "%s %s (%s already exists)\n", faint(pad("skipped:")), name, baseNames(r.Targets))
	case types.StatusFailed:
		fmt.Fprintf(d.w, "%s %s (%s)\n", red(pad("failed:")), name, r.Error)
	case types.StatusUnsupported:
		fmt.Fprintf(d.w, "%s %s (PowerPoint conversion is not supported)\n", yellow(pad("warning:")), name)
	case types.StatusFinal:
		fmt.Fprintf(d.w, "%s %s (already a PDF, nothing to do)\n", cyan(pad("info:")), name)
	}
}

func skipped(src string, kind types.FileKind, target string) types.FileResult {
	return types.FileResult{Source: src, Kind: kind, Status: types.StatusSkipped, Targets: []string{target}}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func pad(label string) string {
	return fmt.Sprintf("%-10s", label)
}

func baseNames(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return strings.Join(names, ", ")
}
