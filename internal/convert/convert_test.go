// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/docsweep/internal/render"
	"github.com/pdiddy/docsweep/internal/sheet"
	"github.com/pdiddy/docsweep/pkg/types"
)

// fakeRenderer writes a stub PDF, or fails for sources listed in errs.
type fakeRenderer struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
	hook  func(src string)
}

func (f *fakeRenderer) Render(_ context.Context, src, dst string) error {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(src))
	err := f.errs[filepath.Base(src)]
	f.mu.Unlock()

	if f.hook != nil {
		f.hook(src)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dst, []byte("%PDF-1.4 "+filepath.Base(src)), 0o644)
}

func (f *fakeRenderer) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

// fakeExporter writes a single CSV file per workbook.
type fakeExporter struct {
	calls []string
	err   error
	hook  func(src string)
}

func (f *fakeExporter) Export(src, csvPath string) ([]string, error) {
	f.calls = append(f.calls, filepath.Base(src))
	if f.hook != nil {
		f.hook(src)
	}
	if f.err != nil {
		return nil, f.err
	}
	if err := os.WriteFile(csvPath, []byte("a,b\n"), 0o644); err != nil {
		return nil, err
	}
	return []string{csvPath}, nil
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_Classification(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.docx", "UPPER.DOCX", "b.xlsx", "c.pptx", "d.pdf", "e.txt", "~$a.docx", "noext")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.docx"), 0o755))

	rend := &fakeRenderer{}
	exp := &fakeExporter{}
	var out bytes.Buffer
	summary, err := New(types.ConvertConfig{Dir: dir}, rend, exp, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Converted)
	assert.Equal(t, 1, summary.Unsupported)
	assert.Equal(t, 1, summary.Final)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 5, summary.Total())

	assert.Equal(t, []string{"UPPER.DOCX", "a.docx"}, rend.called())
	assert.Equal(t, []string{"b.xlsx"}, exp.calls)
	assert.FileExists(t, filepath.Join(dir, "a.pdf"))
	assert.FileExists(t, filepath.Join(dir, "UPPER.pdf"))
	assert.FileExists(t, filepath.Join(dir, "b.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "c.pdf"))

	_, ok := summary.Result(filepath.Join(dir, "e.txt"))
	assert.False(t, ok, "unknown extensions are not recorded")
	_, ok = summary.Result(filepath.Join(dir, "~$a.docx"))
	assert.False(t, ok, "owner files are not recorded")

	log := out.String()
	assert.Contains(t, log, "warning:")
	assert.Contains(t, log, "c.pptx (PowerPoint conversion is not supported)")
	assert.Contains(t, log, "d.pdf (already a PDF, nothing to do)")
	assert.Contains(t, log, "b.xlsx -> b.csv")
	assert.NotContains(t, log, "e.txt")
	assert.Contains(t, log, "Conversion complete: 3 converted, 0 skipped, 0 failed, 1 unsupported, 1 already PDF (total: 5)")
}

func TestRun_SkipsExistingTargets(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "report.docx", "data.xlsx", "report.pdf", "data.csv")
	old := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	for _, n := range []string{"report.pdf", "data.csv"} {
		require.NoError(t, os.Chtimes(filepath.Join(dir, n), old, old))
	}

	rend := &fakeRenderer{}
	exp := &fakeExporter{}
	var out bytes.Buffer
	summary, err := New(types.ConvertConfig{Dir: dir}, rend, exp, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, rend.called())
	assert.Empty(t, exp.calls)
	for _, n := range []string{"report.pdf", "data.csv"} {
		info, err := os.Stat(filepath.Join(dir, n))
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(old), "%s modification time changed", n)
	}
	assert.Contains(t, out.String(), "report.docx (report.pdf already exists)")
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.docx", "b.docx", "c.xlsx", "d.pptx")
	d := New(types.ConvertConfig{Dir: dir}, &fakeRenderer{}, &fakeExporter{}, &bytes.Buffer{})

	first, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Converted)
	before := listDir(t, dir)

	rend := &fakeRenderer{}
	exp := &fakeExporter{}
	second, err := New(types.ConvertConfig{Dir: dir}, rend, exp, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, second.Converted)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, 1, second.Unsupported)
	assert.Empty(t, rend.called())
	assert.Empty(t, exp.calls)
	assert.Equal(t, before, listDir(t, dir))
	assert.NotContains(t, listDir(t, dir), "d.pdf")
}

func TestRun_PerFileFailuresDoNotAbort(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bad.docx", "good.docx", "sheet.xlsx")

	rend := &fakeRenderer{errs: map[string]error{"bad.docx": errors.New("waiting for page load: render: timed out")}}
	exp := &fakeExporter{err: errors.New("opening workbook: zip: not a valid zip file")}
	var out bytes.Buffer
	summary, err := New(types.ConvertConfig{Dir: dir}, rend, exp, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Converted)
	assert.Equal(t, 2, summary.Failed)
	assert.True(t, summary.HasFailures())

	bad, ok := summary.Result(filepath.Join(dir, "bad.docx"))
	require.True(t, ok)
	assert.Equal(t, types.StatusFailed, bad.Status)
	assert.Contains(t, bad.Error, "timed out")
	assert.NoFileExists(t, filepath.Join(dir, "bad.pdf"))
	assert.FileExists(t, filepath.Join(dir, "good.pdf"))

	log := out.String()
	assert.Contains(t, log, "bad.docx (waiting for page load: render: timed out)")
	assert.Contains(t, log, "sheet.xlsx (opening workbook")
	assert.Contains(t, log, "Conversion complete:")
}

func TestRun_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")
	_, err := New(types.ConvertConfig{Dir: dir}, &fakeRenderer{}, &fakeExporter{}, &bytes.Buffer{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading source directory")
}

func TestRun_ExportsDoNotWaitForRenders(t *testing.T) {
	dir := t.TempDir()
	// "a.docx" sorts before "b.xlsx", so its render is scheduled first and
	// blocks until the workbook export has happened.
	touch(t, dir, "a.docx", "b.xlsx")

	exported := make(chan struct{})
	exp := &fakeExporter{hook: func(string) { close(exported) }}
	var sawExport atomic.Bool
	rend := &fakeRenderer{hook: func(string) {
		select {
		case <-exported:
			sawExport.Store(true)
		case <-time.After(5 * time.Second):
		}
	}}

	summary, err := New(types.ConvertConfig{Dir: dir}, rend, exp, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, sawExport.Load(), "render should run while the scan continues")
	assert.Equal(t, 2, summary.Converted)
}

func TestRun_Parallelism(t *testing.T) {
	names := []string{"1.docx", "2.docx", "3.docx", "4.docx", "5.docx"}

	t.Run("unbounded fan-out", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, names...)

		var arrived sync.WaitGroup
		arrived.Add(len(names))
		all := make(chan struct{})
		go func() { arrived.Wait(); close(all) }()

		var together atomic.Int32
		rend := &fakeRenderer{hook: func(string) {
			arrived.Done()
			select {
			case <-all:
				together.Add(1)
			case <-time.After(5 * time.Second):
			}
		}}
		_, err := New(types.ConvertConfig{Dir: dir}, rend, &fakeExporter{}, &bytes.Buffer{}).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(len(names)), together.Load(), "all renders should be in flight at once")
	})

	t.Run("max parallel caps renders", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, names...)

		var active, peak atomic.Int32
		rend := &fakeRenderer{hook: func(string) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			active.Add(-1)
		}}
		summary, err := New(types.ConvertConfig{Dir: dir, MaxParallel: 2}, rend, &fakeExporter{}, &bytes.Buffer{}).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, len(names), summary.Converted)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.docx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rend := &fakeRenderer{}
	summary, err := New(types.ConvertConfig{Dir: dir}, rend, &fakeExporter{}, &bytes.Buffer{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rend.called())
	assert.Equal(t, 0, summary.Total())
}

func TestRun_ResultsSortedBySource(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "c.docx", "a.docx", "b.pdf")
	summary, err := New(types.ConvertConfig{Dir: dir}, &fakeRenderer{}, &fakeExporter{}, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	var got []string
	for _, r := range summary.Results {
		got = append(got, filepath.Base(r.Source))
	}
	assert.Equal(t, []string{"a.docx", "b.pdf", "c.docx"}, got)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
}

// pdfEngine stands in for the browser and returns a fixed PDF.
type pdfEngine struct{}

func (pdfEngine) PDF(_ context.Context, html string) ([]byte, error) {
	if !strings.Contains(html, "<h1>Quarterly report</h1>") {
		return nil, errors.New("unexpected html")
	}
	return []byte("%PDF-1.4\n%%EOF\n"), nil
}

func writeDOCX(t *testing.T, path string) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Quarterly report</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Revenue grew.</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeXLSX(t *testing.T, path string, sheets ...string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetCellValue(name, "A1", name))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestRun_ReportAndWorkbookScenario(t *testing.T) {
	dir := t.TempDir()
	writeDOCX(t, filepath.Join(dir, "report.docx"))
	writeXLSX(t, filepath.Join(dir, "data.xlsx"), "Sheet1", "Sheet2")

	d := New(
		types.ConvertConfig{Dir: dir},
		render.New(pdfEngine{}),
		sheet.New(types.SheetConfig{}, zerolog.Nop()),
		&bytes.Buffer{},
	)
	summary, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, summary.Converted, "results: %+v", summary.Results)

	assert.Equal(t, []string{"data.csv", "data.xlsx", "data_Sheet2.csv", "report.docx", "report.pdf"}, listDir(t, dir))

	pdf, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	csv2, err := os.ReadFile(filepath.Join(dir, "data_Sheet2.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Sheet2\n", string(csv2))

	wb, ok := summary.Result(filepath.Join(dir, "data.xlsx"))
	require.True(t, ok)
	assert.Len(t, wb.Targets, 2)
}
