// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet exports spreadsheet workbooks as delimited text, one file per
// sheet.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/docsweep/pkg/types"
)

// ErrNoSheets is returned for a workbook without any sheet.
var ErrNoSheets = errors.New("sheet: workbook has no sheets")

// Exporter writes each sheet of a workbook to its own delimited-text file.
type Exporter struct {
	delimiter rune
	log       zerolog.Logger
}

// New creates an Exporter from cfg.
func New(cfg types.SheetConfig, log zerolog.Logger) *Exporter {
	d := cfg.Delimiter
	if d == 0 {
		d = types.DefaultDelimiter
	}
	return &Exporter{delimiter: d, log: log}
}

// SheetPath returns the output path for a sheet after the first: the sheet
// name is inserted before the ".csv" suffix of the primary path. The name is
// used as is.
func SheetPath(primary, sheet string) string {
	return strings.TrimSuffix(primary, ".csv") + "_" + sheet + ".csv"
}

// Export parses the workbook at srcPath and writes its first sheet to
// csvPath and every later sheet to SheetPath(csvPath, name). It returns the
// paths written, in sheet order, including those written before a failure.
// Files already written are not removed when a later sheet fails.
func (e *Exporter) Export(srcPath, csvPath string) ([]string, error) {
	f, err := excelize.OpenFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", srcPath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	written := make([]string, 0, len(sheets))
	for i, name := range sheets {
		out := csvPath
		if i > 0 {
			out = SheetPath(csvPath, name)
		}

		rows, err := f.GetRows(name)
		if err != nil {
			return written, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		if err := e.writeFile(out, rows); err != nil {
			return written, fmt.Errorf("writing sheet %q: %w", name, err)
		}
		written = append(written, out)

		e.log.Debug().Str("sheet", name).Int("rows", len(rows)).Str("path", out).Msg("exported sheet")
	}
	return written, nil
}

func (e *Exporter) writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// write serializes rows, padding each to the widest row so every record has
// the same number of fields.
func (e *Exporter) write(f *os.File, rows [][]string) error {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	w := csv.NewWriter(f)
	w.Comma = e.delimiter
	record := make([]string, width)
	for _, r := range rows {
		n := copy(record, r)
		for i := n; i < width; i++ {
			record[i] = ""
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
