// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docsweep/internal/convert"
	"github.com/pdiddy/docsweep/internal/journal"
	"github.com/pdiddy/docsweep/internal/render"
	"github.com/pdiddy/docsweep/internal/sheet"
	"github.com/pdiddy/docsweep/pkg/types"
)

// pass wires a Driver to its optional journal and report outputs.
type pass struct {
	driver  *convert.Driver
	journal *journal.Journal
	report  string
	log     zerolog.Logger
}

// newPass builds the render engine, exporter and driver for cfg and opens
// the journal when one is configured.
func newPass(ctx context.Context, cfg types.Config, report string, w io.Writer, log zerolog.Logger) (*pass, error) {
	engine, err := render.NewEngine(ctx, cfg.Render, log)
	if err != nil {
		return nil, fmt.Errorf("preparing render backend: %w", err)
	}
	renderer := render.New(engine, render.WithLogger(log))
	exporter := sheet.New(cfg.Sheet, log)

	p := &pass{
		driver: convert.New(cfg.Convert, renderer, exporter, w, convert.WithLogger(log)),
		report: report,
		log:    log,
	}
	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		p.journal = j
	}
	return p, nil
}

// run performs one pass and records it. Only failures that prevent the pass
// or its bookkeeping are returned.
func (p *pass) run(ctx context.Context) (types.RunSummary, error) {
	summary, err := p.driver.Run(ctx)
	if err != nil {
		return summary, err
	}
	if p.journal != nil {
		id, err := p.journal.Record(ctx, summary)
		if err != nil {
			return summary, fmt.Errorf("recording run: %w", err)
		}
		p.log.Debug().Int64("run", id).Msg("run recorded in journal")
	}
	if p.report != "" {
		if err := convert.WriteReport(p.report, summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (p *pass) close() {
	if p.journal != nil {
		if err := p.journal.Close(); err != nil {
			p.log.Warn().Err(err).Msg("closing journal")
		}
	}
}
