// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/pdiddy/docsweep/pkg/types"
)

const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginMM       = 20.0
	mmPerInch      = 25.4
)

// ChromeEngine prints HTML to PDF in headless Chrome through the DevTools
// protocol. Each PDF call gets its own browser process (or, with a control
// URL, its own incognito context in a shared browser) and a single page;
// all of them are released before PDF returns.
type ChromeEngine struct {
	timeout    time.Duration
	controlURL string
	log        zerolog.Logger
}

// NewChromeEngine creates a Chrome engine from the render configuration.
func NewChromeEngine(cfg types.RenderConfig, log zerolog.Logger) *ChromeEngine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultRenderTimeout
	}
	return &ChromeEngine{timeout: timeout, controlURL: cfg.BrowserURL, log: log}
}

// PDF loads html into a fresh page and prints it as A4 with 20mm margins.
func (e *ChromeEngine) PDF(ctx context.Context, html string) ([]byte, error) {
	browser, release, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}
	defer func() { _ = incognito.Close() }()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = page.Close() }()

	loading := page.Timeout(e.timeout)
	if err := loading.SetDocumentContent(html); err != nil {
		return nil, e.wrap("setting page content", err)
	}
	if err := loading.WaitLoad(); err != nil {
		return nil, e.wrap("waiting for page load", err)
	}
	loading.CancelTimeout()

	printing := page.Timeout(e.timeout)
	defer printing.CancelTimeout()
	stream, err := printing.PDF(printOptions())
	if err != nil {
		return nil, e.wrap("printing PDF", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, e.wrap("reading PDF stream", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyPDF
	}
	return data, nil
}

// connect returns a browser bound to ctx and a release func that tears it
// down. Without a control URL a new headless browser process is launched.
func (e *ChromeEngine) connect(ctx context.Context) (*rod.Browser, func(), error) {
	if e.controlURL != "" {
		// The shared browser stays up; dropping the connection is enough.
		cctx, cancel := context.WithCancel(ctx)
		b := rod.New().ControlURL(e.controlURL).Context(cctx)
		if err := b.Connect(); err != nil {
			cancel()
			return nil, nil, fmt.Errorf("connecting to browser at %s: %w", e.controlURL, err)
		}
		return b, cancel, nil
	}

	start := time.Now()
	l := launcher.New().Context(ctx).Headless(true).Set("disable-gpu")
	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}
	e.log.Debug().Str("control_url", u).Dur("elapsed", time.Since(start)).Msg("browser launched")

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return b, func() {
		_ = b.Close()
		l.Kill()
		l.Cleanup()
	}, nil
}

func (e *ChromeEngine) wrap(step string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w after %s", step, ErrTimeout, e.timeout)
	}
	return fmt.Errorf("%s: %w", step, err)
}

// printOptions returns the printToPDF request: A4 paper, backgrounds
// printed, 20mm margins on every side.
func printOptions() *proto.PagePrintToPDF {
	margin := marginMM / mmPerInch
	return &proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      num(a4WidthInches),
		PaperHeight:     num(a4HeightInches),
		MarginTop:       num(margin),
		MarginBottom:    num(margin),
		MarginLeft:      num(margin),
		MarginRight:     num(margin),
	}
}

func num(v float64) *float64 { return &v }
