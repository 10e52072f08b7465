// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docsweep/internal/container"
	"github.com/pdiddy/docsweep/pkg/types"
)

var (
	// ErrEmptyPDF is returned when an engine produces no bytes.
	ErrEmptyPDF = errors.New("render: engine produced an empty PDF")
	// ErrTimeout is returned when page content does not load within the bound.
	ErrTimeout = errors.New("render: timed out")
)

// PDFEngine lays out a complete HTML document and returns the paginated PDF.
type PDFEngine interface {
	PDF(ctx context.Context, html string) ([]byte, error)
}

// NewEngine builds the PDF engine selected by cfg.Backend.
func NewEngine(ctx context.Context, cfg types.RenderConfig, log zerolog.Logger) (PDFEngine, error) {
	switch cfg.Backend {
	case types.BackendChrome, "":
		return NewChromeEngine(cfg, log), nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewContainerEngine(ctx, rt, cfg.Image)
	default:
		return nil, fmt.Errorf("unknown render backend %q (want %s or %s)",
			cfg.Backend, types.BackendChrome, types.BackendContainer)
	}
}

// ContainerEngine prints HTML to PDF by piping it through a container image
// that reads HTML on stdin and writes PDF on stdout.
type ContainerEngine struct {
	runtime container.Runtime
	image   string
}

// NewContainerEngine verifies that image exists in rt before returning.
func NewContainerEngine(ctx context.Context, rt container.Runtime, image string) (*ContainerEngine, error) {
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("PDF image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerEngine{runtime: rt, image: image}, nil
}

// PDF runs one throwaway container per document.
func (e *ContainerEngine) PDF(ctx context.Context, html string) ([]byte, error) {
	var out bytes.Buffer
	if err := e.runtime.Run(ctx, e.image, strings.NewReader(html), &out); err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, ErrEmptyPDF
	}
	return out.Bytes(), nil
}
