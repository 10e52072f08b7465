// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RenderBackend identifies the HTML-to-PDF engine used for DOCX conversion.
type RenderBackend string

const (
	BackendChrome    RenderBackend = "chrome"
	BackendContainer RenderBackend = "container"
)

const (
	// DefaultRenderTimeout bounds content load in the browser page.
	DefaultRenderTimeout = 60 * time.Second
	// DefaultContainerImage reads HTML on stdin and writes PDF on stdout.
	DefaultContainerImage = "docsweep-htmlpdf:latest"
	// DefaultDelimiter separates fields in exported sheets.
	DefaultDelimiter = ','
)

// ConvertConfig holds settings for a directory conversion pass.
type ConvertConfig struct {
	// Dir is the source directory scanned (non-recursively) for documents.
	Dir string `json:"dir" yaml:"dir"`

	// MaxParallel caps concurrent DOCX renders. Zero or negative means no limit.
	MaxParallel int `json:"max_parallel" yaml:"max_parallel"`
}

// RenderConfig holds settings for the DOCX-to-PDF renderer.
type RenderConfig struct {
	// Backend selects the PDF engine: chrome or container.
	Backend RenderBackend `json:"backend" yaml:"backend"`

	// Timeout bounds page content load and PDF emission (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// BrowserURL is an optional DevTools websocket URL of a running browser.
	// When empty a local headless browser is launched per conversion.
	BrowserURL string `json:"browser_url,omitempty" yaml:"browser_url,omitempty"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image"`
}

// SheetConfig holds settings for the XLSX-to-CSV exporter.
type SheetConfig struct {
	// Delimiter separates fields in the exported text files (default ',').
	Delimiter rune `json:"delimiter" yaml:"delimiter"`
}

// JournalConfig holds settings for the optional SQLite run history.
type JournalConfig struct {
	// Path is the database file. Empty disables the journal.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Config groups every setting the CLI assembles from flags and viper.
type Config struct {
	Convert ConvertConfig `json:"convert" yaml:"convert"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Sheet   SheetConfig   `json:"sheet" yaml:"sheet"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// Defaults returns a Config with every default filled in.
func Defaults() Config {
	return Config{
		Convert: ConvertConfig{Dir: "."},
		Render: RenderConfig{
			Backend: BackendChrome,
			Timeout: DefaultRenderTimeout,
			Image:   DefaultContainerImage,
		},
		Sheet: SheetConfig{Delimiter: DefaultDelimiter},
	}
}

// WithDefaults returns c with zero-valued fields replaced by defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Convert.Dir == "" {
		c.Convert.Dir = d.Convert.Dir
	}
	if c.Render.Backend == "" {
		c.Render.Backend = d.Render.Backend
	}
	if c.Render.Timeout <= 0 {
		c.Render.Timeout = d.Render.Timeout
	}
	if c.Render.Image == "" {
		c.Render.Image = d.Render.Image
	}
	if c.Sheet.Delimiter == 0 {
		c.Sheet.Delimiter = d.Sheet.Delimiter
	}
	return c
}
