// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/docsweep/pkg/types"
)

// flagKeys maps command flags to the viper keys they override.
var flagKeys = map[string]string{
	"dir":          "convert.dir",
	"max-parallel": "convert.max_parallel",
	"backend":      "render.backend",
	"timeout":      "render.timeout",
	"browser-url":  "render.browser_url",
	"image":        "render.image",
	"delimiter":    "sheet.delimiter",
	"journal":      "journal.path",
}

// addPassFlags registers the flags shared by commands that run a pass.
func addPassFlags(fs *pflag.FlagSet) {
	d := types.Defaults()
	fs.String("dir", d.Convert.Dir, "source directory to scan")
	fs.Int("max-parallel", 0, "maximum concurrent document renders (0 = unbounded)")
	fs.String("backend", string(d.Render.Backend), "PDF backend: chrome or container")
	fs.Duration("timeout", d.Render.Timeout, "bound on loading each document in the renderer")
	fs.String("browser-url", "", "DevTools URL of a running browser (default: launch a local one)")
	fs.String("image", d.Render.Image, "container image for the container backend")
	fs.String("delimiter", string(d.Sheet.Delimiter), `field delimiter for exported sheets ("\t" for tab)`)
	fs.String("journal", "", "record each pass in this SQLite history file")
}

// bindFlags binds the flags cmd defines to their viper keys. Binding happens
// per invocation because several commands share the same keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// configFrom assembles the run configuration from v, with an optional
// directory argument taking precedence over every other source.
func configFrom(v *viper.Viper, args []string) (types.Config, error) {
	cfg := types.Config{
		Convert: types.ConvertConfig{
			Dir:         v.GetString("convert.dir"),
			MaxParallel: v.GetInt("convert.max_parallel"),
		},
		Render: types.RenderConfig{
			Backend:    types.RenderBackend(v.GetString("render.backend")),
			Timeout:    v.GetDuration("render.timeout"),
			BrowserURL: v.GetString("render.browser_url"),
			Image:      v.GetString("render.image"),
		},
		Journal: types.JournalConfig{Path: v.GetString("journal.path")},
	}
	if len(args) > 0 {
		cfg.Convert.Dir = args[0]
	}
	if cfg.Convert.MaxParallel < 0 {
		return cfg, fmt.Errorf("max-parallel must not be negative, got %d", cfg.Convert.MaxParallel)
	}

	delim, err := parseDelimiter(v.GetString("sheet.delimiter"))
	if err != nil {
		return cfg, err
	}
	cfg.Sheet.Delimiter = delim

	cfg = cfg.WithDefaults()
	switch cfg.Render.Backend {
	case types.BackendChrome, types.BackendContainer:
	default:
		return cfg, fmt.Errorf("unknown render backend %q (want %s or %s)",
			cfg.Render.Backend, types.BackendChrome, types.BackendContainer)
	}
	return cfg, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
