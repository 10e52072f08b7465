// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunSummary_Add(t *testing.T) {
	var s RunSummary
	for _, st := range []FileStatus{
		StatusConverted, StatusConverted, StatusSkipped,
		StatusFailed, StatusUnsupported, StatusFinal,
	} {
		s.Add(FileResult{Source: string(st), Status: st})
	}

	assert.Equal(t, 2, s.Converted)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Unsupported)
	assert.Equal(t, 1, s.Final)
	assert.Equal(t, 6, s.Total())
	assert.True(t, s.HasFailures())
	assert.Len(t, s.Results, 6)
}

func TestRunSummary_SortAndLookup(t *testing.T) {
	var s RunSummary
	s.Add(FileResult{Source: "/d/c.docx", Status: StatusConverted})
	s.Add(FileResult{Source: "/d/a.xlsx", Status: StatusSkipped})
	s.Add(FileResult{Source: "/d/b.pptx", Status: StatusUnsupported})
	s.Sort()

	got := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		got = append(got, r.Source)
	}
	assert.Equal(t, []string{"/d/a.xlsx", "/d/b.pptx", "/d/c.docx"}, got)

	r, ok := s.Result("/d/b.pptx")
	assert.True(t, ok)
	assert.Equal(t, StatusUnsupported, r.Status)

	_, ok = s.Result("/d/missing.docx")
	assert.False(t, ok)
	assert.False(t, s.HasFailures())
}

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{Render: RenderConfig{Backend: BackendContainer}}.WithDefaults()

	assert.Equal(t, ".", c.Convert.Dir)
	assert.Equal(t, BackendContainer, c.Render.Backend)
	assert.Equal(t, 60*time.Second, c.Render.Timeout)
	assert.Equal(t, DefaultContainerImage, c.Render.Image)
	assert.Equal(t, ',', c.Sheet.Delimiter)
	assert.Empty(t, c.Journal.Path)
}
