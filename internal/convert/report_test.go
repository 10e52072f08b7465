// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docsweep/pkg/types"
)

func TestWriteReport_RoundTrip(t *testing.T) {
	var s types.RunSummary
	s.Dir = "/srv/inbox"
	s.StartedAt = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	s.FinishedAt = s.StartedAt.Add(2 * time.Second)
	s.Add(types.FileResult{
		Source: "/srv/inbox/a.docx", Kind: types.KindDOCX, Status: types.StatusConverted,
		Targets: []string{"/srv/inbox/a.pdf"}, Duration: 850 * time.Millisecond,
	})
	s.Add(types.FileResult{Source: "/srv/inbox/b.pptx", Kind: types.KindPPTX, Status: types.StatusUnsupported})

	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	require.NoError(t, WriteReport(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dir: /srv/inbox")
	assert.Contains(t, string(data), "status: unsupported")

	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Converted)
	assert.Equal(t, 1, got.Unsupported)
	require.Len(t, got.Results, 2)
	assert.Equal(t, 850*time.Millisecond, got.Results[0].Duration)
	assert.True(t, got.StartedAt.Equal(s.StartedAt))
}

func TestReadReport_Missing(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
