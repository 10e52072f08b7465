// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/docsweep/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		want   types.FileKind
		wantOK bool
	}{
		{"report.docx", types.KindDOCX, true},
		{"Report.DOCX", types.KindDOCX, true},
		{"data.xlsx", types.KindXLSX, true},
		{"deck.PpTx", types.KindPPTX, true},
		{"paper.pdf", types.KindPDF, true},
		{"notes.txt", "", false},
		{"legacy.doc", "", false},
		{"archive.docx.bak", "", false},
		{"README", "", false},
		{"~$report.docx", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := Classify(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestTargetPath(t *testing.T) {
	assert.Equal(t, "/in/report.pdf", TargetPath("/in/report.docx", ".pdf"))
	assert.Equal(t, "/in/Report.pdf", TargetPath("/in/Report.DOCX", ".pdf"))
	assert.Equal(t, "/in/v1.2.csv", TargetPath("/in/v1.2.xlsx", ".csv"))
}
