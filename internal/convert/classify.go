// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/docsweep/pkg/types"
)

// ownerFilePrefix marks the lock files Office writes beside an open document.
const ownerFilePrefix = "~$"

var kindsByExt = map[string]types.FileKind{
	".docx": types.KindDOCX,
	".xlsx": types.KindXLSX,
	".pptx": types.KindPPTX,
	".pdf":  types.KindPDF,
}

// Classify returns the document kind for name by its extension, compared
// case-insensitively. It reports false for every other file, including
// Office owner files.
func Classify(name string) (types.FileKind, bool) {
	if strings.HasPrefix(filepath.Base(name), ownerFilePrefix) {
		return "", false
	}
	kind, ok := kindsByExt[strings.ToLower(filepath.Ext(name))]
	return kind, ok
}

// TargetPath replaces the extension of path with ext.
func TargetPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
