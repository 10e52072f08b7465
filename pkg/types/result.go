// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for docsweep: configuration,
// per-file conversion results and the run summary a directory pass produces.
package types

import (
	"sort"
	"time"
)

// FileKind is the document family of a source file, derived from its extension.
type FileKind string

const (
	KindDOCX FileKind = "docx"
	KindXLSX FileKind = "xlsx"
	KindPPTX FileKind = "pptx"
	KindPDF  FileKind = "pdf"
)

// FileStatus is the outcome of handling one source file during a pass.
type FileStatus string

const (
	// StatusConverted means the target file(s) were written in this pass.
	StatusConverted FileStatus = "converted"
	// StatusSkipped means the primary target already existed.
	StatusSkipped FileStatus = "skipped"
	// StatusFailed means conversion was attempted and failed.
	StatusFailed FileStatus = "failed"
	// StatusUnsupported means the format is recognised but not convertible.
	StatusUnsupported FileStatus = "unsupported"
	// StatusFinal means the file is already in a final format.
	StatusFinal FileStatus = "final"
)

// FileResult records what happened to one source file.
type FileResult struct {
	// Source is the path of the source document.
	Source string `json:"source" yaml:"source"`

	// Kind is the document family of Source.
	Kind FileKind `json:"kind" yaml:"kind"`

	// Status is the outcome.
	Status FileStatus `json:"status" yaml:"status"`

	// Targets lists the files written, in order. For a skipped file it holds
	// the existing primary target.
	Targets []string `json:"targets,omitempty" yaml:"targets,omitempty"`

	// Error is the failure reason when Status is StatusFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Duration is the time spent converting; zero for files not converted.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// RunSummary aggregates the results of one directory pass.
type RunSummary struct {
	Dir        string       `json:"dir" yaml:"dir"`
	StartedAt  time.Time    `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time    `json:"finished_at" yaml:"finished_at"`
	Results    []FileResult `json:"results" yaml:"results"`

	Converted   int `json:"converted" yaml:"converted"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Failed      int `json:"failed" yaml:"failed"`
	Unsupported int `json:"unsupported" yaml:"unsupported"`
	Final       int `json:"final" yaml:"final"`
}

// Add records r and updates the counters.
func (s *RunSummary) Add(r FileResult) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusConverted:
		s.Converted++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	case StatusUnsupported:
		s.Unsupported++
	case StatusFinal:
		s.Final++
	}
}

// Sort orders Results by source path.
func (s *RunSummary) Sort() {
	sort.Slice(s.Results, func(i, j int) bool {
		return s.Results[i].Source < s.Results[j].Source
	})
}

// Total returns the number of files handled.
func (s RunSummary) Total() int {
	return s.Converted + s.Skipped + s.Failed + s.Unsupported + s.Final
}

// HasFailures reports whether any file failed conversion.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// Result returns the recorded result for source, if any.
func (s RunSummary) Result(source string) (FileResult, bool) {
	for _, r := range s.Results {
		if r.Source == source {
			return r, true
		}
	}
	return FileResult{}, false
}
