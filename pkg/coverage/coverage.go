// Package coverage parses runtime coverage reports (JaCoCo and Kover XML,
// LCOV) into a per-file line-hit map used to confirm static findings.
package coverage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileCoverage tracks line execution for one source file.
type FileCoverage struct {
	Path      string
	Covered   map[int]bool // line -> executed at least once
	Uncovered map[int]bool // line -> instrumented, never executed
}

// NewFileCoverage creates an empty per-file record.
func NewFileCoverage(path string) *FileCoverage {
	return &FileCoverage{Path: path, Covered: make(map[int]bool), Uncovered: make(map[int]bool)}
}

// Data aggregates coverage across report files.
type Data struct {
	Files            map[string]*FileCoverage
	CoveredClasses   map[string]bool
	UncoveredClasses map[string]bool
	CoveredMethods   map[string]bool
	UncoveredMethods map[string]bool
}

// NewData creates an empty aggregate.
func NewData() *Data {
	return &Data{
		Files:            make(map[string]*FileCoverage),
		CoveredClasses:   make(map[string]bool),
		UncoveredClasses: make(map[string]bool),
		CoveredMethods:   make(map[string]bool),
		UncoveredMethods: make(map[string]bool),
	}
}

// Merge folds another report in; a line or member covered in any run is
// covered.
func (d *Data) Merge(other *Data) {
	for path, fc := range other.Files {
		existing, ok := d.Files[path]
		if !ok {
			d.Files[path] = fc
			continue
		}
		for line := range fc.Covered {
			existing.Covered[line] = true
			delete(existing.Uncovered, line)
		}
		for line := range fc.Uncovered {
			if !existing.Covered[line] {
				existing.Uncovered[line] = true
			}
		}
	}
	for c := range other.CoveredClasses {
		d.CoveredClasses[c] = true
		delete(d.UncoveredClasses, c)
	}
	for c := range other.UncoveredClasses {
		if !d.CoveredClasses[c] {
			d.UncoveredClasses[c] = true
		}
	}
	for m := range other.CoveredMethods {
		d.CoveredMethods[m] = true
		delete(d.UncoveredMethods, m)
	}
	for m := range other.UncoveredMethods {
		if !d.CoveredMethods[m] {
			d.UncoveredMethods[m] = true
		}
	}
}

// addFile registers a per-file record, merging with any prior one.
func (d *Data) addFile(fc *FileCoverage) {
	tmp := NewData()
	tmp.Files[fc.Path] = fc
	d.Merge(tmp)
}

// LineStatus is the verdict for a span lookup.
type LineStatus int

const (
	StatusUnknown LineStatus = iota
	StatusExecuted
	StatusNeverExecuted
)

// SpanStatus reports whether any instrumented line in [startLine, endLine]
// of the file executed. Files are matched by suffix: coverage reports key
// on package-relative paths, the graph on project-relative ones.
func (d *Data) SpanStatus(file string, startLine, endLine int) LineStatus {
	fc := d.lookupFile(file)
	if fc == nil {
		return StatusUnknown
	}
	sawInstrumented := false
	for line := startLine; line <= endLine; line++ {
		if fc.Covered[line] {
			return StatusExecuted
		}
		if fc.Uncovered[line] {
			sawInstrumented = true
		}
	}
	if sawInstrumented {
		return StatusNeverExecuted
	}
	return StatusUnknown
}

func (d *Data) lookupFile(file string) *FileCoverage {
	if fc, ok := d.Files[file]; ok {
		return fc
	}
	base := filepath.Base(file)
	for path, fc := range d.Files {
		if filepath.Base(path) == base {
			return fc
		}
	}
	return nil
}

// ClassStatus checks the class-level coverage sets by FQN, then by simple
// name suffix.
func (d *Data) ClassStatus(fqn, simple string) LineStatus {
	if d.CoveredClasses[fqn] {
		return StatusExecuted
	}
	if d.UncoveredClasses[fqn] {
		return StatusNeverExecuted
	}
	for c := range d.CoveredClasses {
		if strings.HasSuffix(c, "."+simple) {
			return StatusExecuted
		}
	}
	for c := range d.UncoveredClasses {
		if strings.HasSuffix(c, "."+simple) {
			return StatusNeverExecuted
		}
	}
	return StatusUnknown
}

// ParseFile auto-detects the report format.
func ParseFile(path string) (*Data, error) {
	switch {
	case strings.HasSuffix(path, ".xml"):
		data, err := parseJacocoFile(path)
		if err == nil && (len(data.Files) > 0 || len(data.CoveredClasses)+len(data.UncoveredClasses) > 0) {
			return data, nil
		}
		return parseKoverFile(path)
	case strings.HasSuffix(path, ".info") || strings.HasSuffix(path, ".lcov"):
		return parseLcovFile(path)
	default:
		return nil, fmt.Errorf("unrecognized coverage format: %s", path)
	}
}
