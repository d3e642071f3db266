// Package aggregate merges detector output into the final ordered finding
// set: overlay confidence, baseline suppression, confidence filtering, and
// the deterministic sort that makes runs byte-identical across core counts.
package aggregate

import (
	"sort"

	"github.com/driftdetect/deadwood/pkg/analyzer/hybrid"
	"github.com/driftdetect/deadwood/pkg/baseline"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// Options configures aggregation.
type Options struct {
	MinConfidence models.Confidence
	RuntimeOnly   bool
	Baseline      *baseline.Baseline
}

// Result is the aggregated outcome.
type Result struct {
	Findings []models.Finding
	Summary  models.Summary
}

// Run applies the full pipeline to raw detector output.
func Run(raw []models.Finding, g *graph.Graph, overlay *hybrid.Overlay, opts Options, summary models.Summary) *Result {
	findings := overlay.Apply(raw, g)

	kept := findings[:0]
	for _, f := range findings {
		if opts.Baseline.Suppresses(f) {
			summary.Suppressed++
			continue
		}
		if !f.Confidence.AtLeast(opts.MinConfidence) {
			continue
		}
		if opts.RuntimeOnly && f.Confidence != models.ConfidenceConfirmed {
			continue
		}
		kept = append(kept, f)
	}

	Sort(kept)
	for _, f := range kept {
		summary.Count(f)
	}
	summary.FillConfidenceStats(kept)

	return &Result{Findings: kept, Summary: summary}
}

// Sort orders findings by file, line, column, then code.
func Sort(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Code < b.Code
	})
}
