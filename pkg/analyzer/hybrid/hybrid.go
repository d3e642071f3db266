// Package hybrid overlays runtime coverage and shrinker output onto static
// findings. Evidence only ever raises confidence: coverage noise (inlining,
// default-argument unrolling) must not hide a real static result.
package hybrid

import (
	"github.com/driftdetect/deadwood/pkg/analyzer/entrypoints"
	"github.com/driftdetect/deadwood/pkg/coverage"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
	"github.com/driftdetect/deadwood/pkg/shrinker"
)

// Overlay augments findings when coverage or shrinker data is present.
type Overlay struct {
	Coverage *coverage.Data
	Shrinker *shrinker.Usage
}

// HasData reports whether any overlay source is loaded.
func (o *Overlay) HasData() bool {
	return o != nil && (o.Coverage != nil || o.Shrinker != nil)
}

// Apply assigns the final confidence of each finding: the §static rules
// first, then overlay confirmation.
func (o *Overlay) Apply(findings []models.Finding, g *graph.Graph) []models.Finding {
	out := make([]models.Finding, len(findings))
	for i, f := range findings {
		out[i] = o.applyOne(f, g)
	}
	return out
}

func (o *Overlay) applyOne(f models.Finding, g *graph.Graph) models.Finding {
	d := f.Declaration
	if d != nil && f.Confidence == models.ConfidenceMedium {
		f.Confidence = staticConfidence(d, g)
	}

	if d == nil || !o.HasData() {
		return f
	}

	if o.Shrinker != nil && shrinkerConfirms(o.Shrinker, d, g) {
		f.ShrinkerConfirm = true
		f.Confidence = models.ConfidenceConfirmed
	}

	if o.Coverage != nil {
		switch coverageStatus(o.Coverage, d) {
		case coverage.StatusNeverExecuted:
			f.RuntimeConfirmed = true
			f.Confidence = models.ConfidenceConfirmed
		case coverage.StatusExecuted:
			// Executed lines leave the confidence as it is: coverage
			// agreement only raises it, so coverage noise cannot lower it.
		}
	}
	return f
}

// staticConfidence applies the visibility and annotation rules: complete
// information about private/internal symbols raises confidence to high;
// unrecognized annotations on the declaration or its parent lower it to low;
// anything else, public surface included, stays medium.
func staticConfidence(d *graph.Declaration, g *graph.Graph) models.Confidence {
	if entrypoints.HasUnknownAnnotation(d) {
		return models.ConfidenceLow
	}
	if parent, ok := g.ByID(d.Parent); ok && entrypoints.HasUnknownAnnotation(parent) {
		return models.ConfidenceLow
	}
	if d.Visible == graph.VisPrivate || d.Visible == graph.VisInternal {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}

func shrinkerConfirms(u *shrinker.Usage, d *graph.Declaration, g *graph.Graph) bool {
	if d.Kind.IsType() {
		return u.IsClassDead(d.FQN)
	}
	parentFQN := ""
	if parent, ok := g.ByID(d.Parent); ok {
		parentFQN = parent.FQN
	}
	if parentFQN == "" {
		return false
	}
	arity := -1
	if d.Kind.IsCallable() {
		arity = d.Arity
	}
	return u.IsClassDead(parentFQN) || u.IsMemberDead(parentFQN, d.Name, arity)
}

func coverageStatus(cov *coverage.Data, d *graph.Declaration) coverage.LineStatus {
	end := d.EndLine
	if end < d.Location.Line {
		end = d.Location.Line
	}
	if status := cov.SpanStatus(d.Location.File, d.Location.Line, end); status != coverage.StatusUnknown {
		return status
	}
	if d.Kind.IsType() {
		return cov.ClassStatus(d.FQN, d.Name)
	}
	return coverage.StatusUnknown
}

// RuntimeDead returns extra findings for declarations that are statically
// reachable but never executed according to coverage
// (--include-runtime-dead).
func (o *Overlay) RuntimeDead(g *graph.Graph, reachable func(uint32) bool) []models.Finding {
	if o == nil || o.Coverage == nil {
		return nil
	}
	var out []models.Finding
	for _, d := range g.Declarations() {
		if !reachable(d.NodeID) || d.Synthetic {
			continue
		}
		if !d.Kind.IsCallable() && !d.Kind.IsType() {
			continue
		}
		if coverageStatus(o.Coverage, d) != coverage.StatusNeverExecuted {
			continue
		}
		f := models.NewFinding(models.CodeUnreferenced, d,
			d.Display()+" is reachable but was never executed at runtime")
		f.RuntimeConfirmed = true
		f.Confidence = models.ConfidenceConfirmed
		out = append(out, f)
	}
	return out
}
