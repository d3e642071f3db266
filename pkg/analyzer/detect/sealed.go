package detect

import (
	"fmt"

	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// UnusedSealedVariant reports sealed variants that are never instantiated
// (DC008). A variant that only appears in `when` branches is
// exhaustiveness-required but dead: TypeUse edges do not count.
type UnusedSealedVariant struct{}

// Code implements Detector.
func (UnusedSealedVariant) Code() models.IssueCode { return models.CodeUnusedSealed }

// Detect implements Detector.
func (UnusedSealedVariant) Detect(ctx *Context) []models.Finding {
	var findings []models.Finding
	for _, d := range ctx.Graph.Declarations() {
		if d.Kind != graph.KindSealedVariant {
			continue
		}
		if variantAlive(ctx.Graph, d) {
			continue
		}
		f := models.NewFinding(models.CodeUnusedSealed, d,
			fmt.Sprintf("Sealed variant '%s' is never instantiated", d.Name))
		f.Confidence = models.ConfidenceHigh
		findings = append(findings, f)
	}
	return findings
}

// variantAlive applies the membership test. Object singletons live on any
// value reference; class variants need a constructor call.
func variantAlive(g *graph.Graph, d *graph.Declaration) bool {
	isObject := d.HasModifier("object")
	for _, e := range g.Incoming(d.NodeID) {
		switch e.Kind {
		case graph.RefInstantiation, graph.RefCall, graph.RefReflection:
			return true
		case graph.RefRead, graph.RefEnumEntryAccess, graph.RefDelegation:
			if isObject {
				return true
			}
		}
	}
	return false
}
