package detect

import (
	"fmt"

	"github.com/driftdetect/deadwood/pkg/analyzer/entrypoints"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// Unreferenced reports declarations outside the reachable set (DC001).
type Unreferenced struct{}

// Code implements Detector.
func (Unreferenced) Code() models.IssueCode { return models.CodeUnreferenced }

// Detect implements Detector.
func (Unreferenced) Detect(ctx *Context) []models.Finding {
	var findings []models.Finding
	for _, d := range ctx.Graph.Declarations() {
		if ctx.Reach.Reachable(d.NodeID) {
			continue
		}
		if skipUnreferenced(ctx, d) {
			continue
		}
		findings = append(findings, models.NewFinding(
			models.CodeUnreferenced, d,
			fmt.Sprintf("%s '%s' is never used", d.Kind, d.Name)))
	}
	return findings
}

func skipUnreferenced(ctx *Context, d *graph.Declaration) bool {
	switch d.Kind {
	case graph.KindParameter, graph.KindResource:
		// DC003 and the resource detector own these.
		return true
	case graph.KindEnumCase:
		// DC005 owns enum cases.
		return true
	case graph.KindSealedVariant:
		// DC008 owns sealed variants.
		return true
	}

	// Data-class synthetics and const vals are erased or generated; a
	// retain annotation means possible reflective use.
	if d.Synthetic || d.ConstVal {
		return true
	}
	if entrypoints.HasRetainAnnotation(d) {
		return true
	}

	// Overrides may be dispatched through the supertype; without full type
	// hierarchies that cannot be ruled out.
	if d.Override {
		return true
	}

	if d.HasParent() {
		parent, ok := ctx.Graph.ByID(d.Parent)
		if ok {
			// An unreachable parent type is reported once, not per member.
			if parent.Kind.IsType() && !ctx.Reach.Reachable(parent.NodeID) {
				return true
			}
			// Convention and suspend members of reachable classes are
			// auto-retained (they are in the reachable set already, but a
			// convention member added after reachability ran stays safe).
			if (d.Convention || d.Suspend) && ctx.Reach.Reachable(parent.NodeID) {
				return true
			}
			if d.Kind == graph.KindConstructor && !ctx.Reach.Reachable(parent.NodeID) {
				return true
			}
		}
	}
	return false
}
