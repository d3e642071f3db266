package detect

import (
	"fmt"
	"strings"

	"github.com/driftdetect/deadwood/pkg/analyzer/entrypoints"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// WriteOnly reports properties and fields that are assigned but never read
// (DC002).
type WriteOnly struct{}

// Code implements Detector.
func (WriteOnly) Code() models.IssueCode { return models.CodeWriteOnly }

// frameworkFieldNames are conventionally held, not read, by Android code.
var frameworkFieldNames = map[string]bool{
	"binding":       true,
	"viewModel":     true,
	"adapter":       true,
	"layoutManager": true,
}

// Detect implements Detector.
func (WriteOnly) Detect(ctx *Context) []models.Finding {
	var findings []models.Finding
	for _, d := range ctx.Graph.Declarations() {
		if !writeOnlyCandidate(d) {
			continue
		}
		writes := ctx.Graph.CountWrites(d.NodeID)
		reads := ctx.Graph.CountReads(d.NodeID)
		if writes >= 1 && reads == 0 {
			f := models.NewFinding(models.CodeWriteOnly, d,
				fmt.Sprintf("%s '%s' is assigned %d time(s) but never read", d.Kind, d.Name, writes))
			findings = append(findings, f)
		}
	}
	return findings
}

func writeOnlyCandidate(d *graph.Declaration) bool {
	if d.Kind != graph.KindProperty && d.Kind != graph.KindField {
		return false
	}
	// Reads from outside the module are invisible for wider visibilities.
	if d.Visible != graph.VisPrivate && d.Visible != graph.VisInternal {
		return false
	}
	// const vals are inlined at compile time; their reads leave no trace.
	if d.ConstVal {
		return false
	}
	// Delegated properties route reads through getValue.
	if d.Delegated {
		return false
	}
	// _name backing fields are read through their public accessor.
	if d.BackingField || strings.HasPrefix(d.Name, "_") {
		return false
	}
	// ALL_CAPS names follow the constant convention.
	if isAllCaps(d.Name) {
		return false
	}
	if frameworkFieldNames[d.Name] {
		return false
	}
	return !entrypoints.HasRetainAnnotation(d)
}

func isAllCaps(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == '_' || (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return hasLetter
}
