package detect

import (
	"fmt"
	"strings"

	"github.com/driftdetect/deadwood/pkg/analyzer/entrypoints"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// UnusedParameter reports parameters that the owning function body never
// reads or writes (DC003).
type UnusedParameter struct{}

// Code implements Detector.
func (UnusedParameter) Code() models.IssueCode { return models.CodeUnusedParameter }

// frameworkParamNames are required by signatures the author does not own.
var frameworkParamNames = map[string]bool{
	"savedInstanceState": true,
	"context":            true,
	"parent":             true,
	"view":               true,
}

// Detect implements Detector.
func (UnusedParameter) Detect(ctx *Context) []models.Finding {
	var findings []models.Finding
	for _, d := range ctx.Graph.Declarations() {
		if d.Kind != graph.KindParameter {
			continue
		}
		if strings.HasPrefix(d.Name, "_") || frameworkParamNames[d.Name] {
			continue
		}
		if skipOwner(ctx, d) {
			continue
		}
		if ctx.Graph.IsReferenced(d.NodeID) {
			continue
		}
		f := models.NewFinding(models.CodeUnusedParameter, d,
			fmt.Sprintf("Parameter '%s' is never used", d.Name))
		findings = append(findings, f)
	}
	return findings
}

func skipOwner(ctx *Context, param *graph.Declaration) bool {
	owner, ok := ctx.Graph.ByID(param.Parent)
	if !ok {
		return true
	}

	// Signatures the author cannot change, or where the parameter exists
	// for a contract rather than the body.
	if owner.Override || owner.Abstract || owner.Kind == graph.KindConstructor {
		return true
	}
	if entrypoints.HasRetainAnnotation(owner) {
		return true
	}
	if owner.Name != "" && (strings.HasPrefix(owner.Name, "on") ||
		strings.HasSuffix(owner.Name, "Listener") ||
		strings.HasSuffix(owner.Name, "Callback")) {
		return true
	}

	if enclosing, ok := ctx.Graph.ByID(owner.Parent); ok {
		if enclosing.Kind == graph.KindInterface {
			return true
		}
		if ctx.MatchesComponentPattern(enclosing.Name) {
			return true
		}
	}
	return false
}
