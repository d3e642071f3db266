package detect

import (
	"fmt"
	"regexp"

	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// UnusedEnumCase reports enum cases with no incoming references whose
// parent enum is not reflectively enumerated (DC005).
type UnusedEnumCase struct{}

// Code implements Detector.
func (UnusedEnumCase) Code() models.IssueCode { return models.CodeUnusedEnumCase }

// reflectiveEnumAnnotations on the enum class imply deserialization by name.
var reflectiveEnumAnnotations = []string{"Serializable", "JsonClass", "SerializedName", "Json"}

// Detect implements Detector.
func (UnusedEnumCase) Detect(ctx *Context) []models.Finding {
	var findings []models.Finding

	// valueOf/values/entries calls enumerate all cases reflectively; one
	// source scan covers every enum.
	enumerated := findEnumeratedEnums(ctx)

	for _, d := range ctx.Graph.Declarations() {
		if d.Kind != graph.KindEnumCase {
			continue
		}
		if ctx.Graph.IsReferenced(d.NodeID) {
			continue
		}
		parent, ok := ctx.Graph.ByID(d.Parent)
		if !ok {
			continue
		}
		if enumerated[parent.Name] || enumReflective(parent) {
			continue
		}
		if ctx.Graph.HasIncomingOfKind(parent.NodeID, graph.RefReflection) {
			continue
		}
		findings = append(findings, models.NewFinding(models.CodeUnusedEnumCase, d,
			fmt.Sprintf("Enum case '%s' is never used", d.Name)))
	}
	return findings
}

func enumReflective(parent *graph.Declaration) bool {
	for _, name := range reflectiveEnumAnnotations {
		if parent.HasAnnotationNamed(name) {
			return true
		}
	}
	return false
}

var enumEnumerationRe = regexp.MustCompile(`(\w+)\s*\.\s*(?:valueOf|values|entries)\b`)

// findEnumeratedEnums scans raw source for Name.valueOf / Name.values /
// Name.entries, which revive every case of that enum.
func findEnumeratedEnums(ctx *Context) map[string]bool {
	out := make(map[string]bool)
	for _, path := range ctx.SourceFiles {
		data := ctx.Source(path)
		if data == nil {
			continue
		}
		for _, m := range enumEnumerationRe.FindAllSubmatch(data, -1) {
			out[string(m[1])] = true
		}
	}
	return out
}
