// Package resources cross-references Android resource definitions from
// res/values files with R.type.name usages in source and @type/name usages
// in XML.
package resources

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/driftdetect/deadwood/pkg/models"
	"github.com/driftdetect/deadwood/pkg/parser/androidxml"
)

var rRefRe = regexp.MustCompile(`\bR\.(\w+)\.(\w+)`)

// Analysis is the outcome of the resource pass.
type Analysis struct {
	Defined    []androidxml.Resource
	Referenced map[[2]string]bool // (type, name)
	Unused     []androidxml.Resource
}

// requiredStrings the platform reads by name.
var requiredStrings = map[string]bool{
	"app_name":            true,
	"content_description": true,
}

// Analyze combines resource definitions, XML references, and source text.
// sources maps each Kotlin/Java path to its bytes (nil entries skipped).
func Analyze(defined []androidxml.Resource, xmlRefs []androidxml.ResourceRef, sources map[string][]byte) *Analysis {
	a := &Analysis{
		Defined:    defined,
		Referenced: make(map[[2]string]bool),
	}
	for _, ref := range xmlRefs {
		a.Referenced[[2]string{ref.Type, ref.Name}] = true
	}
	for _, data := range sources {
		if data == nil {
			continue
		}
		for _, m := range rRefRe.FindAllSubmatch(data, -1) {
			a.Referenced[[2]string{string(m[1]), string(m[2])}] = true
		}
	}

	for _, res := range defined {
		if a.Referenced[[2]string{res.Type, res.Name}] {
			continue
		}
		if skipResource(res) {
			continue
		}
		a.Unused = append(a.Unused, res)
	}
	sort.Slice(a.Unused, func(i, j int) bool {
		if a.Unused[i].File != a.Unused[j].File {
			return a.Unused[i].File < a.Unused[j].File
		}
		return a.Unused[i].Line < a.Unused[j].Line
	})
	return a
}

// skipResource drops definitions the framework or theme machinery reaches
// by name.
func skipResource(res androidxml.Resource) bool {
	if strings.HasPrefix(res.Name, "_") {
		return true
	}
	if res.Type == "style" && (strings.HasPrefix(res.Name, "Theme.") || strings.HasPrefix(res.Name, "Base.")) {
		return true
	}
	if res.Type == "string" && requiredStrings[res.Name] {
		return true
	}
	return false
}

// Findings renders unused resources.
func (a *Analysis) Findings() []models.Finding {
	var out []models.Finding
	for _, res := range a.Unused {
		out = append(out, models.Finding{
			Code:       models.CodeUnusedResource,
			Severity:   models.SeverityWarning,
			Confidence: models.ConfidenceHigh,
			Message:    fmt.Sprintf("Resource %s/%s is defined but never referenced", res.Type, res.Name),
			File:       res.File,
			Line:       res.Line,
			Column:     1,
			Name:       res.Name,
			FQN:        res.Type + "/" + res.Name,
			Kind:       "resource",
		})
	}
	return out
}
