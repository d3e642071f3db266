package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/driftdetect/deadwood/pkg/analyzer/entrypoints"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// RedundantOverride reports overrides whose body is empty or a lone
// super-delegation with identical arguments (DC009).
type RedundantOverride struct{}

// Code implements Detector.
func (RedundantOverride) Code() models.IssueCode { return models.CodeRedundantOverride }

// skipOverrideAnnotations mark overrides kept for documentation or
// framework contracts.
var skipOverrideAnnotations = []string{"Deprecated", "Suppress", "VisibleForTesting", "CallSuper"}

// Detect implements Detector.
func (RedundantOverride) Detect(ctx *Context) []models.Finding {
	var findings []models.Finding
	for _, d := range ctx.Graph.Declarations() {
		if d.Kind != graph.KindMethod || !d.Override {
			continue
		}
		if entrypoints.HasRetainAnnotation(d) || hasSkipAnnotation(d) {
			continue
		}
		source := ctx.Source(d.Location.File)
		if source == nil {
			continue
		}
		body, ok := methodBody(source, d)
		if !ok {
			continue
		}
		if isRedundantBody(body, d, ctx.Graph) {
			f := models.NewFinding(models.CodeRedundantOverride, d,
				fmt.Sprintf("Override '%s' only delegates to super and can be removed", d.Name))
			f.Confidence = models.ConfidenceHigh
			findings = append(findings, f)
		}
	}
	return findings
}

func hasSkipAnnotation(d *graph.Declaration) bool {
	for _, name := range skipOverrideAnnotations {
		if d.HasAnnotationNamed(name) {
			return true
		}
	}
	return false
}

// methodBody extracts the text between the outermost braces of the method
// span, or after `=` for expression bodies.
func methodBody(source []byte, d *graph.Declaration) (string, bool) {
	if int(d.ID.End) > len(source) || d.ID.Start >= d.ID.End {
		return "", false
	}
	span := string(source[d.ID.Start:d.ID.End])

	if open := strings.IndexByte(span, '{'); open >= 0 {
		if close := strings.LastIndexByte(span, '}'); close > open {
			return span[open+1 : close], true
		}
		return "", false
	}
	// Kotlin expression body: override fun f() = super.f()
	if eq := strings.Index(span, "="); eq >= 0 {
		return span[eq+1:], true
	}
	// Abstract or interface declaration: no body to judge.
	return "", false
}

var superCallRe = regexp.MustCompile(`^(?:return\s+)?super(?:<[\w.]+>)?\s*\.\s*(\w+)\s*\(([^()]*)\)\s*;?$`)

// isRedundantBody recognizes an empty body or exactly one statement that
// forwards to super.<sameName> with the parameters in declaration order.
func isRedundantBody(body string, d *graph.Declaration, g *graph.Graph) bool {
	body = stripComments(body)
	body = strings.TrimSpace(body)
	if body == "" {
		return true
	}
	m := superCallRe.FindStringSubmatch(body)
	if m == nil {
		return false
	}
	if m[1] != d.Name {
		return false
	}
	return argsMatchParams(m[2], parameterNames(g, d))
}

func parameterNames(g *graph.Graph, d *graph.Declaration) []string {
	params := g.Children(d.ID)
	sort.Slice(params, func(i, j int) bool { return params[i].Arity < params[j].Arity })
	names := make([]string, 0, len(params))
	for _, p := range params {
		if p.Kind == graph.KindParameter {
			names = append(names, p.Name)
		}
	}
	return names
}

// argsMatchParams requires the forwarded arguments to be exactly the
// declared parameters in order; anything else means the override rewires
// behavior.
func argsMatchParams(argList string, params []string) bool {
	var args []string
	for _, a := range strings.Split(argList, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			args = append(args, a)
		}
	}
	if len(args) != len(params) {
		return false
	}
	for i, a := range args {
		if a != params[i] {
			return false
		}
	}
	return true
}

// stripComments removes // and /* */ comments so a commented body still
// counts as empty.
func stripComments(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '/' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			continue
		}
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
