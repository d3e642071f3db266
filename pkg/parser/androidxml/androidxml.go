// Package androidxml parses the Android XML dialects the analyzer cares
// about: manifests (component bindings), layouts (custom views, contexts,
// data binding), navigation and menu graphs, and values files (resource
// definitions).
package androidxml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// ClassRef is a class bound from XML, resolved to a (possibly relative)
// dotted name.
type ClassRef struct {
	Name string
	Line int
}

// IdentifierRef is a bare identifier referenced from a data-binding
// expression.
type IdentifierRef struct {
	Name string
	Line int
}

// Resource is a resource defined in a values file.
type Resource struct {
	Type string
	Name string
	File string
	Line int
}

// ResourceRef is an @type/name occurrence.
type ResourceRef struct {
	Type string
	Name string
}

// Result collects everything a single XML file contributes.
type Result struct {
	Path         string
	Package      string
	ClassRefs    []ClassRef
	Identifiers  []IdentifierRef
	Resources    []Resource
	ResourceRefs []ResourceRef
}

// decoder wraps encoding/xml with line tracking over the raw bytes.
type decoder struct {
	dec     *xml.Decoder
	content []byte
}

func newDecoder(content []byte) *decoder {
	d := xml.NewDecoder(bytes.NewReader(content))
	d.Strict = false // malformed XML still yields leading tokens
	return &decoder{dec: d, content: content}
}

func (d *decoder) line() int {
	off := d.dec.InputOffset()
	if off > int64(len(d.content)) {
		off = int64(len(d.content))
	}
	return 1 + bytes.Count(d.content[:off], []byte{'\n'})
}

// attr returns the value of an attribute matching the local name, ignoring
// the namespace prefix (android:name, app:name, ... all match "name").
func attr(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// resolveClassName handles the manifest dot conventions: ".MainActivity"
// and bare names are prefixed with the package.
func resolveClassName(name, pkg string) string {
	switch {
	case strings.HasPrefix(name, "."):
		if pkg != "" {
			return pkg + name
		}
		return name[1:]
	case !strings.Contains(name, ".") && pkg != "":
		return pkg + "." + name
	default:
		return name
	}
}

// collectResourceRefs scans attribute values for @type/name references.
func collectResourceRefs(se xml.StartElement, result *Result) {
	for _, a := range se.Attr {
		v := a.Value
		if !strings.HasPrefix(v, "@") || strings.HasPrefix(v, "@{") {
			continue
		}
		body := strings.TrimPrefix(v[1:], "+") // @+id/foo defines and refs
		slash := strings.IndexByte(body, '/')
		if slash <= 0 || slash == len(body)-1 {
			continue
		}
		typ := body[:slash]
		if i := strings.IndexByte(typ, ':'); i >= 0 {
			// @android:color/white refers outside the project
			continue
		}
		result.ResourceRefs = append(result.ResourceRefs, ResourceRef{Type: typ, Name: body[slash+1:]})
	}
}

// collectBindingExpressions extracts identifiers from @{...} data-binding
// attribute values: "@{viewModel.onClick}" references viewModel.
func collectBindingExpressions(se xml.StartElement, line int, result *Result) {
	for _, a := range se.Attr {
		v := a.Value
		if !strings.HasPrefix(v, "@{") || !strings.HasSuffix(v, "}") {
			continue
		}
		expr := v[2 : len(v)-1]
		for _, ident := range splitIdentifiers(expr) {
			result.Identifiers = append(result.Identifiers, IdentifierRef{Name: ident, Line: line})
		}
	}
}

// splitIdentifiers pulls leading identifiers out of a binding expression.
func splitIdentifiers(expr string) []string {
	var out []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		ident := expr[start:end]
		start = -1
		if ident == "" || !isLetter(ident[0]) {
			return
		}
		out = append(out, ident)
	}
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if isLetter(c) || c == '_' || (start >= 0 && c >= '0' && c <= '9') {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		// only the receiver of a dotted chain is resolvable by name
		if c == '.' {
			for i < len(expr) && expr[i] != ' ' && expr[i] != '(' && expr[i] != ')' {
				i++
			}
		}
	}
	flush(len(expr))
	return out
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// eachElement runs fn over every start element, tolerating syntax errors by
// stopping at the first undecodable token.
func eachElement(content []byte, fn func(se xml.StartElement, line int)) {
	d := newDecoder(content)
	for {
		tok, err := d.dec.Token()
		if err == io.EOF || err != nil {
			return
		}
		if se, ok := tok.(xml.StartElement); ok {
			fn(se, d.line())
		}
	}
}
