package androidxml

import (
	"encoding/xml"
	"strings"
)

// manifest component tags whose android:name binds a class.
var componentTags = map[string]bool{
	"activity":       true,
	"activity-alias": true,
	"service":        true,
	"receiver":       true,
	"provider":       true,
	"application":    true,
}

// ParseManifest extracts class bindings from an AndroidManifest.xml.
func ParseManifest(path string, content []byte) *Result {
	result := &Result{Path: path}

	// First pass for the package attribute so relative names resolve even
	// when a component precedes it lexically (it never does in practice,
	// but the decoder is cheap).
	eachElement(content, func(se xml.StartElement, _ int) {
		if se.Name.Local == "manifest" {
			if pkg, ok := attr(se, "package"); ok {
				result.Package = pkg
			}
		}
	})

	eachElement(content, func(se xml.StartElement, line int) {
		switch {
		case componentTags[se.Name.Local]:
			if name, ok := attr(se, "name"); ok && name != "" {
				result.ClassRefs = append(result.ClassRefs, ClassRef{
					Name: resolveClassName(name, result.Package),
					Line: line,
				})
			}
		case se.Name.Local == "meta-data":
			// meta-data values holding dotted names are initializers,
			// glance widgets and similar reflective bindings.
			if value, ok := attr(se, "value"); ok {
				if strings.Contains(value, ".") && !strings.ContainsAny(value, " /@") {
					result.ClassRefs = append(result.ClassRefs, ClassRef{Name: value, Line: line})
				}
			}
		}
		collectResourceRefs(se, result)
	})

	return result
}
