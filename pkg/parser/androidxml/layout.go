package androidxml

import (
	"encoding/xml"
	"strings"
)

// ParseLayout extracts class references from a layout, navigation, or menu
// XML file. The three dialects share their binding shapes: a tag containing
// a dot is a custom view, android:name/class attributes bind fragments, and
// tools:context associates the host class.
func ParseLayout(path string, content []byte) *Result {
	result := &Result{Path: path}

	eachElement(content, func(se xml.StartElement, line int) {
		tag := se.Name.Local

		// Custom view tags carry the full class name: <com.app.ChipView>.
		// With namespaces stripped the dot survives in Local.
		if strings.Contains(tag, ".") {
			result.ClassRefs = append(result.ClassRefs, ClassRef{Name: tag, Line: line})
		}

		// <view class="..."> and <fragment android:name="...">.
		if v, ok := attr(se, "class"); ok && strings.Contains(v, ".") {
			result.ClassRefs = append(result.ClassRefs, ClassRef{Name: v, Line: line})
		}
		if tag == "fragment" || tag == "dialog" || tag == "activity" ||
			strings.HasSuffix(tag, "FragmentContainerView") {
			if v, ok := attr(se, "name"); ok && strings.Contains(v, ".") {
				result.ClassRefs = append(result.ClassRefs, ClassRef{Name: v, Line: line})
			}
		}

		// Menu action views and providers.
		if v, ok := attr(se, "actionViewClass"); ok && v != "" {
			result.ClassRefs = append(result.ClassRefs, ClassRef{Name: v, Line: line})
		}
		if v, ok := attr(se, "actionProviderClass"); ok && v != "" {
			result.ClassRefs = append(result.ClassRefs, ClassRef{Name: v, Line: line})
		}

		// tools:context=".MainActivity" — relative names resolve against
		// the manifest package at the seeding stage, so keep as written.
		if v, ok := attr(se, "context"); ok && (strings.Contains(v, ".") || strings.HasPrefix(v, ".")) {
			result.ClassRefs = append(result.ClassRefs, ClassRef{Name: v, Line: line})
		}

		// <variable type="com.app.VM"/> in data-binding layouts.
		if tag == "variable" {
			if v, ok := attr(se, "type"); ok && strings.Contains(v, ".") {
				result.ClassRefs = append(result.ClassRefs, ClassRef{Name: v, Line: line})
			}
		}

		collectBindingExpressions(se, line, result)
		collectResourceRefs(se, result)
	})

	return result
}
