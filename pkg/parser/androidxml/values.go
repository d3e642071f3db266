package androidxml

import "encoding/xml"

// valueTags maps a values-file element name to its resource type.
var valueTags = map[string]string{
	"string":            "string",
	"color":             "color",
	"dimen":             "dimen",
	"style":             "style",
	"attr":              "attr",
	"bool":              "bool",
	"integer":           "integer",
	"item":              "id",
	"string-array":      "array",
	"integer-array":     "array",
	"array":             "array",
	"plurals":           "plurals",
	"declare-styleable": "styleable",
}

// ParseValues extracts resource definitions (and any @type/name references
// in attribute values) from a res/values XML file.
func ParseValues(path string, content []byte) *Result {
	result := &Result{Path: path}

	eachElement(content, func(se xml.StartElement, line int) {
		if typ, ok := valueTags[se.Name.Local]; ok {
			if name, found := attr(se, "name"); found && name != "" {
				// <item type="id" name="..."/> carries its own type.
				if se.Name.Local == "item" {
					if t, hasType := attr(se, "type"); hasType && t != "" {
						typ = t
					} else {
						return
					}
				}
				result.Resources = append(result.Resources, Resource{
					Type: typ,
					Name: name,
					File: path,
					Line: line,
				})
			}
		}
		collectResourceRefs(se, result)
	})

	return result
}
