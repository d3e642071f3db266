package coverage

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"
)

// parseKoverFile reads a Kover XML report. The schema is JaCoCo-shaped with
// two differences that matter here: inner classes use '$' notation and the
// sourcefilename attribute is sometimes camel-cased.
func parseKoverFile(path string) (*Data, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseKover(content)
}

func parseKover(content []byte) (*Data, error) {
	data := NewData()
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = false

	var currentPackage, currentClass string
	var current *FileCoverage

	flush := func() {
		if current != nil {
			data.addFile(current)
			current = nil
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		get := func(names ...string) string {
			for _, a := range se.Attr {
				for _, name := range names {
					if a.Name.Local == name {
						return a.Value
					}
				}
			}
			return ""
		}
		switch se.Name.Local {
		case "package":
			currentPackage = strings.ReplaceAll(get("name"), "/", ".")
		case "class":
			name := strings.ReplaceAll(get("name"), "/", ".")
			currentClass = strings.ReplaceAll(name, "$", ".")
			if sf := get("sourcefilename", "sourceFileName"); sf != "" {
				flush()
				filePath := sf
				if currentPackage != "" {
					filePath = strings.ReplaceAll(currentPackage, ".", "/") + "/" + sf
				}
				current = NewFileCoverage(filePath)
			}
		case "method":
			if name := get("name"); name != "" && currentClass != "" {
				full := currentClass + "." + name
				if !data.CoveredMethods[full] {
					data.UncoveredMethods[full] = true
				}
			}
		case "counter":
			covered, _ := strconv.Atoi(get("covered"))
			missed, _ := strconv.Atoi(get("missed"))
			if t := get("type"); (t == "METHOD" || t == "CLASS") && currentClass != "" {
				if covered > 0 {
					data.CoveredClasses[currentClass] = true
					delete(data.UncoveredClasses, currentClass)
				} else if missed > 0 && !data.CoveredClasses[currentClass] {
					data.UncoveredClasses[currentClass] = true
				}
			}
		case "sourcefile":
			flush()
			name := get("name")
			filePath := name
			if currentPackage != "" {
				filePath = strings.ReplaceAll(currentPackage, ".", "/") + "/" + name
			}
			current = NewFileCoverage(filePath)
		case "line":
			if current == nil {
				break
			}
			nr, _ := strconv.Atoi(get("nr"))
			ci, _ := strconv.Atoi(get("ci"))
			if nr <= 0 {
				break
			}
			if ci > 0 {
				current.Covered[nr] = true
			} else {
				current.Uncovered[nr] = true
			}
		}
	}
	flush()
	return data, nil
}
