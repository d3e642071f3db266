package coverage

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"
)

// parseJacocoFile reads a JaCoCo XML report. The format nests
// report > package > class/sourcefile, with <line nr ci mi/> elements under
// sourcefile and <counter type=METHOD covered missed/> under class.
func parseJacocoFile(path string) (*Data, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseJacoco(content)
}

func parseJacoco(content []byte) (*Data, error) {
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
		get := func(name string) string {
			for _, a := range se.Attr {
				if a.Name.Local == name {
					return a.Value
				}
			}
			return ""
		}
		switch se.Name.Local {
		case "package":
			currentPackage = strings.ReplaceAll(get("name"), "/", ".")
		case "class":
			currentClass = strings.ReplaceAll(get("name"), "/", ".")
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
			switch get("type") {
			case "METHOD", "CLASS":
				if currentClass == "" {
					break
				}
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
