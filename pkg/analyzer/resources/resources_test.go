package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdetect/deadwood/pkg/models"
	"github.com/driftdetect/deadwood/pkg/parser/androidxml"
)

func res(typ, name string, line int) androidxml.Resource {
	return androidxml.Resource{Type: typ, Name: name, File: "res/values/strings.xml", Line: line}
}

func TestUnusedResourceDetected(t *testing.T) {
	defined := []androidxml.Resource{
		res("string", "greeting", 2),
		res("string", "farewell", 3),
		res("color", "accent", 4),
	}
	xmlRefs := []androidxml.ResourceRef{{Type: "color", Name: "accent"}}
	sources := map[string][]byte{
		"Main.kt": []byte(`val text = getString(R.string.greeting)`),
	}

	a := Analyze(defined, xmlRefs, sources)
	require.Len(t, a.Unused, 1)
	assert.Equal(t, "farewell", a.Unused[0].Name)

	findings := a.Findings()
	require.Len(t, findings, 1)
	assert.Equal(t, models.CodeUnusedResource, findings[0].Code)
	assert.Equal(t, "string/farewell", findings[0].FQN)
}

func TestResourceRoundTrip(t *testing.T) {
	// every defined resource is either referenced or reported
	defined := []androidxml.Resource{
		res("string", "used_in_code", 1),
		res("string", "used_in_xml", 2),
		res("dimen", "dead_gutter", 3),
	}
	xmlRefs := []androidxml.ResourceRef{{Type: "string", Name: "used_in_xml"}}
	sources := map[string][]byte{"A.kt": []byte(`R.string.used_in_code`)}

	a := Analyze(defined, xmlRefs, sources)
	reported := len(a.Unused)
	referenced := 0
	for _, d := range defined {
		if a.Referenced[[2]string{d.Type, d.Name}] {
			referenced++
		}
	}
	assert.Equal(t, len(defined), reported+referenced)
}

func TestFrameworkRequiredResourcesSkipped(t *testing.T) {
	defined := []androidxml.Resource{
		res("string", "app_name", 1),
		res("style", "Theme.App", 2),
		res("string", "_hidden", 3),
	}
	a := Analyze(defined, nil, nil)
	assert.Empty(t, a.Unused)
}

func TestUnusedSortedByFileAndLine(t *testing.T) {
	defined := []androidxml.Resource{
		{Type: "string", Name: "b", File: "res/values/z.xml", Line: 5},
		{Type: "string", Name: "a", File: "res/values/a.xml", Line: 9},
		{Type: "string", Name: "c", File: "res/values/a.xml", Line: 2},
	}
	a := Analyze(defined, nil, nil)
	require.Len(t, a.Unused, 3)
	assert.Equal(t, "c", a.Unused[0].Name)
	assert.Equal(t, "a", a.Unused[1].Name)
	assert.Equal(t, "b", a.Unused[2].Name)
}
