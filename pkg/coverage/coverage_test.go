package coverage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jacocoSample = `<?xml version="1.0" encoding="UTF-8"?>
<report name="app">
  <package name="com/example/app">
    <class name="com/example/app/Used" sourcefilename="Used.kt">
      <method name="run" desc="()V" line="5"/>
      <counter type="METHOD" missed="0" covered="1"/>
    </class>
    <class name="com/example/app/Dead" sourcefilename="Dead.kt">
      <method name="helper" desc="()V" line="3"/>
      <counter type="METHOD" missed="1" covered="0"/>
    </class>
    <sourcefile name="Used.kt">
      <line nr="5" mi="0" ci="3"/>
      <line nr="6" mi="0" ci="3"/>
    </sourcefile>
    <sourcefile name="Dead.kt">
      <line nr="3" mi="2" ci="0"/>
      <line nr="4" mi="1" ci="0"/>
    </sourcefile>
  </package>
</report>`

func TestParseJacoco(t *testing.T) {
	data, err := parseJacoco([]byte(jacocoSample))
	require.NoError(t, err)

	assert.True(t, data.CoveredClasses["com.example.app.Used"])
	assert.True(t, data.UncoveredClasses["com.example.app.Dead"])

	assert.Equal(t, StatusExecuted, data.SpanStatus("com/example/app/Used.kt", 5, 6))
	assert.Equal(t, StatusNeverExecuted, data.SpanStatus("com/example/app/Dead.kt", 3, 4))
	assert.Equal(t, StatusUnknown, data.SpanStatus("com/example/app/Dead.kt", 40, 50))
}

func TestSpanStatusMatchesByBasename(t *testing.T) {
	data, err := parseJacoco([]byte(jacocoSample))
	require.NoError(t, err)
	// the graph uses project-relative paths; coverage keys package paths
	assert.Equal(t, StatusNeverExecuted, data.SpanStatus("app/src/main/java/com/example/app/Dead.kt", 3, 3))
}

const lcovSample = `TN:
SF:app/src/main/java/com/example/app/Helper.kt
FN:3,helper
FNDA:0,helper
DA:3,0
DA:4,0
end_of_record
SF:app/src/main/java/com/example/app/Main.kt
FN:1,main
FNDA:7,main
DA:1,7
end_of_record
`

func TestParseLcov(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.info")
	require.NoError(t, os.WriteFile(path, []byte(lcovSample), 0o644))

	data, err := parseLcovFile(path)
	require.NoError(t, err)

	assert.Equal(t, StatusNeverExecuted, data.SpanStatus("app/src/main/java/com/example/app/Helper.kt", 3, 4))
	assert.Equal(t, StatusExecuted, data.SpanStatus("app/src/main/java/com/example/app/Main.kt", 1, 1))
	assert.True(t, data.CoveredMethods["main"])
	assert.True(t, data.UncoveredMethods["helper"])
}

const koverSample = `<?xml version="1.0" encoding="UTF-8"?>
<report name="kover">
  <package name="com/example/app">
    <class name="com/example/app/Outer$Inner" sourcefilename="Outer.kt">
      <method name="peek" desc="()V"/>
      <counter type="METHOD" missed="1" covered="0"/>
    </class>
    <sourcefile name="Outer.kt">
      <line nr="10" mi="1" ci="0"/>
    </sourcefile>
  </package>
</report>`

func TestParseKoverDollarNotation(t *testing.T) {
	data, err := parseKover([]byte(koverSample))
	require.NoError(t, err)
	assert.True(t, data.UncoveredClasses["com.example.app.Outer.Inner"])
	assert.Equal(t, StatusNeverExecuted, data.SpanStatus("com/example/app/Outer.kt", 10, 10))
}

func TestMergeCoveredWins(t *testing.T) {
	a := NewData()
	fcA := NewFileCoverage("A.kt")
	fcA.Uncovered[3] = true
	a.addFile(fcA)

	b := NewData()
	fcB := NewFileCoverage("A.kt")
	fcB.Covered[3] = true
	b.addFile(fcB)

	a.Merge(b)
	assert.Equal(t, StatusExecuted, a.SpanStatus("A.kt", 3, 3))
}

func TestParseFileRejectsUnknownFormat(t *testing.T) {
	_, err := ParseFile("report.bin")
	assert.Error(t, err)
}
