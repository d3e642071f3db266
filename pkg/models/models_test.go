package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdetect/deadwood/pkg/graph"
)

func TestConfidenceScores(t *testing.T) {
	assert.Equal(t, 0.25, ConfidenceLow.Score())
	assert.Equal(t, 0.5, ConfidenceMedium.Score())
	assert.Equal(t, 0.75, ConfidenceHigh.Score())
	assert.Equal(t, 1.0, ConfidenceConfirmed.Score())
}

func TestParseConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ParseConfidence("high"))
	assert.Equal(t, ConfidenceConfirmed, ParseConfidence("confirmed"))
	assert.Equal(t, ConfidenceLow, ParseConfidence("garbage"))
}

func TestAtLeast(t *testing.T) {
	assert.True(t, ConfidenceHigh.AtLeast(ConfidenceMedium))
	assert.True(t, ConfidenceMedium.AtLeast(ConfidenceMedium))
	assert.False(t, ConfidenceLow.AtLeast(ConfidenceMedium))
}

func TestNewFindingCopiesDeclaration(t *testing.T) {
	d := &graph.Declaration{
		ID:       graph.ID{File: "a.kt", Start: 0, End: 10},
		Name:     "Orphan",
		FQN:      "com.app.Orphan",
		Kind:     graph.KindClass,
		Location: graph.Location{File: "a.kt", Line: 3, Column: 7},
	}
	f := NewFinding(CodeUnreferenced, d, "msg")
	assert.Equal(t, "a.kt", f.File)
	assert.Equal(t, 3, f.Line)
	assert.Equal(t, 7, f.Column)
	assert.Equal(t, "class", f.Kind)
	assert.Equal(t, ConfidenceMedium, f.Confidence)
	assert.Equal(t, SeverityWarning, f.Severity)
}

func TestFingerprintFallsBackToName(t *testing.T) {
	f := Finding{Code: CodeUnusedIntentExtra, Name: "LEGACY", Kind: "intent extra"}
	assert.Equal(t, "DC010|LEGACY|intent extra", f.Fingerprint())
}

func TestReportJSONShape(t *testing.T) {
	d := &graph.Declaration{
		ID:       graph.ID{File: "a.kt", Start: 0, End: 10},
		Name:     "Orphan",
		FQN:      "com.app.Orphan",
		Kind:     graph.KindClass,
		Location: graph.Location{File: "a.kt", Line: 1, Column: 1},
	}
	f := NewFinding(CodeUnreferenced, d, "class 'Orphan' is never used")
	summary := NewSummary()
	summary.Count(f)

	report := NewReport([]Finding{f}, summary)
	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1.1", decoded["version"])
	assert.Equal(t, float64(1), decoded["total_issues"])

	issues := decoded["issues"].([]any)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "DC001", issue["code"])
	assert.Equal(t, "medium", issue["confidence"])
	assert.Equal(t, 0.5, issue["confidence_score"])
	assert.Equal(t, false, issue["runtime_confirmed"])

	declMap := issue["declaration"].(map[string]any)
	assert.Equal(t, "Orphan", declMap["name"])
	assert.Equal(t, "com.app.Orphan", declMap["fully_qualified_name"])
}

func TestSummaryConfidenceStats(t *testing.T) {
	findings := []Finding{
		{Confidence: ConfidenceLow},
		{Confidence: ConfidenceHigh},
		{Confidence: ConfidenceConfirmed},
	}
	s := NewSummary()
	s.FillConfidenceStats(findings)
	assert.InDelta(t, (0.25+0.75+1.0)/3, s.MeanConfidence, 1e-9)
	assert.InDelta(t, 0.75, s.MedianConfidence, 1e-9)
}

func TestIssueCodeTitlesAndSeverity(t *testing.T) {
	assert.Equal(t, SeverityInfo, CodeUnusedParameter.DefaultSeverity())
	assert.Equal(t, SeverityWarning, CodeUnreferenced.DefaultSeverity())
	assert.NotEmpty(t, CodeUnusedSealed.Title())
}
