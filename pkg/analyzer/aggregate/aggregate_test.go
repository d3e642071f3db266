package aggregate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdetect/deadwood/pkg/analyzer/hybrid"
	"github.com/driftdetect/deadwood/pkg/baseline"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

func finding(file string, line, col int, code models.IssueCode, conf models.Confidence) models.Finding {
	return models.Finding{
		Code:       code,
		Severity:   code.DefaultSeverity(),
		Confidence: conf,
		File:       file,
		Line:       line,
		Column:     col,
		Name:       "n",
		FQN:        "com.app." + file,
		Kind:       "class",
	}
}

func TestDeterministicSort(t *testing.T) {
	raw := []models.Finding{
		finding("b.kt", 1, 1, models.CodeUnreferenced, models.ConfidenceHigh),
		finding("a.kt", 9, 1, models.CodeUnreferenced, models.ConfidenceHigh),
		finding("a.kt", 2, 5, models.CodeWriteOnly, models.ConfidenceHigh),
		finding("a.kt", 2, 5, models.CodeUnreferenced, models.ConfidenceHigh),
		finding("a.kt", 2, 1, models.CodeUnreferenced, models.ConfidenceHigh),
	}
	result := Run(raw, graph.New(), &hybrid.Overlay{}, Options{MinConfidence: models.ConfidenceLow}, models.NewSummary())

	var order []string
	for _, f := range result.Findings {
		order = append(order, f.File+":"+string(f.Code))
	}
	assert.Equal(t, []string{
		"a.kt:DC001", // line 2 col 1
		"a.kt:DC001", // line 2 col 5, DC001 before DC002
		"a.kt:DC002",
		"a.kt:DC001", // line 9
		"b.kt:DC001",
	}, order)
}

func TestMinConfidenceFilter(t *testing.T) {
	raw := []models.Finding{
		finding("a.kt", 1, 1, models.CodeUnreferenced, models.ConfidenceLow),
		finding("a.kt", 2, 1, models.CodeUnreferenced, models.ConfidenceHigh),
	}
	result := Run(raw, graph.New(), &hybrid.Overlay{}, Options{MinConfidence: models.ConfidenceHigh}, models.NewSummary())
	require.Len(t, result.Findings, 1)
	assert.Equal(t, 2, result.Findings[0].Line)
}

func TestRuntimeOnlyKeepsConfirmed(t *testing.T) {
	raw := []models.Finding{
		finding("a.kt", 1, 1, models.CodeUnreferenced, models.ConfidenceHigh),
		finding("a.kt", 2, 1, models.CodeUnreferenced, models.ConfidenceConfirmed),
	}
	result := Run(raw, graph.New(), &hybrid.Overlay{}, Options{MinConfidence: models.ConfidenceLow, RuntimeOnly: true}, models.NewSummary())
	require.Len(t, result.Findings, 1)
	assert.Equal(t, models.ConfidenceConfirmed, result.Findings[0].Confidence)
}

func TestBaselineSuppression(t *testing.T) {
	suppressed := finding("a.kt", 1, 1, models.CodeUnreferenced, models.ConfidenceHigh)
	kept := finding("b.kt", 1, 1, models.CodeUnreferenced, models.ConfidenceHigh)

	path := filepath.Join(t.TempDir(), "baseline.txt")
	require.NoError(t, baseline.Write(path, []models.Finding{suppressed}))
	bl, err := baseline.Load(path)
	require.NoError(t, err)

	result := Run([]models.Finding{suppressed, kept}, graph.New(), &hybrid.Overlay{},
		Options{MinConfidence: models.ConfidenceLow, Baseline: bl}, models.NewSummary())
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "b.kt", result.Findings[0].File)
	assert.Equal(t, 1, result.Summary.Suppressed)
}

func TestSummaryStats(t *testing.T) {
	raw := []models.Finding{
		finding("a.kt", 1, 1, models.CodeUnreferenced, models.ConfidenceHigh),
		finding("a.kt", 2, 1, models.CodeWriteOnly, models.ConfidenceMedium),
	}
	result := Run(raw, graph.New(), &hybrid.Overlay{}, Options{MinConfidence: models.ConfidenceLow}, models.NewSummary())
	assert.Equal(t, 2, result.Summary.ByFile["a.kt"])
	assert.Equal(t, 1, result.Summary.ByCode["DC001"])
	assert.InDelta(t, 0.625, result.Summary.MeanConfidence, 1e-9)
}
