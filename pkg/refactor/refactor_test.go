package refactor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

func findingFor(path, name, body string, source string) models.Finding {
	start := strings.Index(source, body)
	d := &graph.Declaration{
		ID:   graph.ID{File: path, Start: uint32(start), End: uint32(start + len(body))},
		Name: name,
		Kind: graph.KindFunction,
	}
	return models.NewFinding(models.CodeUnreferenced, d, name+" is never used")
}

func TestPlanCollapsesNestedSpans(t *testing.T) {
	outer := models.NewFinding(models.CodeUnreferenced, &graph.Declaration{
		ID: graph.ID{File: "a.kt", Start: 0, End: 100}, Name: "Outer", Kind: graph.KindClass,
	}, "")
	inner := models.NewFinding(models.CodeUnreferenced, &graph.Declaration{
		ID: graph.ID{File: "a.kt", Start: 10, End: 50}, Name: "inner", Kind: graph.KindMethod,
	}, "")

	plan := PlanDeletions([]models.Finding{inner, outer})
	require.Len(t, plan, 1)
	assert.Equal(t, "Outer", plan[0].Name)
}

func TestApplyDeletesSpan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.kt")
	source := "fun keep() {}\nfun orphan() {\n    nothing()\n}\nfun also() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	f := findingFor(path, "orphan", "fun orphan() {\n    nothing()\n}", source)
	result, err := Apply(PlanDeletions([]models.Finding{f}), false)
	require.NoError(t, err)
	require.Len(t, result.Deleted, 1)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fun keep() {}\nfun also() {}\n", string(after))

	// backup holds the original
	backup := result.Backups[path]
	require.NotEmpty(t, backup)
	orig, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, source, string(orig))
}

func TestDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.kt")
	source := "fun orphan() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	f := findingFor(path, "orphan", "fun orphan() {}", source)
	result, err := Apply(PlanDeletions([]models.Finding{f}), true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Len(t, result.Deleted, 1)

	after, _ := os.ReadFile(path)
	assert.Equal(t, source, string(after))
	assert.Empty(t, result.Backups)
}

func TestMultipleDeletionsSameFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.kt")
	source := "fun a() {}\nfun keep() {}\nfun b() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	fa := findingFor(path, "a", "fun a() {}", source)
	fb := findingFor(path, "b", "fun b() {}", source)
	_, err := Apply(PlanDeletions([]models.Finding{fb, fa}), false)
	require.NoError(t, err)

	after, _ := os.ReadFile(path)
	assert.Equal(t, "fun keep() {}\n", string(after))
}

func TestMissingFileRecordedAsFailure(t *testing.T) {
	f := models.NewFinding(models.CodeUnreferenced, &graph.Declaration{
		ID: graph.ID{File: "/nonexistent/a.kt", Start: 0, End: 10}, Name: "gone", Kind: graph.KindFunction,
	}, "")
	result, err := Apply(PlanDeletions([]models.Finding{f}), false)
	require.NoError(t, err)
	assert.Empty(t, result.Deleted)
	assert.Len(t, result.Failed, 1)
}

func TestUndoScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.kt")
	source := "fun orphan() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	f := findingFor(path, "orphan", "fun orphan() {}", source)
	result, err := Apply(PlanDeletions([]models.Finding{f}), false)
	require.NoError(t, err)

	script := filepath.Join(dir, "undo.sh")
	require.NoError(t, WriteUndoScript(script, result))

	content, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Contains(t, string(content), "#!/bin/sh")
	assert.Contains(t, string(content), path)

	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}

func TestUndoScriptWithoutBackupsFails(t *testing.T) {
	err := WriteUndoScript(filepath.Join(t.TempDir(), "undo.sh"), &Result{Backups: map[string]string{}})
	assert.Error(t, err)
}
