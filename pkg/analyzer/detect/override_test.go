package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// overrideFixture writes source and returns a method declaration spanning
// the marked region.
func overrideFixture(t *testing.T, source, methodText string, params ...string) (*graph.Graph, *Context, *graph.Declaration) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Screen.kt")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	start := strings.Index(source, methodText)
	require.GreaterOrEqual(t, start, 0)
	end := start + len(methodText)

	g := graph.New()
	m := &graph.Declaration{
		ID:       graph.ID{File: path, Start: uint32(start), End: uint32(end)},
		Name:     methodName(methodText),
		Kind:     graph.KindMethod,
		Override: true,
		Visible:  graph.VisPublic,
		Location: graph.Location{File: path, Line: 1, Column: 1, StartByte: uint32(start), EndByte: uint32(end)},
	}
	g.Add(m)
	for i, p := range params {
		g.Add(&graph.Declaration{
			ID:       graph.ID{File: path, Start: uint32(end + 10 + i), End: uint32(end + 11 + i)},
			Name:     p,
			Kind:     graph.KindParameter,
			Parent:   m.ID,
			Arity:    i,
			Location: graph.Location{File: path, Line: 1, Column: 1},
		})
	}
	return g, ctxFor(g, m.NodeID), m
}

func methodName(methodText string) string {
	rest := methodText[strings.Index(methodText, "fun ")+4:]
	return rest[:strings.IndexAny(rest, "(")]
}

func TestRedundantOverridePureSuperCall(t *testing.T) {
	src := "class A : Base() {\n    override fun onDestroy() { super.onDestroy() }\n}\n"
	g, ctx, _ := overrideFixture(t, src, "override fun onDestroy() { super.onDestroy() }")
	_ = g
	findings := (RedundantOverride{}).Detect(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, "DC009", string(findings[0].Code))
}

func TestRedundantOverrideEmptyBody(t *testing.T) {
	src := "class A : Base() {\n    override fun onPause() { }\n}\n"
	_, ctx, _ := overrideFixture(t, src, "override fun onPause() { }")
	assert.Len(t, (RedundantOverride{}).Detect(ctx), 1)
}

func TestOverrideWithExtraWorkKept(t *testing.T) {
	src := "class A : Base() {\n    override fun onDestroy() { super.onDestroy(); cleanup() }\n}\n"
	_, ctx, _ := overrideFixture(t, src, "override fun onDestroy() { super.onDestroy(); cleanup() }")
	assert.Empty(t, (RedundantOverride{}).Detect(ctx))
}

func TestOverrideForwardingParamsInOrder(t *testing.T) {
	src := "class A : Base() {\n    override fun onSave(state: Bundle) { super.onSave(state) }\n}\n"
	_, ctx, _ := overrideFixture(t, src, "override fun onSave(state: Bundle) { super.onSave(state) }", "state")
	assert.Len(t, (RedundantOverride{}).Detect(ctx), 1)
}

func TestOverrideReorderedArgsKept(t *testing.T) {
	src := "class A : Base() {\n    override fun swap(a: Int, b: Int) { super.swap(b, a) }\n}\n"
	_, ctx, _ := overrideFixture(t, src, "override fun swap(a: Int, b: Int) { super.swap(b, a) }", "a", "b")
	assert.Empty(t, (RedundantOverride{}).Detect(ctx))
}

func TestOverrideWithRetainAnnotationKept(t *testing.T) {
	src := "class A : Base() {\n    override fun onStop() { super.onStop() }\n}\n"
	g, ctx, m := overrideFixture(t, src, "override fun onStop() { super.onStop() }")
	_ = g
	m.Annotations = []string{"@CallSuper"}
	assert.Empty(t, (RedundantOverride{}).Detect(ctx))
}

func TestSuperGenericQualifierRecognized(t *testing.T) {
	src := "class A : B, C {\n    override fun refresh() { super<B>.refresh() }\n}\n"
	_, ctx, _ := overrideFixture(t, src, "override fun refresh() { super<B>.refresh() }")
	assert.Len(t, (RedundantOverride{}).Detect(ctx), 1)
}

func TestExpressionBodyOverride(t *testing.T) {
	src := "class A : Base() {\n    override fun label() = super.label()\n}\n"
	_, ctx, _ := overrideFixture(t, src, "override fun label() = super.label()")
	assert.Len(t, (RedundantOverride{}).Detect(ctx), 1)
}
