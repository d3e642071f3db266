package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decl(file string, start, end uint32, name, fqn string, kind Kind) *Declaration {
	return &Declaration{
		ID:       ID{File: file, Start: start, End: end},
		Name:     name,
		FQN:      fqn,
		Kind:     kind,
		Visible:  VisPublic,
		Location: Location{File: file, Line: int(start) + 1, Column: 1, StartByte: start, EndByte: end},
	}
}

func TestAddAssignsSequentialNodeIDs(t *testing.T) {
	g := New()
	a := decl("a.kt", 0, 10, "A", "com.x.A", KindClass)
	b := decl("a.kt", 20, 30, "B", "com.x.B", KindClass)

	assert.Equal(t, uint32(0), g.Add(a))
	assert.Equal(t, uint32(1), g.Add(b))
	assert.Equal(t, 2, g.Len())

	// re-adding the same id is a no-op
	assert.Equal(t, uint32(0), g.Add(decl("a.kt", 0, 10, "A", "com.x.A", KindClass)))
	assert.Equal(t, 2, g.Len())
}

func TestFindByNameAndFQN(t *testing.T) {
	g := New()
	g.Add(decl("a.kt", 0, 10, "Foo", "com.x.Foo", KindClass))
	g.Add(decl("b.kt", 0, 10, "Foo", "com.y.Foo", KindClass))

	assert.Len(t, g.FindByName("Foo"), 2)
	require.Len(t, g.FindByFQN("com.x.Foo"), 1)
	assert.Equal(t, "a.kt", g.FindByFQN("com.x.Foo")[0].ID.File)
	assert.Empty(t, g.FindByFQN("com.z.Foo"))
}

func TestEdgeCounts(t *testing.T) {
	g := New()
	f := decl("a.kt", 0, 50, "f", "com.x.f", KindFunction)
	p := decl("a.kt", 60, 70, "counter", "com.x.A.counter", KindProperty)
	g.Add(f)
	g.Add(p)

	g.AddEdge(Edge{From: f.NodeID, To: p.NodeID, Kind: RefWrite})
	g.AddEdge(Edge{From: f.NodeID, To: p.NodeID, Kind: RefRead})

	assert.Equal(t, 1, g.CountWrites(p.NodeID))
	assert.Equal(t, 1, g.CountReads(p.NodeID))
	assert.True(t, g.IsReferenced(p.NodeID))
	assert.False(t, g.IsReferenced(f.NodeID))
	assert.True(t, g.HasIncomingOfKind(p.NodeID, RefWrite))
	assert.False(t, g.HasIncomingOfKind(p.NodeID, RefInstantiation))
}

func TestChildren(t *testing.T) {
	g := New()
	cls := decl("a.kt", 0, 100, "A", "com.x.A", KindClass)
	method := decl("a.kt", 10, 40, "m", "com.x.A.m", KindMethod)
	method.Parent = cls.ID
	g.Add(cls)
	g.Add(method)

	children := g.Children(cls.ID)
	require.Len(t, children, 1)
	assert.Equal(t, "m", children[0].Name)
}

func TestConventionNames(t *testing.T) {
	assert.True(t, IsConventionName("plus"))
	assert.True(t, IsConventionName("getValue"))
	assert.True(t, IsConventionName("component1"))
	assert.True(t, IsConventionName("component12"))
	assert.False(t, IsConventionName("componentX"))
	assert.False(t, IsConventionName("render"))
}

func TestVisibilityMapping(t *testing.T) {
	assert.Equal(t, VisPublic, KotlinVisibility(nil))
	assert.Equal(t, VisInternal, KotlinVisibility([]string{"internal"}))
	assert.Equal(t, VisPrivate, KotlinVisibility([]string{"private", "const"}))
	assert.Equal(t, VisPackagePrivate, JavaVisibility(nil))
	assert.Equal(t, VisProtected, JavaVisibility([]string{"static", "protected"}))
}

func TestAnnotationSimpleName(t *testing.T) {
	d := &Declaration{Annotations: []string{"@androidx.annotation.Keep", "@Inject", "@Suppress(\"unused\")"}}
	assert.True(t, d.HasAnnotationNamed("Keep"))
	assert.True(t, d.HasAnnotationNamed("Inject"))
	assert.True(t, d.HasAnnotationNamed("Suppress"))
	assert.False(t, d.HasAnnotationNamed("Test"))
}
