package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileResult(path, pkg string, imports []string, decls ...*Declaration) *FileResult {
	return &FileResult{Path: path, Package: pkg, Imports: imports, Declarations: decls}
}

func ref(name string, kind RefKind, file string, byteOff uint32) Unresolved {
	u := NewUnresolved(name, kind, Location{File: file, Line: 1, Column: 1, StartByte: byteOff, EndByte: byteOff + 1})
	return u
}

func TestResolveByImport(t *testing.T) {
	target := decl("b.kt", 0, 20, "Helper", "com.lib.Helper", KindClass)
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("b.kt", "com.lib", nil, target))
	fr := fileResult("a.kt", "com.app", []string{"com.lib.Helper"}, caller)
	fr.Refs = []Unresolved{ref("Helper", RefTypeUse, "a.kt", 10)}
	b.AddFile(fr)

	g := b.Build()
	assert.Equal(t, 1, g.EdgeCount())
	assert.True(t, g.IsReferenced(target.NodeID))
}

func TestResolveByStarImport(t *testing.T) {
	target := decl("b.kt", 0, 20, "Helper", "com.lib.Helper", KindClass)
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("b.kt", "com.lib", nil, target))
	fr := fileResult("a.kt", "com.app", []string{"com.lib.*"}, caller)
	fr.Refs = []Unresolved{ref("Helper", RefTypeUse, "a.kt", 10)}
	b.AddFile(fr)

	assert.True(t, b.Build().IsReferenced(target.NodeID))
}

func TestResolveByAliasImport(t *testing.T) {
	target := decl("b.kt", 0, 20, "Helper", "com.lib.Helper", KindClass)
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("b.kt", "com.lib", nil, target))
	fr := fileResult("a.kt", "com.app", []string{"com.lib.Helper as H"}, caller)
	fr.Refs = []Unresolved{ref("H", RefTypeUse, "a.kt", 10)}
	b.AddFile(fr)

	assert.True(t, b.Build().IsReferenced(target.NodeID))
}

func TestResolveSamePackage(t *testing.T) {
	target := decl("b.kt", 0, 20, "Helper", "com.app.Helper", KindClass)
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("b.kt", "com.app", nil, target))
	fr := fileResult("a.kt", "com.app", nil, caller)
	fr.Refs = []Unresolved{ref("Helper", RefTypeUse, "a.kt", 10)}
	b.AddFile(fr)

	assert.True(t, b.Build().IsReferenced(target.NodeID))
}

func TestOverloadFanOut(t *testing.T) {
	// two overloads in another package, resolved by bare simple name:
	// both must receive the edge so neither is falsely dead
	f1 := decl("b.kt", 0, 20, "render", "com.lib.render", KindFunction)
	f1.Arity = 1
	f2 := decl("b.kt", 30, 60, "render", "com.lib.render", KindFunction)
	f2.Arity = 2
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("b.kt", "com.lib", nil, f1, f2))
	fr := fileResult("a.kt", "com.app", nil, caller)
	fr.Refs = []Unresolved{ref("render", RefCall, "a.kt", 10)}
	b.AddFile(fr)

	g := b.Build()
	assert.True(t, g.IsReferenced(f1.NodeID))
	assert.True(t, g.IsReferenced(f2.NodeID))
}

func TestArityNarrowing(t *testing.T) {
	f1 := decl("b.kt", 0, 20, "render", "com.lib.render", KindFunction)
	f1.Arity = 1
	f2 := decl("b.kt", 30, 60, "render", "com.lib.render", KindFunction)
	f2.Arity = 2
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("b.kt", "com.lib", nil, f1, f2))
	fr := fileResult("a.kt", "com.app", nil, caller)
	u := ref("render", RefCall, "a.kt", 10)
	u.ArgCount = 2
	fr.Refs = []Unresolved{u}
	b.AddFile(fr)

	g := b.Build()
	assert.False(t, g.IsReferenced(f1.NodeID))
	assert.True(t, g.IsReferenced(f2.NodeID))
}

func TestGenericErasureResolution(t *testing.T) {
	// a reference written Foo<Bar> reaches the declaration registered Foo
	target := decl("b.kt", 0, 20, "Foo", "com.app.Foo", KindClass)
	target.GenericParams = []string{"T"}
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("b.kt", "com.app", nil, target))
	fr := fileResult("a.kt", "com.app", nil, caller)
	fr.Refs = []Unresolved{ref("Foo", RefTypeUse, "a.kt", 10)}
	b.AddFile(fr)

	assert.True(t, b.Build().IsReferenced(target.NodeID))
}

func TestCrossFileSameNamePropertySkipped(t *testing.T) {
	p1 := decl("a.kt", 0, 20, "state", "com.app.A.state", KindProperty)
	p2 := decl("b.kt", 0, 20, "state", "com.app.B.state", KindProperty)

	b := NewBuilder()
	fr1 := fileResult("a.kt", "com.app", nil, p1)
	fr1.Refs = []Unresolved{ref("state", RefRead, "a.kt", 5)}
	b.AddFile(fr1)
	b.AddFile(fileResult("b.kt", "com.app", nil, p2))

	g := b.Build()
	// the read inside a.kt must not keep b.kt's unrelated property alive
	assert.False(t, g.IsReferenced(p2.NodeID))
}

func TestSealedVariantPromotion(t *testing.T) {
	sealed := decl("s.kt", 0, 200, "UiState", "com.app.UiState", KindSealedClass)
	loading := decl("s.kt", 20, 60, "Loading", "com.app.UiState.Loading", KindObject)
	loading.Parent = sealed.ID
	loading.SuperTypes = []string{"UiState()"}
	success := decl("s.kt", 70, 140, "Success", "com.app.UiState.Success", KindDataClass)
	success.Parent = sealed.ID
	success.SuperTypes = []string{"UiState()"}
	unrelated := decl("s.kt", 150, 190, "Helper", "com.app.Helper", KindClass)
	unrelated.SuperTypes = []string{"Base"}

	b := NewBuilder()
	b.AddFile(fileResult("s.kt", "com.app", nil, sealed, loading, success, unrelated))
	g := b.Build()

	got, _ := g.ByID(loading.ID)
	assert.Equal(t, KindSealedVariant, got.Kind)
	assert.True(t, got.HasModifier("object"))

	got, _ = g.ByID(success.ID)
	assert.Equal(t, KindSealedVariant, got.Kind)
	assert.False(t, got.HasModifier("object"))

	got, _ = g.ByID(unrelated.ID)
	assert.Equal(t, KindClass, got.Kind)
}

func TestBackingFieldMarking(t *testing.T) {
	cls := decl("a.kt", 0, 200, "VM", "com.app.VM", KindClass)
	hidden := decl("a.kt", 10, 40, "_state", "com.app.VM._state", KindProperty)
	hidden.Parent = cls.ID
	hidden.Visible = VisPrivate
	exposed := decl("a.kt", 50, 90, "state", "com.app.VM.state", KindProperty)
	exposed.Parent = cls.ID
	lone := decl("a.kt", 100, 130, "_orphan", "com.app.VM._orphan", KindProperty)
	lone.Parent = cls.ID

	b := NewBuilder()
	b.AddFile(fileResult("a.kt", "com.app", nil, cls, hidden, exposed, lone))
	g := b.Build()

	got, _ := g.ByID(hidden.ID)
	assert.True(t, got.BackingField)
	got, _ = g.ByID(lone.ID)
	assert.False(t, got.BackingField)
}

func TestEnumEntryAccessRetyping(t *testing.T) {
	enum := decl("e.kt", 0, 100, "Color", "com.app.Color", KindEnumClass)
	red := decl("e.kt", 20, 25, "RED", "com.app.Color.RED", KindEnumCase)
	red.Parent = enum.ID
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)

	b := NewBuilder()
	b.AddFile(fileResult("e.kt", "com.app", nil, enum, red))
	fr := fileResult("a.kt", "com.app", nil, caller)
	fr.Refs = []Unresolved{ref("RED", RefRead, "a.kt", 10)}
	b.AddFile(fr)

	g := b.Build()
	require.True(t, g.IsReferenced(red.NodeID))
	assert.True(t, g.HasIncomingOfKind(red.NodeID, RefEnumEntryAccess))
}

func TestUnresolvedReferencesDropped(t *testing.T) {
	caller := decl("a.kt", 0, 50, "main", "com.app.main", KindFunction)
	b := NewBuilder()
	fr := fileResult("a.kt", "com.app", nil, caller)
	fr.Refs = []Unresolved{ref("Log", RefCall, "a.kt", 10)} // android.util.Log: not in registry
	b.AddFile(fr)

	assert.Equal(t, 0, b.Build().EdgeCount())
}

func TestQualifiedNameSplit(t *testing.T) {
	u := NewUnresolved("com.app.Foo", RefTypeUse, Location{})
	assert.Equal(t, "Foo", u.Name)
	assert.Equal(t, "com.app.Foo", u.Qualified)
}
