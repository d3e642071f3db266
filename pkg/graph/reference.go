package graph

// RefKind classifies an edge in the reference graph.
type RefKind string

const (
	RefCall            RefKind = "call"
	RefRead            RefKind = "read"
	RefWrite           RefKind = "write"
	RefTypeUse         RefKind = "type"
	RefInstantiation   RefKind = "instantiation"
	RefExtends         RefKind = "extends"
	RefImplements      RefKind = "implements"
	RefOverride        RefKind = "override"
	RefDelegation      RefKind = "delegation"
	RefAnnotation      RefKind = "annotation"
	RefXMLBinding      RefKind = "xml-binding"
	RefEnumEntryAccess RefKind = "enum-entry"
	RefReflection      RefKind = "reflection"
)

// IsRead reports whether the kind counts as a read for write-only detection.
// Writes are the only edges excluded.
func (k RefKind) IsRead() bool {
	return k != RefWrite
}

// IsWrite reports whether the kind is a write.
func (k RefKind) IsWrite() bool {
	return k == RefWrite
}

// Edge is a resolved reference between two registered declarations.
type Edge struct {
	From uint32 // NodeID of the referencing declaration
	To   uint32 // NodeID of the referenced declaration
	Kind RefKind
}

// Unresolved is a reference collected during parsing, before the registry
// exists. Name is the simple name; Qualified carries the full dotted path
// when the source wrote one. ArgCount is -1 when the reference is not a call
// or the argument count is unknown.
type Unresolved struct {
	Name      string
	Qualified string
	Kind      RefKind
	Location  Location
	ArgCount  int
}

// NewUnresolved splits a possibly-qualified name into simple and qualified
// parts, matching how imports and FQN indices are keyed.
func NewUnresolved(name string, kind RefKind, loc Location) Unresolved {
	u := Unresolved{Name: name, Kind: kind, Location: loc, ArgCount: -1}
	if i := lastDot(name); i >= 0 {
		u.Qualified = name
		u.Name = name[i+1:]
	}
	return u
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
