package graph

import (
	"fmt"
	"strings"
)

// Language identifies the source language of a declaration.
type Language string

const (
	LangKotlin Language = "kotlin"
	LangJava   Language = "java"
)

// Kind classifies a declaration.
type Kind string

const (
	KindClass             Kind = "class"
	KindInterface         Kind = "interface"
	KindObject            Kind = "object"
	KindCompanionObject   Kind = "companion object"
	KindEnumClass         Kind = "enum class"
	KindEnumCase          Kind = "enum case"
	KindSealedClass       Kind = "sealed class"
	KindSealedVariant     Kind = "sealed variant"
	KindDataClass         Kind = "data class"
	KindValueClass        Kind = "value class"
	KindAnnotation        Kind = "annotation"
	KindTypeAlias         Kind = "type alias"
	KindFunction          Kind = "function"
	KindExtensionFunction Kind = "extension function"
	KindMethod            Kind = "method"
	KindConstructor       Kind = "constructor"
	KindProperty          Kind = "property"
	KindField             Kind = "field"
	KindParameter         Kind = "parameter"
	KindResource          Kind = "resource"
)

// IsType reports whether the kind declares a type.
func (k Kind) IsType() bool {
	switch k {
	case KindClass, KindInterface, KindObject, KindCompanionObject,
		KindEnumClass, KindSealedClass, KindSealedVariant, KindDataClass,
		KindValueClass, KindAnnotation, KindTypeAlias:
		return true
	}
	return false
}

// IsCallable reports whether the kind can be invoked.
func (k Kind) IsCallable() bool {
	switch k {
	case KindFunction, KindExtensionFunction, KindMethod, KindConstructor:
		return true
	}
	return false
}

// IsMember reports whether the kind lives inside a type.
func (k Kind) IsMember() bool {
	switch k {
	case KindMethod, KindProperty, KindField, KindConstructor:
		return true
	}
	return false
}

// Visibility of a declaration.
type Visibility string

const (
	VisPublic         Visibility = "public"
	VisPrivate        Visibility = "private"
	VisProtected      Visibility = "protected"
	VisInternal       Visibility = "internal"
	VisPackagePrivate Visibility = "package-private"
)

// KotlinVisibility maps a Kotlin modifier keyword to a Visibility.
// Kotlin defaults to public.
func KotlinVisibility(modifiers []string) Visibility {
	for _, m := range modifiers {
		switch m {
		case "private":
			return VisPrivate
		case "protected":
			return VisProtected
		case "internal":
			return VisInternal
		case "public":
			return VisPublic
		}
	}
	return VisPublic
}

// JavaVisibility maps Java modifiers to a Visibility.
// Java defaults to package-private.
func JavaVisibility(modifiers []string) Visibility {
	for _, m := range modifiers {
		switch m {
		case "private":
			return VisPrivate
		case "protected":
			return VisProtected
		case "public":
			return VisPublic
		}
	}
	return VisPackagePrivate
}

// ID is the stable identity of a declaration: its file plus byte span.
type ID struct {
	File  string
	Start uint32
	End   uint32
}

func (id ID) String() string {
	return fmt.Sprintf("%s:%d:%d", id.File, id.Start, id.End)
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id.File == "" && id.Start == 0 && id.End == 0
}

// Location of a declaration or reference in source.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`   // 1-based
	Column    int    `json:"column"` // 1-based
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Declaration is a named, locatable source entity.
type Declaration struct {
	ID       ID
	NodeID   uint32 // dense id assigned at registry insertion, used by bitmaps
	Name     string
	FQN      string // dotted package + enclosing chain + simple name
	Kind     Kind
	Visible  Visibility
	Location Location
	Parent   ID // zero when top-level
	Language Language

	Modifiers     []string
	Annotations   []string
	SuperTypes    []string
	GenericParams []string

	// Arity is the parameter count for callables and the zero-based
	// position for parameters.
	Arity int

	Synthetic    bool // compiler-generated data-class member
	ConstVal     bool
	Convention   bool // operator/convention member (plus, get, invoke, ...)
	Suspend      bool
	Delegated    bool // property delegate (by lazy, ...)
	BackingField bool // _name pattern with matching public accessor
	Abstract     bool
	Override     bool
	Static       bool
	EndLine      int
}

// HasParent reports whether the declaration is nested.
func (d *Declaration) HasParent() bool {
	return !d.Parent.IsZero()
}

// HasModifier reports whether a modifier keyword is present.
func (d *Declaration) HasModifier(m string) bool {
	for _, mod := range d.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// HasAnnotationNamed reports whether any annotation's simple name matches.
// Annotation strings are stored as written ("@Keep", "@androidx.annotation.Keep").
func (d *Declaration) HasAnnotationNamed(name string) bool {
	for _, a := range d.Annotations {
		if annotationSimpleName(a) == name {
			return true
		}
	}
	return false
}

// annotationSimpleName strips the @, any qualifier, and any argument list.
func annotationSimpleName(a string) string {
	a = strings.TrimPrefix(a, "@")
	if i := strings.IndexByte(a, '('); i >= 0 {
		a = a[:i]
	}
	if i := strings.LastIndexByte(a, '.'); i >= 0 {
		a = a[i+1:]
	}
	return strings.TrimSpace(a)
}

// Display renders the declaration for terminal output.
func (d *Declaration) Display() string {
	return fmt.Sprintf("%s %s (%s)", d.Kind, d.Name, d.Location)
}

// ConventionNames are member names the language dispatches implicitly:
// operator overloads, destructuring components, and delegate accessors.
var ConventionNames = map[string]bool{
	"plus": true, "minus": true, "times": true, "div": true, "rem": true,
	"get": true, "set": true, "invoke": true, "contains": true,
	"getValue": true, "setValue": true, "provideDelegate": true,
	"iterator": true, "hasNext": true, "next": true,
	"compareTo": true, "rangeTo": true, "unaryPlus": true, "unaryMinus": true,
	"not": true, "inc": true, "dec": true,
	"equals": true, "hashCode": true, "toString": true,
}

// IsConventionName reports whether a member name is implicitly dispatched,
// including componentN destructuring members.
func IsConventionName(name string) bool {
	if ConventionNames[name] {
		return true
	}
	if strings.HasPrefix(name, "component") && len(name) > len("component") {
		for _, r := range name[len("component"):] {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}
