package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// extractKotlin runs both phases over a Kotlin tree: declaration extraction
// first, then reference extraction over the whole file.
func extractKotlin(root *sitter.Node, source []byte, fr *graph.FileResult) {
	fr.Package = ktPackage(root, source)
	fr.Imports = ktImports(root, source)
	ktDeclarations(root, source, fr, fr.Package, graph.ID{})
	ktReferences(root, source, fr)
	enumParentImportRefs(fr)
}

func ktPackage(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "package_header" {
			if ident := childOfKind(child, "identifier"); ident != nil {
				return text(ident, source)
			}
		}
	}
	return ""
}

func ktImports(root *sitter.Node, source []byte) []string {
	var imports []string
	Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_header":
			imp := ""
			if ident := childOfKind(n, "identifier"); ident != nil {
				imp = text(ident, source)
			}
			if imp != "" {
				// Alias imports keep the " as Alias" suffix for the resolver.
				if alias := childOfKind(n, "import_alias"); alias != nil {
					if name := childOfKind(alias, "simple_identifier"); name != nil {
						imp += " as " + text(name, source)
					}
				} else if childOfKind(n, ".*") != nil || strings.HasSuffix(strings.TrimSpace(text(n, source)), ".*") {
					imp += ".*"
				}
				imports = append(imports, imp)
			}
			return false
		case "source_file", "import_list":
			return true
		}
		return false
	})
	return imports
}

// ktDeclarations walks top-level and nested declaration nodes. prefix is the
// enclosing FQN (package for top level), parent the enclosing declaration id.
func ktDeclarations(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_declaration":
			ktClass(child, source, fr, prefix, parent)
		case "object_declaration":
			ktObject(child, source, fr, prefix, parent)
		case "function_declaration":
			ktFunction(child, source, fr, prefix, parent)
		case "property_declaration":
			ktProperty(child, source, fr, prefix, parent)
		case "type_alias":
			ktTypeAlias(child, source, fr, prefix)
		default:
			ktDeclarations(child, source, fr, prefix, parent)
		}
	}
}

func ktClass(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	name := ktTypeName(node, source)
	if name == "" {
		return
	}
	id := declID(fr.Path, node)
	modifiers, annotations := ktModifiers(node, source)
	kind := ktClassKind(node, modifiers)

	decl := &graph.Declaration{
		ID:            id,
		Name:          stripGenerics(name),
		FQN:           joinFQN(prefix, stripGenerics(name)),
		Kind:          kind,
		Visible:       graph.KotlinVisibility(modifiers),
		Location:      location(fr.Path, node),
		Parent:        parent,
		Language:      graph.LangKotlin,
		Modifiers:     modifiers,
		Annotations:   annotations,
		SuperTypes:    ktSuperTypes(node, source),
		GenericParams: ktTypeParams(node, source),
		Abstract:      hasString(modifiers, "abstract"),
		EndLine:       int(node.EndPoint().Row) + 1,
	}
	fr.Declarations = append(fr.Declarations, decl)

	ctorProps := ktPrimaryConstructor(node, source, fr, id, decl)

	if body := childOfKind(node, "class_body"); body != nil {
		ktClassMembers(body, source, fr, decl.FQN, id)
	} else if body := childOfKind(node, "enum_class_body"); body != nil {
		ktClassMembers(body, source, fr, decl.FQN, id)
	}

	if kind == graph.KindDataClass {
		synthesizeDataClassMembers(node, fr, decl, ctorProps)
	}
}

// ktClassKind inspects keyword tokens and modifiers to classify the class.
func ktClassKind(node *sitter.Node, modifiers []string) graph.Kind {
	if childOfKind(node, "interface") != nil {
		// sealed interfaces keep the modifier; variant promotion reads it
		return graph.KindInterface
	}
	switch {
	case hasString(modifiers, "enum") || childOfKind(node, "enum") != nil:
		// `enum class` carries enum as a keyword token of the declaration
		return graph.KindEnumClass
	case hasString(modifiers, "annotation"):
		return graph.KindAnnotation
	case hasString(modifiers, "sealed"):
		return graph.KindSealedClass
	case hasString(modifiers, "data"):
		return graph.KindDataClass
	case hasString(modifiers, "value"):
		return graph.KindValueClass
	}
	return graph.KindClass
}

func ktObject(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	name := ktTypeName(node, source)
	if name == "" {
		return
	}
	id := declID(fr.Path, node)
	modifiers, annotations := ktModifiers(node, source)
	decl := &graph.Declaration{
		ID:          id,
		Name:        name,
		FQN:         joinFQN(prefix, name),
		Kind:        graph.KindObject,
		Visible:     graph.KotlinVisibility(modifiers),
		Location:    location(fr.Path, node),
		Parent:      parent,
		Language:    graph.LangKotlin,
		Modifiers:   modifiers,
		Annotations: annotations,
		SuperTypes:  ktSuperTypes(node, source),
		EndLine:     int(node.EndPoint().Row) + 1,
	}
	fr.Declarations = append(fr.Declarations, decl)

	if body := childOfKind(node, "class_body"); body != nil {
		ktClassMembers(body, source, fr, decl.FQN, id)
	}
}

func ktClassMembers(body *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "class_declaration":
			ktClass(child, source, fr, prefix, parent)
		case "object_declaration":
			ktObject(child, source, fr, prefix, parent)
		case "function_declaration":
			ktFunction(child, source, fr, prefix, parent)
		case "property_declaration":
			ktProperty(child, source, fr, prefix, parent)
		case "secondary_constructor":
			ktConstructor(child, source, fr, prefix, parent)
		case "companion_object":
			ktCompanion(child, source, fr, prefix, parent)
		case "enum_entry":
			ktEnumEntry(child, source, fr, prefix, parent)
		}
	}
}

func ktCompanion(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	name := "Companion"
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "simple_identifier" || child.Type() == "type_identifier" {
			name = text(child, source)
			break
		}
	}
	id := declID(fr.Path, node)
	decl := &graph.Declaration{
		ID:        id,
		Name:      name,
		FQN:       joinFQN(prefix, name),
		Kind:      graph.KindCompanionObject,
		Visible:   graph.VisPublic,
		Location:  location(fr.Path, node),
		Parent:    parent,
		Language:  graph.LangKotlin,
		Modifiers: []string{"companion"},
		EndLine:   int(node.EndPoint().Row) + 1,
	}
	fr.Declarations = append(fr.Declarations, decl)

	if body := childOfKind(node, "class_body"); body != nil {
		ktClassMembers(body, source, fr, decl.FQN, id)
	}
}

func ktEnumEntry(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	name := ""
	if n := childOfKind(node, "simple_identifier"); n != nil {
		name = text(n, source)
	}
	if name == "" {
		return
	}
	fr.Declarations = append(fr.Declarations, &graph.Declaration{
		ID:       declID(fr.Path, node),
		Name:     name,
		FQN:      joinFQN(prefix, name),
		Kind:     graph.KindEnumCase,
		Visible:  graph.VisPublic,
		Location: location(fr.Path, node),
		Parent:   parent,
		Language: graph.LangKotlin,
		EndLine:  int(node.EndPoint().Row) + 1,
	})
}

func ktFunction(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	name := ktFunctionName(node, source)
	if name == "" {
		return
	}
	id := declID(fr.Path, node)
	modifiers, annotations := ktModifiers(node, source)

	kind := graph.KindFunction
	if !parent.IsZero() {
		kind = graph.KindMethod
	}
	receiver := ktExtensionReceiver(node, source)
	if receiver != "" && parent.IsZero() {
		kind = graph.KindExtensionFunction
	}

	decl := &graph.Declaration{
		ID:            id,
		Name:          name,
		FQN:           joinFQN(prefix, name),
		Kind:          kind,
		Visible:       graph.KotlinVisibility(modifiers),
		Location:      location(fr.Path, node),
		Parent:        parent,
		Language:      graph.LangKotlin,
		Modifiers:     modifiers,
		Annotations:   annotations,
		GenericParams: ktTypeParams(node, source),
		Suspend:       hasString(modifiers, "suspend"),
		Convention:    hasString(modifiers, "operator") || graph.IsConventionName(name),
		Abstract:      hasString(modifiers, "abstract"),
		Override:      hasString(modifiers, "override"),
		EndLine:       int(node.EndPoint().Row) + 1,
	}

	if receiver != "" {
		// The receiver type is used even when the function body never
		// mentions it.
		fr.Refs = append(fr.Refs, graph.NewUnresolved(simpleName(stripGenerics(receiver)), graph.RefTypeUse, location(fr.Path, node)))
	}

	if params := childOfKind(node, "function_value_parameters"); params != nil {
		decl.Arity = ktParameters(params, source, fr, id)
	}

	fr.Declarations = append(fr.Declarations, decl)
}

func ktConstructor(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	id := declID(fr.Path, node)
	modifiers, annotations := ktModifiers(node, source)
	decl := &graph.Declaration{
		ID:          id,
		Name:        "constructor",
		FQN:         joinFQN(prefix, "constructor"),
		Kind:        graph.KindConstructor,
		Visible:     graph.KotlinVisibility(modifiers),
		Location:    location(fr.Path, node),
		Parent:      parent,
		Language:    graph.LangKotlin,
		Modifiers:   modifiers,
		Annotations: annotations,
		EndLine:     int(node.EndPoint().Row) + 1,
	}
	if params := childOfKind(node, "function_value_parameters"); params != nil {
		decl.Arity = ktParameters(params, source, fr, id)
	}
	fr.Declarations = append(fr.Declarations, decl)
}

// ktPrimaryConstructor registers the primary constructor and its class
// parameters. val/var parameters are additionally registered as properties
// (keyed by the name node's span so the two ids stay distinct). Returns the
// property names in declaration order for componentN synthesis.
func ktPrimaryConstructor(classNode *sitter.Node, source []byte, fr *graph.FileResult, classID graph.ID, classDecl *graph.Declaration) []string {
	ctor := childOfKind(classNode, "primary_constructor")
	if ctor == nil {
		return nil
	}
	id := declID(fr.Path, ctor)
	decl := &graph.Declaration{
		ID:        id,
		Name:      "constructor",
		FQN:       joinFQN(classDecl.FQN, "constructor"),
		Kind:      graph.KindConstructor,
		Visible:   graph.VisPublic,
		Location:  location(fr.Path, ctor),
		Parent:    classID,
		Language:  graph.LangKotlin,
		Modifiers: []string{"primary"},
		EndLine:   int(ctor.EndPoint().Row) + 1,
	}

	var props []string
	position := 0
	Walk(ctor, func(n *sitter.Node) bool {
		if n.Type() != "class_parameter" {
			return true
		}
		nameNode := childOfKind(n, "simple_identifier")
		if nameNode == nil {
			return false
		}
		pname := text(nameNode, source)
		isProp := childOfKind(n, "val") != nil || childOfKind(n, "var") != nil ||
			childOfKind(n, "binding_pattern_kind") != nil ||
			classDecl.Kind == graph.KindValueClass
		fr.Declarations = append(fr.Declarations, &graph.Declaration{
			ID:       declID(fr.Path, n),
			Name:     pname,
			Kind:     graph.KindParameter,
			Visible:  graph.VisPublic,
			Location: location(fr.Path, n),
			Parent:   id,
			Language: graph.LangKotlin,
			Arity:    position,
			EndLine:  int(n.EndPoint().Row) + 1,
		})
		if isProp {
			mods, _ := ktModifiers(n, source)
			fr.Declarations = append(fr.Declarations, &graph.Declaration{
				ID:        declID(fr.Path, nameNode),
				Name:      pname,
				FQN:       joinFQN(classDecl.FQN, pname),
				Kind:      graph.KindProperty,
				Visible:   graph.KotlinVisibility(mods),
				Location:  location(fr.Path, nameNode),
				Parent:    classID,
				Language:  graph.LangKotlin,
				Modifiers: mods,
				EndLine:   int(n.EndPoint().Row) + 1,
			})
			props = append(props, pname)
		}
		position++
		return false
	})
	decl.Arity = position
	fr.Declarations = append(fr.Declarations, decl)
	return props
}

// synthesizeDataClassMembers registers the compiler-generated members of a
// data class. They are flagged synthetic so DC001 never reports them, but
// registered so references to them resolve.
func synthesizeDataClassMembers(classNode *sitter.Node, fr *graph.FileResult, classDecl *graph.Declaration, ctorProps []string) {
	names := []string{"copy", "equals", "hashCode", "toString"}
	for i := range ctorProps {
		names = append(names, "component"+itoa(i+1))
	}
	base := classNode.EndByte()
	for i, name := range names {
		arity := 0
		if name == "copy" {
			arity = len(ctorProps)
		} else if name == "equals" {
			arity = 1
		}
		fr.Declarations = append(fr.Declarations, &graph.Declaration{
			ID:        graph.ID{File: fr.Path, Start: base, End: base + uint32(i) + 1},
			Name:      name,
			FQN:       joinFQN(classDecl.FQN, name),
			Kind:      graph.KindMethod,
			Visible:   graph.VisPublic,
			Location:  classDecl.Location,
			Parent:    classDecl.ID,
			Language:  graph.LangKotlin,
			Arity:     arity,
			Synthetic: true,
			EndLine:   classDecl.EndLine,
		})
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func ktProperty(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	modifiers, annotations := ktModifiers(node, source)
	for _, vd := range childrenOfKind(node, "variable_declaration") {
		nameNode := childOfKind(vd, "simple_identifier")
		if nameNode == nil {
			continue
		}
		name := text(nameNode, source)

		// Accessors are siblings of property_declaration in this grammar;
		// extend the span so deletion takes them too.
		end := node.EndByte()
		endLine := int(node.EndPoint().Row) + 1
		for sib := node.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if sib.Type() == "getter" || sib.Type() == "setter" {
				end = sib.EndByte()
				endLine = int(sib.EndPoint().Row) + 1
				continue
			}
			break
		}

		decl := &graph.Declaration{
			ID:          graph.ID{File: fr.Path, Start: node.StartByte(), End: end},
			Name:        name,
			FQN:         joinFQN(prefix, name),
			Kind:        graph.KindProperty,
			Visible:     graph.KotlinVisibility(modifiers),
			Location:    location(fr.Path, node),
			Parent:      parent,
			Language:    graph.LangKotlin,
			Modifiers:   modifiers,
			Annotations: annotations,
			ConstVal:    hasString(modifiers, "const"),
			EndLine:     endLine,
		}

		if delegate := ktPropertyDelegate(node, source); delegate != "" {
			decl.Delegated = true
			fr.Refs = append(fr.Refs, graph.NewUnresolved(delegate, graph.RefDelegation, location(fr.Path, node)))
		}

		fr.Declarations = append(fr.Declarations, decl)
	}
}

// ktPropertyDelegate returns the delegate callee for `by ...` properties.
func ktPropertyDelegate(node *sitter.Node, source []byte) string {
	delegate := childOfKind(node, "property_delegate")
	if delegate == nil {
		return ""
	}
	for i := 0; i < int(delegate.ChildCount()); i++ {
		child := delegate.Child(i)
		switch child.Type() {
		case "call_expression":
			if callee := childOfKind(child, "simple_identifier"); callee != nil {
				return text(callee, source)
			}
			if nav := childOfKind(child, "navigation_expression"); nav != nil {
				t := text(nav, source)
				if i := strings.IndexByte(t, '.'); i >= 0 {
					return t[:i]
				}
				return t
			}
		case "simple_identifier":
			return text(child, source)
		case "navigation_expression":
			t := text(child, source)
			if i := strings.IndexByte(t, '.'); i >= 0 {
				return t[:i]
			}
			return t
		}
	}
	return ""
}

func ktTypeAlias(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string) {
	var name string
	if n := childOfKind(node, "type_identifier"); n != nil {
		name = text(n, source)
	} else if n := childOfKind(node, "simple_identifier"); n != nil {
		name = text(n, source)
	}
	if name == "" {
		return
	}
	modifiers, _ := ktModifiers(node, source)
	fr.Declarations = append(fr.Declarations, &graph.Declaration{
		ID:        declID(fr.Path, node),
		Name:      name,
		FQN:       joinFQN(prefix, name),
		Kind:      graph.KindTypeAlias,
		Visible:   graph.KotlinVisibility(modifiers),
		Location:  location(fr.Path, node),
		Language:  graph.LangKotlin,
		Modifiers: modifiers,
		EndLine:   int(node.EndPoint().Row) + 1,
	})
}

// ktParameters registers value parameters and returns the count.
func ktParameters(params *sitter.Node, source []byte, fr *graph.FileResult, owner graph.ID) int {
	position := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child.Type() != "parameter" {
			continue
		}
		nameNode := childOfKind(child, "simple_identifier")
		if nameNode == nil {
			continue
		}
		fr.Declarations = append(fr.Declarations, &graph.Declaration{
			ID:       declID(fr.Path, child),
			Name:     text(nameNode, source),
			Kind:     graph.KindParameter,
			Visible:  graph.VisPublic,
			Location: location(fr.Path, child),
			Parent:   owner,
			Language: graph.LangKotlin,
			Arity:    position,
			EndLine:  int(child.EndPoint().Row) + 1,
		})
		position++
	}
	return position
}

// ktTypeName finds the declared name of a class/object node.
func ktTypeName(node *sitter.Node, source []byte) string {
	for _, kind := range []string{"type_identifier", "simple_identifier"} {
		if n := childOfKind(node, kind); n != nil {
			return text(n, source)
		}
	}
	return ""
}

// ktFunctionName handles both `fun name()` and `fun Type.name()`.
func ktFunctionName(node *sitter.Node, source []byte) string {
	seenFun := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "fun":
			seenFun = true
		case "simple_identifier":
			if seenFun {
				return text(child, source)
			}
		}
	}
	return ""
}

// ktExtensionReceiver returns the receiver type of an extension function.
func ktExtensionReceiver(node *sitter.Node, source []byte) string {
	seenFun := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "fun":
			seenFun = true
		case "receiver_type", "user_type", "type_reference":
			if seenFun {
				return text(child, source)
			}
		case "simple_identifier":
			if seenFun {
				return ""
			}
		}
	}
	return ""
}

func ktTypeParams(node *sitter.Node, source []byte) []string {
	tp := childOfKind(node, "type_parameters")
	if tp == nil {
		return nil
	}
	var out []string
	Walk(tp, func(n *sitter.Node) bool {
		if n.Type() == "type_parameter" {
			if id := childOfKind(n, "type_identifier"); id != nil {
				out = append(out, text(id, source))
			}
			return false
		}
		return true
	})
	return out
}

func ktSuperTypes(node *sitter.Node, source []byte) []string {
	var supers []string
	for _, spec := range childrenOfKind(node, "delegation_specifier") {
		t := text(spec, source)
		if i := strings.Index(t, " by "); i >= 0 {
			t = t[:i]
		}
		supers = append(supers, strings.TrimSpace(t))
	}
	return supers
}

// ktModifiers collects modifier keywords and annotations from a node's
// modifiers child.
func ktModifiers(node *sitter.Node, source []byte) (modifiers, annotations []string) {
	mods := childOfKind(node, "modifiers")
	if mods == nil {
		return nil, nil
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		m := mods.Child(i)
		if m.Type() == "annotation" {
			annotations = append(annotations, strings.TrimSpace(text(m, source)))
			continue
		}
		t := strings.TrimSpace(text(m, source))
		if t != "" && !strings.HasPrefix(t, "@") {
			modifiers = append(modifiers, t)
		}
	}
	return modifiers, annotations
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
