package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// extractJava runs declaration and reference extraction over a Java tree.
func extractJava(root *sitter.Node, source []byte, fr *graph.FileResult) {
	fr.Package = javaPackage(root, source)
	fr.Imports = javaImports(root, source)
	javaDeclarations(root, source, fr, fr.Package, graph.ID{})
	javaReferences(root, source, fr)
	enumParentImportRefs(fr)
}

func javaPackage(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "package_declaration" {
			for j := 0; j < int(child.ChildCount()); j++ {
				c := child.Child(j)
				if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
					return text(c, source)
				}
			}
		}
	}
	return ""
}

func javaImports(root *sitter.Node, source []byte) []string {
	var imports []string
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "import_declaration" {
			continue
		}
		imp := ""
		for j := 0; j < int(child.ChildCount()); j++ {
			c := child.Child(j)
			if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
				imp = text(c, source)
			}
			if c.Type() == "asterisk" {
				imp += ".*"
			}
		}
		if imp != "" {
			imports = append(imports, imp)
		}
	}
	return imports
}

func javaDeclarations(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_declaration":
			javaType(child, source, fr, prefix, parent, graph.KindClass)
		case "interface_declaration":
			javaType(child, source, fr, prefix, parent, graph.KindInterface)
		case "enum_declaration":
			javaType(child, source, fr, prefix, parent, graph.KindEnumClass)
		case "annotation_type_declaration":
			javaType(child, source, fr, prefix, parent, graph.KindAnnotation)
		case "record_declaration":
			javaType(child, source, fr, prefix, parent, graph.KindDataClass)
		default:
			javaDeclarations(child, source, fr, prefix, parent)
		}
	}
}

func javaType(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID, kind graph.Kind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, source)
	id := declID(fr.Path, node)
	modifiers, annotations := javaModifiers(node, source)

	decl := &graph.Declaration{
		ID:            id,
		Name:          name,
		FQN:           joinFQN(prefix, name),
		Kind:          kind,
		Visible:       graph.JavaVisibility(modifiers),
		Location:      location(fr.Path, node),
		Parent:        parent,
		Language:      graph.LangJava,
		Modifiers:     modifiers,
		Annotations:   annotations,
		SuperTypes:    javaSuperTypes(node, source),
		GenericParams: javaTypeParams(node, source),
		Abstract:      hasString(modifiers, "abstract"),
		Static:        hasString(modifiers, "static"),
		EndLine:       int(node.EndPoint().Row) + 1,
	}
	fr.Declarations = append(fr.Declarations, decl)

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		switch member.Type() {
		case "class_declaration":
			javaType(member, source, fr, decl.FQN, id, graph.KindClass)
		case "interface_declaration":
			javaType(member, source, fr, decl.FQN, id, graph.KindInterface)
		case "enum_declaration":
			javaType(member, source, fr, decl.FQN, id, graph.KindEnumClass)
		case "method_declaration":
			javaMethod(member, source, fr, decl.FQN, id)
		case "constructor_declaration":
			javaConstructor(member, source, fr, decl.FQN, id)
		case "field_declaration":
			javaField(member, source, fr, decl.FQN, id)
		case "enum_constant":
			javaEnumConstant(member, source, fr, decl.FQN, id)
		case "enum_body_declarations":
			for j := 0; j < int(member.ChildCount()); j++ {
				sub := member.Child(j)
				switch sub.Type() {
				case "method_declaration":
					javaMethod(sub, source, fr, decl.FQN, id)
				case "field_declaration":
					javaField(sub, source, fr, decl.FQN, id)
				case "constructor_declaration":
					javaConstructor(sub, source, fr, decl.FQN, id)
				}
			}
		}
	}
}

func javaEnumConstant(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, source)
	fr.Declarations = append(fr.Declarations, &graph.Declaration{
		ID:       declID(fr.Path, node),
		Name:     name,
		FQN:      joinFQN(prefix, name),
		Kind:     graph.KindEnumCase,
		Visible:  graph.VisPublic,
		Location: location(fr.Path, node),
		Parent:   parent,
		Language: graph.LangJava,
		EndLine:  int(node.EndPoint().Row) + 1,
	})
}

func javaMethod(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, source)
	id := declID(fr.Path, node)
	modifiers, annotations := javaModifiers(node, source)

	decl := &graph.Declaration{
		ID:          id,
		Name:        name,
		FQN:         joinFQN(prefix, name),
		Kind:        graph.KindMethod,
		Visible:     graph.JavaVisibility(modifiers),
		Location:    location(fr.Path, node),
		Parent:      parent,
		Language:    graph.LangJava,
		Modifiers:   modifiers,
		Annotations: annotations,
		Abstract:    hasString(modifiers, "abstract"),
		Static:      hasString(modifiers, "static"),
		Convention:  graph.IsConventionName(name),
		EndLine:     int(node.EndPoint().Row) + 1,
	}
	for _, a := range annotations {
		if strings.Contains(a, "Override") {
			decl.Override = true
		}
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		decl.Arity = javaParameters(params, source, fr, id)
	}
	fr.Declarations = append(fr.Declarations, decl)
}

func javaConstructor(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	id := declID(fr.Path, node)
	modifiers, annotations := javaModifiers(node, source)
	decl := &graph.Declaration{
		ID:          id,
		Name:        "constructor",
		FQN:         joinFQN(prefix, "constructor"),
		Kind:        graph.KindConstructor,
		Visible:     graph.JavaVisibility(modifiers),
		Location:    location(fr.Path, node),
		Parent:      parent,
		Language:    graph.LangJava,
		Modifiers:   modifiers,
		Annotations: annotations,
		EndLine:     int(node.EndPoint().Row) + 1,
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		decl.Arity = javaParameters(params, source, fr, id)
	}
	fr.Declarations = append(fr.Declarations, decl)
}

func javaField(node *sitter.Node, source []byte, fr *graph.FileResult, prefix string, parent graph.ID) {
	modifiers, annotations := javaModifiers(node, source)
	for _, vd := range childrenOfKind(node, "variable_declarator") {
		nameNode := vd.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := text(nameNode, source)
		fr.Declarations = append(fr.Declarations, &graph.Declaration{
			ID:          declID(fr.Path, vd),
			Name:        name,
			FQN:         joinFQN(prefix, name),
			Kind:        graph.KindField,
			Visible:     graph.JavaVisibility(modifiers),
			Location:    location(fr.Path, node),
			Parent:      parent,
			Language:    graph.LangJava,
			Modifiers:   modifiers,
			Annotations: annotations,
			ConstVal:    hasString(modifiers, "static") && hasString(modifiers, "final"),
			Static:      hasString(modifiers, "static"),
			EndLine:     int(node.EndPoint().Row) + 1,
		})
	}
}

func javaParameters(params *sitter.Node, source []byte, fr *graph.FileResult, owner graph.ID) int {
	position := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child.Type() != "formal_parameter" && child.Type() != "spread_parameter" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			// spread_parameter keeps the declarator nested
			if vd := childOfKind(child, "variable_declarator"); vd != nil {
				nameNode = vd.ChildByFieldName("name")
			}
		}
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
			Language: graph.LangJava,
			Arity:    position,
			EndLine:  int(child.EndPoint().Row) + 1,
		})
		position++
	}
	return position
}

func javaModifiers(node *sitter.Node, source []byte) (modifiers, annotations []string) {
	mods := childOfKind(node, "modifiers")
	if mods == nil {
		return nil, nil
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		m := mods.Child(i)
		if m.Type() == "marker_annotation" || m.Type() == "annotation" {
			annotations = append(annotations, strings.TrimSpace(text(m, source)))
			continue
		}
		if t := strings.TrimSpace(text(m, source)); t != "" {
			modifiers = append(modifiers, t)
		}
	}
	return modifiers, annotations
}

func javaSuperTypes(node *sitter.Node, source []byte) []string {
	var supers []string
	if sc := node.ChildByFieldName("superclass"); sc != nil {
		t := strings.TrimSpace(strings.TrimPrefix(text(sc, source), "extends"))
		if t != "" {
			supers = append(supers, strings.TrimSpace(t))
		}
	}
	if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
		if list := childOfKind(ifaces, "type_list"); list != nil {
			for i := 0; i < int(list.ChildCount()); i++ {
				c := list.Child(i)
				if c.Type() != "," {
					if t := strings.TrimSpace(text(c, source)); t != "" {
						supers = append(supers, t)
					}
				}
			}
		}
	}
	return supers
}

func javaTypeParams(node *sitter.Node, source []byte) []string {
	tp := node.ChildByFieldName("type_parameters")
	if tp == nil {
		tp = childOfKind(node, "type_parameters")
	}
	if tp == nil {
		return nil
	}
	var out []string
	for _, p := range childrenOfKind(tp, "type_parameter") {
		if id := childOfKind(p, "type_identifier"); id != nil {
			out = append(out, text(id, source))
		}
	}
	return out
}

// javaReferences walks the tree emitting references by syntactic context.
func javaReferences(root *sitter.Node, source []byte, fr *graph.FileResult) {
	Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "method_invocation":
			javaInvocationRef(n, source, fr)
			return true
		case "object_creation_expression":
			if t := n.ChildByFieldName("type"); t != nil {
				name := simpleName(stripGenerics(text(t, source)))
				if name != "" && !builtinTypes[name] {
					loc := location(fr.Path, t)
					fr.Refs = append(fr.Refs, graph.NewUnresolved(name, graph.RefInstantiation, loc))
					argc := -1
					if args := n.ChildByFieldName("arguments"); args != nil {
						argc = countArgs(args)
					}
					u := graph.NewUnresolved("constructor", graph.RefCall, loc)
					u.ArgCount = argc
					fr.Refs = append(fr.Refs, u)
				}
			}
			return true
		case "assignment_expression":
			javaAssignmentRef(n, source, fr)
			return true
		case "update_expression":
			// x++ / --x read then write.
			if id := firstIdentifier(n); id != nil {
				loc := location(fr.Path, id)
				fr.Refs = append(fr.Refs,
					graph.NewUnresolved(text(id, source), graph.RefRead, loc),
					graph.NewUnresolved(text(id, source), graph.RefWrite, loc))
			}
			return false
		case "type_identifier":
			name := text(n, source)
			if name != "" && !builtinTypes[name] {
				kind := graph.RefTypeUse
				if p := n.Parent(); p != nil {
					switch p.Type() {
					case "superclass":
						kind = graph.RefExtends
					case "type_list":
						if gp := p.Parent(); gp != nil && gp.Type() == "super_interfaces" {
							kind = graph.RefImplements
						}
					}
				}
				fr.Refs = append(fr.Refs, graph.NewUnresolved(name, kind, location(fr.Path, n)))
			}
			return true
		case "marker_annotation", "annotation":
			if name := n.ChildByFieldName("name"); name != nil {
				fr.Refs = append(fr.Refs, graph.NewUnresolved(text(name, source), graph.RefAnnotation, location(fr.Path, n)))
			}
			return true
		case "identifier":
			javaIdentifierRef(n, source, fr)
			return true
		}
		return true
	})
}

func javaInvocationRef(n *sitter.Node, source []byte, fr *graph.FileResult) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	argc := -1
	if args := n.ChildByFieldName("arguments"); args != nil {
		argc = countArgs(args)
	}
	u := graph.NewUnresolved(text(name, source), graph.RefCall, location(fr.Path, name))
	u.ArgCount = argc
	fr.Refs = append(fr.Refs, u)
	if obj := n.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
		fr.Refs = append(fr.Refs, graph.NewUnresolved(text(obj, source), graph.RefRead, location(fr.Path, obj)))
	}
}

func javaAssignmentRef(n *sitter.Node, source []byte, fr *graph.FileResult) {
	left := n.ChildByFieldName("left")
	if left == nil {
		return
	}
	op := text(n.ChildByFieldName("operator"), source)
	compound := op != "" && op != "="

	var target *sitter.Node
	switch left.Type() {
	case "identifier":
		target = left
	case "field_access":
		target = left.ChildByFieldName("field")
		if obj := left.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
			fr.Refs = append(fr.Refs, graph.NewUnresolved(text(obj, source), graph.RefRead, location(fr.Path, obj)))
		}
	}
	if target != nil {
		loc := location(fr.Path, target)
		fr.Refs = append(fr.Refs, graph.NewUnresolved(text(target, source), graph.RefWrite, loc))
		if compound {
			fr.Refs = append(fr.Refs, graph.NewUnresolved(text(target, source), graph.RefRead, loc))
		}
	}
}

// javaIdentifierRef emits a Read for identifiers in value positions. Name
// positions of declarations and the targets handled elsewhere are skipped.
func javaIdentifierRef(n *sitter.Node, source []byte, fr *graph.FileResult) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	switch parent.Type() {
	case "assignment_expression":
		// the left side is javaAssignmentRef's write target; the right
		// side reads
		if isAssignmentTarget(n) {
			return
		}
	case "method_invocation", "update_expression",
		"package_declaration", "import_declaration", "scoped_identifier",
		"method_declaration", "class_declaration", "interface_declaration",
		"enum_declaration", "annotation_type_declaration", "constructor_declaration",
		"formal_parameter", "spread_parameter", "enum_constant", "labeled_statement",
		"marker_annotation", "annotation":
		return
	case "variable_declarator":
		// the name side defines; only the value side (after =) reads
		if nameNode := parent.ChildByFieldName("name"); nameNode != nil && nameNode.StartByte() == n.StartByte() {
			return
		}
	case "field_access":
		// handled by assignment/invocation paths when relevant; a bare
		// field access reads both sides
		if fieldNode := parent.ChildByFieldName("field"); fieldNode != nil && fieldNode.StartByte() == n.StartByte() {
			if !isAssignmentTarget(parent) {
				fr.Refs = append(fr.Refs, graph.NewUnresolved(text(n, source), graph.RefRead, location(fr.Path, n)))
			}
			return
		}
	}
	fr.Refs = append(fr.Refs, graph.NewUnresolved(text(n, source), graph.RefRead, location(fr.Path, n)))
}

func isAssignmentTarget(n *sitter.Node) bool {
	p := n.Parent()
	if p == nil || p.Type() != "assignment_expression" {
		return false
	}
	left := p.ChildByFieldName("left")
	return left != nil && left.StartByte() == n.StartByte()
}

func countArgs(args *sitter.Node) int {
	count := 0
	for i := 0; i < int(args.ChildCount()); i++ {
		t := args.Child(i).Type()
		if t != "(" && t != ")" && t != "," {
			count++
		}
	}
	return count
}

func firstIdentifier(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "identifier" {
			return c
		}
	}
	return nil
}
