package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// ktReferences walks the whole tree emitting unresolved references. The
// reference kind is decided by the syntactic context (the parent node kind),
// mirroring how the language reads each identifier position.
func ktReferences(root *sitter.Node, source []byte, fr *graph.FileResult) {
	Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "simple_identifier":
			ktIdentifierRef(n, source, fr)
		case "user_type":
			name := stripGenerics(text(n, source))
			if name != "" && !builtinTypes[name] && !isTypeArgumentChild(n) {
				fr.Refs = append(fr.Refs, graph.NewUnresolved(name, graph.RefTypeUse, location(fr.Path, n)))
			}
			// Generic arguments produce their own TypeUse references.
			ktTypeArgumentRefs(n, source, fr)
			return false
		case "callable_reference":
			ktCallableRef(n, source, fr)
			return false
		case "delegation_specifier":
			ktDelegationRef(n, source, fr)
			return true
		}
		return true
	})
}

// isTypeArgumentChild reports whether a user_type sits inside type_arguments;
// those are emitted by ktTypeArgumentRefs of the outer type instead.
func isTypeArgumentChild(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "type_arguments", "type_projection":
			return true
		case "user_type":
			continue
		default:
			return false
		}
	}
	return false
}

// ktTypeArgumentRefs emits TypeUse references for every generic argument,
// recursively: Map<String, List<Session>> references Session.
func ktTypeArgumentRefs(typeNode *sitter.Node, source []byte, fr *graph.FileResult) {
	Walk(typeNode, func(n *sitter.Node) bool {
		if n == typeNode {
			return true
		}
		if n.Type() == "user_type" {
			name := stripGenerics(text(n, source))
			name = strings.TrimPrefix(strings.TrimPrefix(name, "in "), "out ")
			if name != "" && name != "*" && !builtinTypes[name] {
				fr.Refs = append(fr.Refs, graph.NewUnresolved(simpleName(name), graph.RefTypeUse, location(fr.Path, n)))
			}
		}
		return true
	})
}

// ktIdentifierRef classifies one identifier occurrence and emits zero or
// more references for it.
func ktIdentifierRef(n *sitter.Node, source []byte, fr *graph.FileResult) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	name := text(n, source)
	if name == "" || name == "it" || name == "this" || name == "field" {
		return
	}
	loc := location(fr.Path, n)

	emit := func(kind graph.RefKind, argCount int) {
		u := graph.NewUnresolved(name, kind, loc)
		u.ArgCount = argCount
		fr.Refs = append(fr.Refs, u)
		// Constructor calls double as Instantiation edges; an uppercase
		// callee is the only signal available without type resolution.
		if kind == graph.RefCall && startsUpper(name) {
			fr.Refs = append(fr.Refs, graph.NewUnresolved(name, graph.RefInstantiation, loc))
		}
	}

	switch parent.Type() {
	case "call_expression":
		emit(graph.RefCall, ktCallArgCount(parent))
	case "navigation_suffix":
		nav := parent.Parent()
		if ktIsNavigationCall(parent) {
			argc := -1
			if nav != nil && nav.Parent() != nil && nav.Parent().Type() == "call_expression" {
				argc = ktCallArgCount(nav.Parent())
			}
			emit(graph.RefCall, argc)
			// super<T>.m() and super.m() keep the override alive.
			if nav != nil && childOfKind(nav, "super_expression") != nil {
				fr.Refs = append(fr.Refs, graph.NewUnresolved(name, graph.RefOverride, loc))
			}
			return
		}
		if gp := parent.Parent(); gp != nil && gp.Type() == "directly_assignable_expression" {
			emit(graph.RefWrite, -1)
			if augmentedAssignment(gp.Parent()) {
				emit(graph.RefRead, -1)
			}
			return
		}
		emit(graph.RefRead, -1)
	case "navigation_expression":
		// Receiver position is always a read.
		emit(graph.RefRead, -1)
	case "directly_assignable_expression":
		// `obj.prop = v` puts obj here with a navigation_suffix sibling;
		// the receiver is read, the suffix identifier was the write.
		if childOfKind(parent, "navigation_suffix") != nil {
			emit(graph.RefRead, -1)
			return
		}
		emit(graph.RefWrite, -1)
		if augmentedAssignment(parent.Parent()) {
			emit(graph.RefRead, -1)
		}
	case "postfix_expression", "prefix_expression":
		// x++ / ++x read and write; plain prefix (!x, -x) only reads.
		if childOfKind(parent, "++") != nil || childOfKind(parent, "--") != nil {
			emit(graph.RefRead, -1)
			emit(graph.RefWrite, -1)
			return
		}
		emit(graph.RefRead, -1)
	case "infix_expression":
		if ktIsInfixFunctionName(parent, n) {
			emit(graph.RefCall, 1)
			return
		}
		emit(graph.RefRead, -1)
	case "value_argument":
		// Named-argument labels (`primary = x`) are parameter names, not
		// value references.
		if ktIsNamedArgumentLabel(parent, n) {
			return
		}
		emit(graph.RefRead, -1)
	case "annotation", "user_type", "type_reference", "constructor_invocation":
		switch parent.Type() {
		case "annotation":
			emit(graph.RefAnnotation, -1)
		case "constructor_invocation":
			emit(graph.RefInstantiation, -1)
		default:
			emit(graph.RefTypeUse, -1)
		}
	case "assignment", "augmented_assignment",
		"comparison_expression", "equality_expression", "additive_expression",
		"multiplicative_expression", "conjunction_expression", "disjunction_expression",
		"check_expression", "elvis_expression", "as_expression", "spread_expression",
		"parenthesized_expression", "indexing_expression", "range_expression",
		"if_expression", "when_expression", "when_condition", "when_entry",
		"control_structure_body", "statements", "jump_expression", "function_body",
		"lambda_literal", "anonymous_function", "string_literal", "interpolated_expression",
		"property_declaration", "variable_declaration",
		"value_arguments", "parameter", "class_parameter", "function_value_parameters":
		emit(graph.RefRead, -1)
	}
}

func startsUpper(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

// ktCallArgCount counts value arguments of a call_expression, including a
// trailing lambda.
func ktCallArgCount(call *sitter.Node) int {
	suffix := childOfKind(call, "call_suffix")
	if suffix == nil {
		return -1
	}
	count := 0
	if args := childOfKind(suffix, "value_arguments"); args != nil {
		count += len(childrenOfKind(args, "value_argument"))
	}
	if childOfKind(suffix, "annotated_lambda") != nil || childOfKind(suffix, "lambda_literal") != nil {
		count++
	}
	return count
}

// ktIsNavigationCall reports whether a navigation_suffix is the callee of a
// call expression (obj.method() vs obj.prop).
func ktIsNavigationCall(suffix *sitter.Node) bool {
	nav := suffix.Parent()
	if nav == nil || nav.Type() != "navigation_expression" {
		return false
	}
	call := nav.Parent()
	if call == nil || call.Type() != "call_expression" {
		return false
	}
	return childOfKind(call, "call_suffix") != nil
}

// ktIsInfixFunctionName reports whether the identifier is the middle element
// of `a until b` (the infix function, not an operand).
func ktIsInfixFunctionName(infix, ident *sitter.Node) bool {
	index := 0
	for i := 0; i < int(infix.ChildCount()); i++ {
		child := infix.Child(i)
		if child.Type() != "simple_identifier" {
			continue
		}
		if child.StartByte() == ident.StartByte() {
			return index == 1
		}
		index++
	}
	return false
}

// ktIsNamedArgumentLabel reports whether the identifier appears before the
// `=` of a named argument.
func ktIsNamedArgumentLabel(valueArg, ident *sitter.Node) bool {
	for i := 0; i < int(valueArg.ChildCount()); i++ {
		child := valueArg.Child(i)
		if child.Type() == "=" {
			return ident.StartByte() < child.StartByte()
		}
	}
	return false
}

// augmentedAssignment reports whether the assignment node uses a compound
// operator, which reads the target before writing it.
func augmentedAssignment(assignment *sitter.Node) bool {
	if assignment == nil {
		return false
	}
	for _, op := range []string{"+=", "-=", "*=", "/=", "%="} {
		if childOfKind(assignment, op) != nil {
			return true
		}
	}
	return false
}

// ktCallableRef handles `Foo::class`, `Foo::method` and `obj::method`.
func ktCallableRef(n *sitter.Node, source []byte, fr *graph.FileResult) {
	loc := location(fr.Path, n)
	isClassLiteral := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "class" || (child.Type() == "simple_identifier" && text(child, source) == "class") {
			isClassLiteral = true
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "type_identifier", "user_type", "type_reference":
			name := simpleName(stripGenerics(text(child, source)))
			kind := graph.RefTypeUse
			if isClassLiteral {
				kind = graph.RefReflection
			}
			fr.Refs = append(fr.Refs, graph.NewUnresolved(name, kind, loc))
		case "simple_identifier":
			name := text(child, source)
			if name == "class" {
				continue
			}
			// Left side before :: is a value/type read; right side is the
			// referenced callable.
			kind := graph.RefCall
			if i == 0 {
				kind = graph.RefRead
				if isClassLiteral {
					kind = graph.RefReflection
				}
			}
			fr.Refs = append(fr.Refs, graph.NewUnresolved(name, kind, location(fr.Path, child)))
		}
	}
}

// ktDelegationRef emits the inheritance edge for a supertype specifier and,
// for `Y by z` class delegation, a Delegation edge to both sides.
func ktDelegationRef(n *sitter.Node, source []byte, fr *graph.FileResult) {
	t := text(n, source)
	loc := location(fr.Path, n)

	super := t
	if i := strings.Index(t, " by "); i >= 0 {
		super = t[:i]
		delegate := strings.TrimSpace(t[i+4:])
		if j := strings.IndexFunc(delegate, func(r rune) bool {
			return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
		}); j >= 0 {
			delegate = delegate[:j]
		}
		if delegate != "" {
			fr.Refs = append(fr.Refs, graph.NewUnresolved(delegate, graph.RefDelegation, loc))
		}
		base := graph.BaseTypeName(super)
		if base != "" && !builtinTypes[base] {
			fr.Refs = append(fr.Refs, graph.NewUnresolved(simpleName(base), graph.RefDelegation, loc))
		}
	}
	base := graph.BaseTypeName(super)
	if base != "" && !builtinTypes[base] {
		fr.Refs = append(fr.Refs, graph.NewUnresolved(simpleName(base), graph.RefExtends, loc))
	}
}

// enumParentImportRefs keeps an enum class alive when only its constants are
// imported: `import com.x.MyEnum.CONST` references MyEnum.
func enumParentImportRefs(fr *graph.FileResult) {
	for _, imp := range fr.Imports {
		imp = strings.TrimSuffix(imp, ".*")
		if i := strings.Index(imp, " as "); i >= 0 {
			imp = imp[:i]
		}
		parts := strings.Split(imp, ".")
		if len(parts) < 2 {
			continue
		}
		last, secondLast := parts[len(parts)-1], parts[len(parts)-2]
		if startsUpper(last) && startsUpper(secondLast) {
			fr.Refs = append(fr.Refs, graph.Unresolved{
				Name:     secondLast,
				Kind:     graph.RefTypeUse,
				Location: graph.Location{File: fr.Path, Line: 1, Column: 1},
				ArgCount: -1,
			})
		}
	}
}
