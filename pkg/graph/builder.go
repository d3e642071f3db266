package graph

import (
	"sort"
	"strings"
)

// FileResult is the output of parsing one source file: the declarations it
// defines and the references it makes, not yet resolved against the rest of
// the program. Parser tasks produce FileResults in parallel; the Builder
// consumes them on a single goroutine.
type FileResult struct {
	Path         string         `json:"path"`
	Package      string         `json:"package"`
	Imports      []string       `json:"imports"`
	Declarations []*Declaration `json:"declarations"`
	Refs         []Unresolved   `json:"refs"`

	// ErrorLines holds 1-based lines of the first syntax errors seen, for
	// the partial-parse warning. Declarations above are still valid.
	ErrorLines []int `json:"error_lines,omitempty"`
}

type pendingRef struct {
	from    ID
	ref     Unresolved
	imports []string
	pkg     string
}

// Builder accumulates per-file parse results and produces the resolved
// reference graph. Reference resolution runs as a second pass once every
// declaration is registered, so resolution order never depends on file
// arrival order.
type Builder struct {
	graph   *Graph
	pending []pendingRef
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{graph: New()}
}

// AddFile registers a file's declarations and queues its references.
// References are attributed to the innermost declaration whose byte span
// contains them; file-level references fall back to the first declaration in
// the file.
func (b *Builder) AddFile(fr *FileResult) {
	for _, d := range fr.Declarations {
		b.graph.Add(d)
	}
	for _, ref := range fr.Refs {
		from := enclosingDeclaration(fr.Declarations, ref.Location)
		if from == nil {
			continue
		}
		b.pending = append(b.pending, pendingRef{
			from:    from.ID,
			ref:     ref,
			imports: fr.Imports,
			pkg:     fr.Package,
		})
	}
}

// enclosingDeclaration picks the smallest declaration containing the byte
// offset, falling back to any declaration in the file.
func enclosingDeclaration(decls []*Declaration, loc Location) *Declaration {
	var best *Declaration
	for _, d := range decls {
		if d.Location.File != loc.File {
			continue
		}
		if d.ID.Start <= loc.StartByte && d.ID.End >= loc.StartByte {
			if best == nil || d.ID.End-d.ID.Start < best.ID.End-best.ID.Start {
				best = d
			}
		}
	}
	if best != nil {
		return best
	}
	if len(decls) > 0 {
		return decls[0]
	}
	return nil
}

// Build finalizes declaration kinds and resolves every queued reference.
// Unresolved references are dropped: over-approximation prefers a missed
// dead-code report over a false one.
func (b *Builder) Build() *Graph {
	b.promoteSealedVariants()
	b.markBackingFields()
	b.resolveAll()
	return b.graph
}

// promoteSealedVariants reclassifies classes and objects whose supertype is
// a sealed class or sealed interface. This needs the whole registry, so it
// cannot happen during parsing.
func (b *Builder) promoteSealedVariants() {
	sealed := make(map[string]bool)
	for _, d := range b.graph.Declarations() {
		if d.Kind == KindSealedClass || (d.Kind == KindInterface && d.HasModifier("sealed")) {
			sealed[d.Name] = true
			if d.FQN != "" {
				sealed[d.FQN] = true
			}
		}
	}
	if len(sealed) == 0 {
		return
	}
	for _, d := range b.graph.Declarations() {
		if d.Kind != KindClass && d.Kind != KindObject && d.Kind != KindDataClass {
			continue
		}
		for _, st := range d.SuperTypes {
			if sealed[BaseTypeName(st)] {
				// Singleton-ness drives the DC008 membership test, so the
				// object origin is preserved as a modifier.
				if d.Kind == KindObject && !hasModifier(d.Modifiers, "object") {
					d.Modifiers = append(d.Modifiers, "object")
				}
				d.Kind = KindSealedVariant
				break
			}
		}
	}
}

func hasModifier(mods []string, m string) bool {
	for _, v := range mods {
		if v == m {
			return true
		}
	}
	return false
}

// BaseTypeName strips generic arguments, constructor parens, and whitespace
// from a written supertype: "UiState<T>()" -> "UiState".
func BaseTypeName(st string) string {
	if i := strings.IndexByte(st, '<'); i >= 0 {
		st = st[:i]
	}
	if i := strings.IndexByte(st, '('); i >= 0 {
		st = st[:i]
	}
	return strings.TrimSpace(st)
}

// markBackingFields flags private "_name" properties that pair with a public
// accessor "name" under the same parent (the StateFlow/LiveData idiom).
func (b *Builder) markBackingFields() {
	siblings := make(map[ID]map[string]bool)
	for _, d := range b.graph.Declarations() {
		if d.Kind != KindProperty && d.Kind != KindField {
			continue
		}
		if m := siblings[d.Parent]; m == nil {
			siblings[d.Parent] = map[string]bool{d.Name: true}
		} else {
			m[d.Name] = true
		}
	}
	for _, d := range b.graph.Declarations() {
		if d.Kind != KindProperty && d.Kind != KindField {
			continue
		}
		if !strings.HasPrefix(d.Name, "_") || len(d.Name) < 2 {
			continue
		}
		if siblings[d.Parent][d.Name[1:]] {
			d.BackingField = true
		}
	}
}

func (b *Builder) resolveAll() {
	for _, p := range b.pending {
		from, ok := b.graph.ByID(p.from)
		if !ok {
			continue
		}
		targets := b.resolve(p)
		for _, to := range targets {
			if to.ID == from.ID {
				continue
			}
			// Same-name properties in different files resolve to each
			// other through the simple-name fallback; those edges would
			// poison write-only analysis, so they are dropped.
			if (to.Kind == KindProperty || to.Kind == KindField) &&
				to.Name == from.Name && to.Location.File != from.Location.File {
				continue
			}
			kind := p.ref.Kind
			if to.Kind == KindEnumCase && (kind == RefRead || kind == RefTypeUse) {
				kind = RefEnumEntryAccess
			}
			b.graph.AddEdge(Edge{From: from.NodeID, To: to.NodeID, Kind: kind})
		}
	}
	b.pending = nil
}

// resolve applies the resolution rules in order: written FQN, import-aware,
// enclosing scope, then simple-name fan-out across the registry.
func (b *Builder) resolve(p pendingRef) []*Declaration {
	// 1. Qualified name as written.
	if p.ref.Qualified != "" {
		if found := b.graph.FindByFQN(p.ref.Qualified); len(found) > 0 {
			return narrowByArity(found, p.ref.ArgCount)
		}
	}

	// 2. Imports: exact, star, and Kotlin alias imports.
	for _, imp := range p.imports {
		switch {
		case strings.HasSuffix(imp, ".*"):
			fqn := imp[:len(imp)-2] + "." + p.ref.Name
			if found := b.graph.FindByFQN(fqn); len(found) > 0 {
				return narrowByArity(found, p.ref.ArgCount)
			}
		case strings.HasSuffix(imp, "."+p.ref.Name):
			if found := b.graph.FindByFQN(imp); len(found) > 0 {
				return narrowByArity(found, p.ref.ArgCount)
			}
		case strings.Contains(imp, " as "):
			i := strings.Index(imp, " as ")
			if strings.TrimSpace(imp[i+4:]) == p.ref.Name {
				if found := b.graph.FindByFQN(strings.TrimSpace(imp[:i])); len(found) > 0 {
					return narrowByArity(found, p.ref.ArgCount)
				}
			}
		}
	}

	// 3. Enclosing scope: the source declaration's own FQN chain outward,
	// then the file's package, then the default package.
	if from, ok := b.graph.ByID(p.from); ok && from.FQN != "" {
		scope := from.FQN
		for {
			i := strings.LastIndexByte(scope, '.')
			if i < 0 {
				break
			}
			scope = scope[:i]
			if found := b.graph.FindByFQN(scope + "." + p.ref.Name); len(found) > 0 {
				return narrowByArity(found, p.ref.ArgCount)
			}
		}
	}
	if p.pkg != "" {
		if found := b.graph.FindByFQN(p.pkg + "." + p.ref.Name); len(found) > 0 {
			return narrowByArity(found, p.ref.ArgCount)
		}
	}
	if found := b.graph.FindByFQN(p.ref.Name); len(found) > 0 {
		return narrowByArity(found, p.ref.ArgCount)
	}

	// 4. Simple-name fan-out: every candidate gets the edge so that no
	// overload is falsely reported unused.
	return narrowByArity(b.graph.FindByName(p.ref.Name), p.ref.ArgCount)
}

// narrowByArity keeps callables whose arity matches a known call-site
// argument count. When nothing matches (named/default arguments, varargs)
// every candidate is kept.
func narrowByArity(cands []*Declaration, argCount int) []*Declaration {
	if argCount < 0 || len(cands) < 2 {
		return cands
	}
	var matched []*Declaration
	for _, c := range cands {
		if !c.Kind.IsCallable() || c.Arity == argCount {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return cands
	}
	return matched
}

// SortFileResults orders results lexicographically by path so that registry
// insertion (and therefore every NodeID) is deterministic regardless of how
// the parse pool scheduled the files.
func SortFileResults(results []*FileResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
}
