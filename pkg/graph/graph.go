package graph

// Graph is the whole-program reference graph: every declaration from every
// parsed file plus directed edges between them. It is written by a single
// goroutine (the Builder) and strictly read-only afterwards, so detectors
// may traverse it in parallel without locks.
type Graph struct {
	decls []*Declaration // registry-insertion order; index == NodeID

	byID     map[ID]uint32
	byName   map[string][]uint32
	byFQN    map[string][]uint32 // multiple entries for JVM overloads
	children map[ID][]uint32

	edges []Edge
	out   map[uint32][]int // NodeID -> indices into edges
	in    map[uint32][]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		byID:     make(map[ID]uint32),
		byName:   make(map[string][]uint32),
		byFQN:    make(map[string][]uint32),
		children: make(map[ID][]uint32),
		out:      make(map[uint32][]int),
		in:       make(map[uint32][]int),
	}
}

// Add registers a declaration and assigns its NodeID. Duplicate ids are
// ignored (the first registration wins) so overlapping parse results stay
// deterministic.
func (g *Graph) Add(d *Declaration) uint32 {
	if node, ok := g.byID[d.ID]; ok {
		return node
	}
	node := uint32(len(g.decls))
	d.NodeID = node
	g.decls = append(g.decls, d)
	g.byID[d.ID] = node
	g.byName[d.Name] = append(g.byName[d.Name], node)
	if d.FQN != "" {
		g.byFQN[d.FQN] = append(g.byFQN[d.FQN], node)
	}
	if d.HasParent() {
		g.children[d.Parent] = append(g.children[d.Parent], node)
	}
	return node
}

// AddEdge records a resolved reference. Both endpoints must be registered.
func (g *Graph) AddEdge(e Edge) {
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], idx)
	g.in[e.To] = append(g.in[e.To], idx)
}

// Len returns the number of declarations.
func (g *Graph) Len() int { return len(g.decls) }

// EdgeCount returns the number of resolved references.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Decl returns the declaration with the given NodeID.
func (g *Graph) Decl(node uint32) *Declaration { return g.decls[node] }

// Declarations returns all declarations in registry-insertion order.
// Callers must not mutate the slice.
func (g *Graph) Declarations() []*Declaration { return g.decls }

// ByID looks a declaration up by stable id.
func (g *Graph) ByID(id ID) (*Declaration, bool) {
	node, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return g.decls[node], true
}

// FindByName returns all declarations with the given simple name.
func (g *Graph) FindByName(name string) []*Declaration {
	nodes := g.byName[name]
	out := make([]*Declaration, len(nodes))
	for i, n := range nodes {
		out[i] = g.decls[n]
	}
	return out
}

// FindByFQN returns all declarations with the given fully-qualified name
// (several for overloads).
func (g *Graph) FindByFQN(fqn string) []*Declaration {
	nodes := g.byFQN[fqn]
	out := make([]*Declaration, len(nodes))
	for i, n := range nodes {
		out[i] = g.decls[n]
	}
	return out
}

// Children returns the direct members of a declaration.
func (g *Graph) Children(id ID) []*Declaration {
	nodes := g.children[id]
	out := make([]*Declaration, len(nodes))
	for i, n := range nodes {
		out[i] = g.decls[n]
	}
	return out
}

// Outgoing returns the edges leaving a node.
func (g *Graph) Outgoing(node uint32) []Edge {
	idxs := g.out[node]
	out := make([]Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// Incoming returns the edges arriving at a node.
func (g *Graph) Incoming(node uint32) []Edge {
	idxs := g.in[node]
	out := make([]Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// IsReferenced reports whether any edge targets the node.
func (g *Graph) IsReferenced(node uint32) bool {
	return len(g.in[node]) > 0
}

// CountReads returns incoming edges whose kind counts as a read.
func (g *Graph) CountReads(node uint32) int {
	count := 0
	for _, idx := range g.in[node] {
		if g.edges[idx].Kind.IsRead() {
			count++
		}
	}
	return count
}

// CountWrites returns incoming write edges.
func (g *Graph) CountWrites(node uint32) int {
	count := 0
	for _, idx := range g.in[node] {
		if g.edges[idx].Kind.IsWrite() {
			count++
		}
	}
	return count
}

// HasIncomingOfKind reports whether the node has an incoming edge of any of
// the given kinds.
func (g *Graph) HasIncomingOfKind(node uint32, kinds ...RefKind) bool {
	for _, idx := range g.in[node] {
		for _, k := range kinds {
			if g.edges[idx].Kind == k {
				return true
			}
		}
	}
	return false
}
