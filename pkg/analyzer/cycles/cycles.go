// Package cycles finds zombie cycles: strongly connected components of the
// reference graph made entirely of unreachable declarations. Code like this
// survives naive unused-symbol checks because every member is "used" — by
// the other dead members.
package cycles

import (
	"fmt"
	"sort"

	"github.com/driftdetect/deadwood/pkg/analyzer/reach"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// Cycle is one dead SCC.
type Cycle struct {
	Members []*graph.Declaration
	Size    int
}

// Find runs Tarjan's algorithm over the subgraph induced by the unreachable
// set and keeps SCCs of size >= 2 with no incoming edge from any declaration
// outside the SCC, dead or live.
func Find(g *graph.Graph, r *reach.Result) []Cycle {
	nodes := make([]uint32, 0)
	dead := make(map[uint32]bool)
	for _, d := range g.Declarations() {
		if !r.Reachable(d.NodeID) {
			nodes = append(nodes, d.NodeID)
			dead[d.NodeID] = true
		}
	}

	sccs := stronglyConnected(nodes, func(v uint32) []uint32 {
		var next []uint32
		for _, e := range g.Outgoing(v) {
			if dead[e.To] {
				next = append(next, e.To)
			}
		}
		return next
	})

	var cycles []Cycle
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		member := make(map[uint32]bool, len(scc))
		for _, n := range scc {
			member[n] = true
		}
		if hasExternalIncoming(g, scc, member) {
			continue
		}
		var members []*graph.Declaration
		for _, n := range scc {
			d := g.Decl(n)
			switch d.Kind {
			case graph.KindClass, graph.KindInterface, graph.KindObject,
				graph.KindFunction, graph.KindMethod, graph.KindDataClass,
				graph.KindSealedClass, graph.KindSealedVariant:
				members = append(members, d)
			}
		}
		if len(members) == 0 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].NodeID < members[j].NodeID })
		cycles = append(cycles, Cycle{Members: members, Size: len(scc)})
	}

	sort.Slice(cycles, func(i, j int) bool {
		if cycles[i].Size != cycles[j].Size {
			return cycles[i].Size > cycles[j].Size
		}
		return cycles[i].Members[0].NodeID < cycles[j].Members[0].NodeID
	})
	return cycles
}

// hasExternalIncoming reports whether anything outside the SCC references a
// member; such cycles are dead-ish but not self-contained.
func hasExternalIncoming(g *graph.Graph, scc []uint32, member map[uint32]bool) bool {
	for _, n := range scc {
		for _, e := range g.Incoming(n) {
			if !member[e.From] {
				return true
			}
		}
	}
	return false
}

// Findings renders cycles as reportable findings, one per cycle, anchored
// to the first member.
func Findings(found []Cycle) []models.Finding {
	var out []models.Finding
	for _, c := range found {
		names := make([]string, 0, len(c.Members))
		for i, m := range c.Members {
			if i == 4 {
				names = append(names, fmt.Sprintf("and %d more", len(c.Members)-4))
				break
			}
			names = append(names, fmt.Sprintf("%s '%s'", m.Kind, m.Name))
		}
		anchor := c.Members[0]
		f := models.NewFinding(models.CodeZombieCycle, anchor,
			fmt.Sprintf("Zombie cycle of %d declarations: %s", c.Size, join(names)))
		f.Confidence = models.ConfidenceHigh
		out = append(out, f)
	}
	return out
}

func join(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// stronglyConnected is an iterative-friendly Tarjan over uint32 nodes.
func stronglyConnected(nodes []uint32, adjacency func(uint32) []uint32) [][]uint32 {
	index := 0
	stack := make([]uint32, 0, len(nodes))
	onStack := make(map[uint32]bool, len(nodes))
	indexOf := make(map[uint32]int, len(nodes))
	lowLink := make(map[uint32]int, len(nodes))
	var components [][]uint32

	var strongConnect func(v uint32)
	strongConnect = func(v uint32) {
		indexOf[v] = index
		lowLink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjacency(v) {
			if _, seen := indexOf[w]; !seen {
				strongConnect(w)
				if lowLink[w] < lowLink[v] {
					lowLink[v] = lowLink[w]
				}
			} else if onStack[w] && indexOf[w] < lowLink[v] {
				lowLink[v] = indexOf[w]
			}
		}

		if lowLink[v] != indexOf[v] {
			return
		}
		var component []uint32
		for {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[last] = false
			component = append(component, last)
			if last == v {
				break
			}
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}

	for _, node := range nodes {
		if _, seen := indexOf[node]; !seen {
			strongConnect(node)
		}
	}
	return components
}
