// Package reach computes the reachable set: the closure of the entry-point
// seeds over the reference graph plus the propagation rules the language
// implies (constructors, companions, convention members, interface default
// bodies).
package reach

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// Result is the monotonic reachable set over NodeIDs.
type Result struct {
	set *roaring.Bitmap
}

// Reachable reports membership.
func (r *Result) Reachable(node uint32) bool {
	return r.set.Contains(node)
}

// Count returns the cardinality.
func (r *Result) Count() uint64 {
	return r.set.GetCardinality()
}

// Analyze runs the forward traversal from the seeds. Seeds are sorted first
// so the traversal order — and therefore the result — is independent of how
// seeding iterated its maps.
func Analyze(g *graph.Graph, seeds []uint32) *Result {
	set := roaring.New()

	queue := make([]uint32, len(seeds))
	copy(queue, seeds)
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	mark := func(node uint32) bool {
		if set.Contains(node) {
			return false
		}
		set.Add(node)
		return true
	}

	for _, s := range queue {
		mark(s)
	}

	// Index-based queue: the slice only grows, head walks forward.
	head := 0
	for head < len(queue) {
		node := queue[head]
		head++
		decl := g.Decl(node)

		// An alive member keeps its enclosing declaration alive.
		for parent := decl; parent.HasParent(); {
			p, ok := g.ByID(parent.Parent)
			if !ok {
				break
			}
			if mark(p.NodeID) {
				queue = append(queue, p.NodeID)
			}
			parent = p
		}

		// Everything the declaration references.
		for _, e := range g.Outgoing(node) {
			if mark(e.To) {
				queue = append(queue, e.To)
			}
		}

		// Kind-specific propagation.
		for _, child := range g.Children(decl.ID) {
			if !memberReachedWithParent(decl, child) {
				continue
			}
			if mark(child.NodeID) {
				queue = append(queue, child.NodeID)
			}
		}
	}

	return &Result{set: set}
}

// memberReachedWithParent encodes which members a reached declaration pulls
// in without a call site:
//   - a class reaches its primary constructor and companion object;
//   - convention/operator and suspend members are dispatched implicitly;
//   - an interface reaches its default-method bodies;
//   - data-class synthetic members exist whenever the class does;
//   - enum classes do NOT reach their cases (case liveness needs an
//     EnumEntryAccess or TypeUse edge).
func memberReachedWithParent(parent, child *graph.Declaration) bool {
	if !parent.Kind.IsType() {
		return false
	}
	switch {
	case child.Kind == graph.KindCompanionObject:
		return true
	case child.Kind == graph.KindConstructor && (child.HasModifier("primary") || parent.Kind == graph.KindDataClass):
		return true
	case child.Convention || child.Suspend:
		return true
	case child.Synthetic:
		return true
	case parent.Kind == graph.KindInterface && child.Kind == graph.KindMethod && !child.Abstract:
		// default-method body
		return true
	}
	return false
}
