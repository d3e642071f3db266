// Package entrypoints computes the seed set for reachability: declarations
// the framework, XML bindings, annotations, or configuration reach without
// any visible reference.
package entrypoints

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/parser/androidxml"
)

// Options configures seeding.
type Options struct {
	// EntryPoints are exact FQNs (simple names accepted as a fallback).
	EntryPoints []string
	// RetainPatterns are globs over declaration simple names.
	RetainPatterns []string
	// ComponentPatterns are simple-name globs auto-retained as Android
	// components (*Activity, *Fragment, ...).
	ComponentPatterns []string
	// AutoRetainComponents enables ComponentPatterns.
	AutoRetainComponents bool
	// ManifestPackage resolves relative XML class names (".MainActivity").
	ManifestPackage string
}

// DefaultComponentPatterns mirror the Android component naming conventions.
var DefaultComponentPatterns = []string{
	"*Activity", "*Fragment", "*Service", "*BroadcastReceiver",
	"*ContentProvider", "*ViewModel", "*Application", "*Worker",
}

// Seed returns the NodeIDs of every entry-point declaration.
func Seed(g *graph.Graph, xmlRefs []androidxml.ClassRef, opts Options) []uint32 {
	seeds := make(map[uint32]bool)

	for _, d := range g.Declarations() {
		if isCodeEntryPoint(d) {
			seedWithMembers(g, d, seeds)
		}
	}

	seedXMLBindings(g, xmlRefs, opts.ManifestPackage, seeds)
	seedConfigured(g, opts.EntryPoints, seeds)
	seedPatterns(g, opts.RetainPatterns, seeds)
	if opts.AutoRetainComponents {
		patterns := opts.ComponentPatterns
		if len(patterns) == 0 {
			patterns = DefaultComponentPatterns
		}
		seedComponentPatterns(g, patterns, seeds)
	}

	out := make([]uint32, 0, len(seeds))
	for node := range seeds {
		out = append(out, node)
	}
	return out
}

// isCodeEntryPoint applies the inheritance, annotation and main-function
// rules.
func isCodeEntryPoint(d *graph.Declaration) bool {
	// Framework supertypes, directly written. Transitive framework
	// inheritance resolves through the subclass chain during reachability.
	for _, st := range d.SuperTypes {
		base := graph.BaseTypeName(st)
		base = base[strings.LastIndexByte(base, '.')+1:]
		for _, fw := range frameworkSuperTypes {
			if base == fw {
				return true
			}
		}
	}

	for _, a := range d.Annotations {
		if IsRetainAnnotation(annotationName(a)) {
			return true
		}
	}

	// Top-level main with at most an Array<String> parameter.
	if (d.Kind == graph.KindFunction) && d.Name == "main" && d.Arity <= 1 {
		return true
	}
	return false
}

// seedWithMembers seeds a declaration; for container-annotated classes the
// members the container reaches come along.
func seedWithMembers(g *graph.Graph, d *graph.Declaration, seeds map[uint32]bool) {
	seeds[d.NodeID] = true
	container := false
	for _, a := range d.Annotations {
		if classAnnotations[annotationName(a)] {
			container = true
			break
		}
	}
	if !container || !d.Kind.IsType() {
		return
	}
	for _, member := range g.Children(d.ID) {
		for _, a := range member.Annotations {
			if IsRetainAnnotation(annotationName(a)) {
				seeds[member.NodeID] = true
				break
			}
		}
	}
}

func annotationName(a string) string {
	a = strings.TrimPrefix(a, "@")
	if i := strings.IndexByte(a, '('); i >= 0 {
		a = a[:i]
	}
	if i := strings.LastIndexByte(a, '.'); i >= 0 {
		a = a[i+1:]
	}
	return strings.TrimSpace(a)
}

// seedXMLBindings resolves manifest/layout class references against the
// registry: by FQN first, then by simple name.
func seedXMLBindings(g *graph.Graph, refs []androidxml.ClassRef, pkg string, seeds map[uint32]bool) {
	for _, ref := range refs {
		name := ref.Name
		if strings.HasPrefix(name, ".") && pkg != "" {
			name = pkg + name
		}
		if found := g.FindByFQN(name); len(found) > 0 {
			for _, d := range found {
				seeds[d.NodeID] = true
			}
			continue
		}
		simple := name[strings.LastIndexByte(name, '.')+1:]
		for _, d := range g.FindByName(simple) {
			if d.Kind.IsType() || d.Kind.IsCallable() {
				seeds[d.NodeID] = true
			}
		}
	}
}

func seedConfigured(g *graph.Graph, entries []string, seeds map[uint32]bool) {
	for _, entry := range entries {
		if found := g.FindByFQN(entry); len(found) > 0 {
			for _, d := range found {
				seeds[d.NodeID] = true
			}
			continue
		}
		for _, d := range g.FindByName(entry) {
			seeds[d.NodeID] = true
		}
	}
}

func seedPatterns(g *graph.Graph, patterns []string, seeds map[uint32]bool) {
	globs := compile(patterns)
	if len(globs) == 0 {
		return
	}
	for _, d := range g.Declarations() {
		for _, pat := range globs {
			if pat.Match(d.Name) {
				seeds[d.NodeID] = true
				break
			}
		}
	}
}

func seedComponentPatterns(g *graph.Graph, patterns []string, seeds map[uint32]bool) {
	globs := compile(patterns)
	for _, d := range g.Declarations() {
		if !d.Kind.IsType() {
			continue
		}
		for _, pat := range globs {
			if pat.Match(d.Name) {
				seeds[d.NodeID] = true
				break
			}
		}
	}
}

func compile(patterns []string) []glob.Glob {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if g, err := glob.Compile(p); err == nil {
			out = append(out, g)
		}
	}
	return out
}

// HasRetainAnnotation reports whether any annotation on the declaration is
// in the recognized set; detectors use this for false-positive safety.
func HasRetainAnnotation(d *graph.Declaration) bool {
	for _, a := range d.Annotations {
		if IsRetainAnnotation(annotationName(a)) {
			return true
		}
	}
	return false
}

// HasUnknownAnnotation reports whether the declaration carries an
// annotation outside the recognized set (possible reflective use, lowers
// confidence).
func HasUnknownAnnotation(d *graph.Declaration) bool {
	for _, a := range d.Annotations {
		name := annotationName(a)
		if name == "" || name == "Override" || name == "Suppress" || name == "Deprecated" {
			continue
		}
		if !IsRetainAnnotation(name) {
			return true
		}
	}
	return false
}
