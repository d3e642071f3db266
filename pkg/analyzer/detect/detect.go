// Package detect holds the dead-code detectors. Every detector runs after
// reachability over the immutable graph and emits findings; it never
// mutates shared state. internal/analysis runs them one after another.
package detect

import (
	"os"
	"sync"

	"github.com/gobwas/glob"

	"github.com/driftdetect/deadwood/pkg/analyzer/reach"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
)

// Context carries the read-only inputs detectors share.
type Context struct {
	Graph *graph.Graph
	Reach *reach.Result

	// SourceFiles lists every Kotlin/Java path for detectors that scan
	// raw source (intent extras, enum reflection checks).
	SourceFiles []string

	// ComponentPatterns are the auto-retain suffix globs; DC003 skips
	// parameters inside matching classes.
	ComponentPatterns []string

	mu      sync.Mutex
	sources map[string][]byte
	globs   []glob.Glob
}

// Source returns (and memoizes) a file's bytes.
func (c *Context) Source(path string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sources == nil {
		c.sources = make(map[string][]byte)
	}
	if data, ok := c.sources[path]; ok {
		return data
	}
	data, err := os.ReadFile(path)
	if err != nil {
		data = nil
	}
	c.sources[path] = data
	return data
}

// MatchesComponentPattern reports whether a simple name matches any
// auto-retain component glob.
func (c *Context) MatchesComponentPattern(name string) bool {
	c.mu.Lock()
	if c.globs == nil {
		for _, p := range c.ComponentPatterns {
			if g, err := glob.Compile(p); err == nil {
				c.globs = append(c.globs, g)
			}
		}
	}
	globs := c.globs
	c.mu.Unlock()
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Detector is one analysis pass.
type Detector interface {
	Code() models.IssueCode
	Detect(ctx *Context) []models.Finding
}

// All returns the detector set for the enabled codes.
func All(enabled map[models.IssueCode]bool) []Detector {
	detectors := []Detector{
		Unreferenced{},
		WriteOnly{},
		UnusedParameter{},
		UnusedEnumCase{},
		UnusedSealedVariant{},
		RedundantOverride{},
		UnusedIntentExtra{},
	}
	if enabled == nil {
		return detectors
	}
	out := detectors[:0]
	for _, d := range detectors {
		if enabled[d.Code()] {
			out = append(out, d)
		}
	}
	return out
}
