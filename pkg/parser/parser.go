// Package parser turns Kotlin and Java source files into declaration and
// reference facts using tree-sitter. Parsers are error-tolerant: a file with
// syntax errors still yields whatever the partial tree exposes.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/kotlin"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// Parser wraps a tree-sitter parser for the two supported languages.
// A Parser is not safe for concurrent use; the file pool creates one per
// worker task.
type Parser struct {
	parser *sitter.Parser
}

// New creates a parser instance.
func New() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// ParseFile reads and parses a source file, dispatching on extension.
func (p *Parser) ParseFile(path string) (*graph.FileResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Parse(path, source)
}

// Parse parses source for the language implied by the path.
func (p *Parser) Parse(path string, source []byte) (*graph.FileResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kt", ".kts":
		return p.parseWith(kotlin.GetLanguage(), path, source, extractKotlin)
	case ".java":
		return p.parseWith(java.GetLanguage(), path, source, extractJava)
	default:
		return nil, fmt.Errorf("unsupported source file: %s", path)
	}
}

type extractFunc func(root *sitter.Node, source []byte, fr *graph.FileResult)

func (p *Parser) parseWith(lang *sitter.Language, path string, source []byte, extract extractFunc) (*graph.FileResult, error) {
	p.parser.SetLanguage(lang)
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	fr := &graph.FileResult{Path: path}
	root := tree.RootNode()
	collectErrorLines(root, fr)
	extract(root, source, fr)
	return fr, nil
}

// collectErrorLines records the first few ERROR nodes so the caller can warn
// about files that parsed only partially.
func collectErrorLines(root *sitter.Node, fr *graph.FileResult) {
	Walk(root, func(n *sitter.Node) bool {
		if len(fr.ErrorLines) >= 3 {
			return false
		}
		if n.IsError() {
			fr.ErrorLines = append(fr.ErrorLines, int(n.StartPoint().Row)+1)
			return false
		}
		return true
	})
}

// Walk traverses the tree calling visitor for each node; returning false
// stops descent into that subtree.
func Walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), visitor)
	}
}

// text extracts the source text of a node, guarding byte bounds.
func text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// childOfKind returns the first direct child of the given kind.
func childOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == kind {
			return c
		}
	}
	return nil
}

// childrenOfKind returns all direct children of the given kind.
func childrenOfKind(node *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == kind {
			out = append(out, c)
		}
	}
	return out
}

// location builds a Location from a node.
func location(path string, node *sitter.Node) graph.Location {
	return graph.Location{
		File:      path,
		Line:      int(node.StartPoint().Row) + 1,
		Column:    int(node.StartPoint().Column) + 1,
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
	}
}

// declID builds the stable identity for a declaration node.
func declID(path string, node *sitter.Node) graph.ID {
	return graph.ID{File: path, Start: node.StartByte(), End: node.EndByte()}
}

// stripGenerics removes a trailing type-argument list: "Foo<T>" -> "Foo".
func stripGenerics(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return name[:i]
	}
	return name
}

// simpleName takes the last dotted component.
func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// joinFQN builds a dotted name, tolerating an empty prefix.
func joinFQN(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// builtinTypes are never worth a reference edge; they can't be declared in
// the analyzed tree.
var builtinTypes = map[string]bool{
	"String": true, "Int": true, "Long": true, "Short": true, "Byte": true,
	"Boolean": true, "Float": true, "Double": true, "Char": true,
	"Unit": true, "Any": true, "Nothing": true, "Array": true,
	"List": true, "MutableList": true, "Map": true, "MutableMap": true,
	"Set": true, "MutableSet": true, "Pair": true, "Triple": true,
	"void": true, "int": true, "long": true, "short": true, "byte": true,
	"boolean": true, "float": true, "double": true, "char": true,
	"Object": true, "Integer": true, "Void": true,
}
