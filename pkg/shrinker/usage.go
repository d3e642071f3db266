// Package shrinker parses ProGuard/R8 usage.txt listings: the classes and
// members the shrinker removed. A match is the strongest possible
// confirmation that a static finding is real.
package shrinker

import (
	"bufio"
	"os"
	"strings"
)

// EntryKind classifies a usage.txt line.
type EntryKind int

const (
	KindClass EntryKind = iota
	KindMethod
	KindField
	KindConstructor
)

// Entry is one removed class or member.
type Entry struct {
	ClassName  string
	MemberName string // empty for whole-class entries
	Kind       EntryKind
	Signature  string
	Arity      int // erased parameter count for methods and constructors, -1 otherwise
}

// Usage indexes a parsed usage.txt.
type Usage struct {
	entries     map[string][]Entry
	deadClasses map[string]bool
	Total       int
}

// ParseFile reads a usage.txt file.
func ParseFile(path string) (*Usage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(bufio.NewScanner(f))
}

// Parse reads usage.txt content from a string (for tests and stdin).
func Parse(content string) (*Usage, error) {
	return parse(bufio.NewScanner(strings.NewReader(content)))
}

func parse(sc *bufio.Scanner) (*Usage, error) {
	u := &Usage{
		entries:     make(map[string][]Entry),
		deadClasses: make(map[string]bool),
	}
	var currentClass string
	classHasMembers := false

	closeClass := func() {
		if currentClass != "" && !classHasMembers {
			u.deadClasses[currentClass] = true
			u.add(Entry{ClassName: currentClass, Kind: KindClass, Arity: -1})
		}
	}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t")
		if line == "" {
			continue
		}
		// Indented lines are members of the current class; a flush-left
		// line opens the next class.
		if line[0] == ' ' || line[0] == '\t' {
			member := strings.TrimSpace(line)
			if currentClass == "" {
				continue
			}
			if e, ok := parseMember(currentClass, member); ok {
				u.add(e)
				classHasMembers = true
			}
			continue
		}
		closeClass()
		currentClass = strings.TrimSuffix(line, ":")
		classHasMembers = false
	}
	closeClass()
	return u, sc.Err()
}

// parseMember reads "returnType name(params)" methods, "ClassName(params)"
// constructors, and "type name" fields.
func parseMember(className, line string) (Entry, bool) {
	if open := strings.IndexByte(line, '('); open >= 0 {
		head := line[:open]
		arity := countParams(line[open:])
		name := head
		if i := strings.LastIndexByte(head, ' '); i >= 0 {
			name = head[i+1:]
		}
		isCtor := name == "<init>" || strings.HasSuffix(className, name) || !strings.Contains(head, " ")
		kind := KindMethod
		if isCtor {
			kind = KindConstructor
		}
		return Entry{
			ClassName:  className,
			MemberName: name,
			Kind:       kind,
			Signature:  line,
			Arity:      arity,
		}, true
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Entry{}, false
	}
	return Entry{
		ClassName:  className,
		MemberName: fields[len(fields)-1],
		Kind:       KindField,
		Signature:  line,
		Arity:      -1,
	}, true
}

func countParams(params string) int {
	params = strings.Trim(params, "()")
	params = strings.TrimSpace(params)
	if params == "" {
		return 0
	}
	return strings.Count(params, ",") + 1
}

func (u *Usage) add(e Entry) {
	u.Total++
	u.entries[e.ClassName] = append(u.entries[e.ClassName], e)
}

// IsClassDead reports whether the whole class was removed.
func (u *Usage) IsClassDead(className string) bool {
	return u.deadClasses[className]
}

// IsMemberDead reports whether a member was removed. For methods, arity
// must match when known (erased parameter-type arity, per the report
// format).
func (u *Usage) IsMemberDead(className, memberName string, arity int) bool {
	for _, e := range u.entries[className] {
		if e.MemberName != memberName {
			continue
		}
		if e.Kind == KindMethod && arity >= 0 && e.Arity >= 0 && e.Arity != arity {
			continue
		}
		return true
	}
	return false
}
