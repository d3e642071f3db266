// Package scanner discovers the source and resource files of a project,
// honoring gitignore semantics and exclude globs, and partitions them by
// kind. Results are sorted so every later stage sees a deterministic order.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
)

// FileKind partitions discovered files.
type FileKind int

const (
	KindKotlin FileKind = iota
	KindJava
	KindManifestXML
	KindLayoutXML
	KindValuesXML
	KindNavigationXML
	KindMenuXML
	KindOtherXML
)

// File is one discovered file.
type File struct {
	Path string
	Kind FileKind
}

// IsSource reports whether the file is Kotlin or Java.
func (f File) IsSource() bool {
	return f.Kind == KindKotlin || f.Kind == KindJava
}

// Scanner walks project roots.
type Scanner struct {
	excludes []glob.Glob
	matcher  gitignore.Matcher
}

// DefaultExcludes are applied on top of user configuration.
var DefaultExcludes = []string{
	"**/build/**",
	"**/generated/**",
	"**/.gradle/**",
	"**/.idea/**",
}

// New compiles the exclude patterns. Invalid globs are skipped rather than
// failing discovery.
func New(excludes []string) *Scanner {
	s := &Scanner{}
	for _, pattern := range append(append([]string{}, DefaultExcludes...), excludes...) {
		// '/' as separator makes ** match whole path segments only, so
		// **/test/** matches foo/test/Bar.kt but not foo/testing/Bar.kt.
		if g, err := glob.Compile(pattern, '/'); err == nil {
			s.excludes = append(s.excludes, g)
		}
	}
	return s
}

// Scan walks the targets under root (the root itself when targets is empty)
// and returns the discovered files sorted by path.
func (s *Scanner) Scan(root string, targets []string) ([]File, error) {
	s.loadIgnorePatterns(root)

	dirs := []string{root}
	if len(targets) > 0 {
		dirs = dirs[:0]
		for _, t := range targets {
			if filepath.IsAbs(t) {
				dirs = append(dirs, t)
			} else {
				dirs = append(dirs, filepath.Join(root, t))
			}
		}
	}

	var files []File
	seen := make(map[string]bool)
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped, not fatal
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if s.excluded(rel, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if seen[path] || s.excluded(rel, false) {
				return nil
			}
			kind, ok := Classify(rel)
			if !ok {
				return nil
			}
			seen[path] = true
			files = append(files, File{Path: path, Kind: kind})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Classify maps a slash-separated relative path to a file kind.
func Classify(rel string) (FileKind, bool) {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".kt", ".kts":
		return KindKotlin, true
	case ".java":
		return KindJava, true
	case ".xml":
		switch {
		case base == "AndroidManifest.xml":
			return KindManifestXML, true
		case strings.Contains(rel, "res/layout"):
			return KindLayoutXML, true
		case strings.Contains(rel, "res/values"):
			return KindValuesXML, true
		case strings.Contains(rel, "res/navigation"):
			return KindNavigationXML, true
		case strings.Contains(rel, "res/menu"):
			return KindMenuXML, true
		default:
			return KindOtherXML, true
		}
	}
	return 0, false
}

// excluded applies exclude globs and gitignore patterns to a relative path.
func (s *Scanner) excluded(rel string, isDir bool) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, g := range s.excludes {
		if g.Match(rel) {
			return true
		}
	}
	if s.matcher != nil && s.matcher.Match(strings.Split(rel, "/"), isDir) {
		return true
	}
	return false
}

// loadIgnorePatterns reads nested .gitignore files from the enclosing git
// repository, when there is one.
func (s *Scanner) loadIgnorePatterns(root string) {
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}
	fsys := osfs.New(gitRoot)
	patterns, err := gitignore.ReadPatterns(fsys, nil)
	if err != nil || len(patterns) == 0 {
		return
	}
	s.matcher = gitignore.NewMatcher(patterns)
}

func findGitRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
