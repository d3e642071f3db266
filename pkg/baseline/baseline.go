// Package baseline suppresses known findings across runs. The format is
// newline-delimited canonical fingerprints, one "code|fq_name|kind" per
// line; '#' lines are comments.
package baseline

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/driftdetect/deadwood/pkg/models"
)

// Baseline is a set of suppressed fingerprints.
type Baseline struct {
	fingerprints map[string]bool
}

// Load reads a baseline file.
func Load(path string) (*Baseline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := &Baseline{fingerprints: make(map[string]bool)}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b.fingerprints[line] = true
	}
	return b, sc.Err()
}

// Suppresses reports whether the finding's fingerprint is baselined.
func (b *Baseline) Suppresses(f models.Finding) bool {
	return b != nil && b.fingerprints[f.Fingerprint()]
}

// Write emits the current findings as a baseline file, sorted for stable
// diffs.
func Write(path string, findings []models.Finding) error {
	lines := make([]string, 0, len(findings))
	seen := make(map[string]bool)
	for _, f := range findings {
		fp := f.Fingerprint()
		if !seen[fp] {
			seen[fp] = true
			lines = append(lines, fp)
		}
	}
	sort.Strings(lines)

	var sb strings.Builder
	sb.WriteString("# deadwood baseline: code|fq_name|kind\n")
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	return nil
}
