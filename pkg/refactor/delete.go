// Package refactor performs safe, reversible deletion of dead declarations.
// Spans are removed per file back-to-front so earlier offsets stay valid;
// each file is backed up first, and a failed write rolls that file back.
package refactor

import (
	"fmt"
	"os"
	"sort"

	"github.com/driftdetect/deadwood/pkg/models"
)

// Deletion is one planned removal.
type Deletion struct {
	File    string
	Start   uint32
	End     uint32
	Name    string
	Code    models.IssueCode
	Message string
}

// PlanDeletions converts findings into deletions, keeping only findings
// anchored to a real byte span. Overlapping spans in the same file are
// collapsed to the outermost one.
func PlanDeletions(findings []models.Finding) []Deletion {
	var plan []Deletion
	for _, f := range findings {
		d := f.Declaration
		if d == nil || d.ID.End <= d.ID.Start {
			continue
		}
		plan = append(plan, Deletion{
			File:    d.ID.File,
			Start:   d.ID.Start,
			End:     d.ID.End,
			Name:    d.Name,
			Code:    f.Code,
			Message: f.Message,
		})
	}
	sort.Slice(plan, func(i, j int) bool {
		if plan[i].File != plan[j].File {
			return plan[i].File < plan[j].File
		}
		if plan[i].Start != plan[j].Start {
			return plan[i].Start < plan[j].Start
		}
		return plan[i].End > plan[j].End
	})

	// Drop spans nested inside the previous kept span of the same file.
	kept := plan[:0]
	var lastFile string
	var lastEnd uint32
	for _, d := range plan {
		if d.File == lastFile && d.Start < lastEnd {
			continue
		}
		kept = append(kept, d)
		lastFile = d.File
		lastEnd = d.End
	}
	return kept
}

// Result reports what Apply did.
type Result struct {
	Deleted []Deletion
	Failed  []Deletion
	Backups map[string]string // file -> backup path
	DryRun  bool
}

// Apply executes the plan. With dryRun nothing is written. Failures roll
// back the affected file and processing continues.
func Apply(plan []Deletion, dryRun bool) (*Result, error) {
	result := &Result{Backups: make(map[string]string), DryRun: dryRun}

	byFile := make(map[string][]Deletion)
	var files []string
	for _, d := range plan {
		if _, ok := byFile[d.File]; !ok {
			files = append(files, d.File)
		}
		byFile[d.File] = append(byFile[d.File], d)
	}
	sort.Strings(files)

	for _, file := range files {
		deletions := byFile[file]
		if dryRun {
			result.Deleted = append(result.Deleted, deletions...)
			continue
		}
		if err := applyFile(file, deletions, result); err != nil {
			result.Failed = append(result.Failed, deletions...)
		}
	}
	return result, nil
}

func applyFile(file string, deletions []Deletion, result *Result) error {
	original, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	backup := file + ".deadwood.bak"
	if err := os.WriteFile(backup, original, 0o644); err != nil {
		return err
	}

	content := make([]byte, len(original))
	copy(content, original)

	// Back-to-front keeps earlier spans valid.
	sorted := make([]Deletion, len(deletions))
	copy(sorted, deletions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	for _, d := range sorted {
		if int(d.End) > len(content) || d.Start >= d.End {
			continue
		}
		start, end := expandToLine(content, d.Start, d.End)
		content = append(content[:start], content[end:]...)
	}

	if err := os.WriteFile(file, content, 0o644); err != nil {
		// roll this one file back from the in-memory original
		if rbErr := os.WriteFile(file, original, 0o644); rbErr != nil {
			return fmt.Errorf("write failed (%v) and rollback failed: %w", err, rbErr)
		}
		os.Remove(backup)
		return err
	}

	result.Backups[file] = backup
	result.Deleted = append(result.Deleted, deletions...)
	return nil
}

// expandToLine grows a span to swallow the surrounding whitespace-only line
// remnants, so deletions do not leave blank holes.
func expandToLine(content []byte, start, end uint32) (uint32, uint32) {
	s := start
	for s > 0 && (content[s-1] == ' ' || content[s-1] == '\t') {
		s--
	}
	e := end
	for e < uint32(len(content)) && (content[e] == ' ' || content[e] == '\t') {
		e++
	}
	if e < uint32(len(content)) && content[e] == '\n' {
		e++
	}
	return s, e
}
