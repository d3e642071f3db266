package models

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ReportVersion is the JSON schema version emitted in reports.
const ReportVersion = "1.1"

// Report is the JSON output document (schema v1.1).
type Report struct {
	Version     string  `json:"version"`
	TotalIssues int     `json:"total_issues"`
	Issues      []Issue `json:"issues"`
	Summary     Summary `json:"summary"`
}

// Issue is one finding in JSON form.
type Issue struct {
	Code             string           `json:"code"`
	Severity         string           `json:"severity"`
	Confidence       string           `json:"confidence"`
	ConfidenceScore  float64          `json:"confidence_score"`
	RuntimeConfirmed bool             `json:"runtime_confirmed"`
	Message          string           `json:"message"`
	File             string           `json:"file"`
	Line             int              `json:"line"`
	Column           int              `json:"column"`
	Declaration      IssueDeclaration `json:"declaration"`
}

// IssueDeclaration names the declaration an issue points at.
type IssueDeclaration struct {
	Name               string `json:"name"`
	Kind               string `json:"kind"`
	FullyQualifiedName string `json:"fully_qualified_name"`
}

// Summary aggregates a run.
type Summary struct {
	FilesAnalyzed    int            `json:"files_analyzed"`
	Declarations     int            `json:"declarations"`
	References       int            `json:"references"`
	Reachable        int            `json:"reachable"`
	ByCode           map[string]int `json:"by_code"`
	ByFile           map[string]int `json:"by_file"`
	MeanConfidence   float64        `json:"mean_confidence"`
	MedianConfidence float64        `json:"median_confidence"`
	Suppressed       int            `json:"suppressed"`
	ParseErrors      int            `json:"parse_errors"`
	ZombieCycles     int            `json:"zombie_cycles,omitempty"`
}

// NewSummary creates an initialized summary.
func NewSummary() Summary {
	return Summary{
		ByCode: make(map[string]int),
		ByFile: make(map[string]int),
	}
}

// NewReport assembles the JSON document from sorted findings.
func NewReport(findings []Finding, summary Summary) *Report {
	issues := make([]Issue, 0, len(findings))
	for _, f := range findings {
		issues = append(issues, Issue{
			Code:             string(f.Code),
			Severity:         string(f.Severity),
			Confidence:       string(f.Confidence),
			ConfidenceScore:  f.Confidence.Score(),
			RuntimeConfirmed: f.RuntimeConfirmed,
			Message:          f.Message,
			File:             f.File,
			Line:             f.Line,
			Column:           f.Column,
			Declaration: IssueDeclaration{
				Name:               f.Name,
				Kind:               f.Kind,
				FullyQualifiedName: f.FQN,
			},
		})
	}
	return &Report{
		Version:     ReportVersion,
		TotalIssues: len(issues),
		Issues:      issues,
		Summary:     summary,
	}
}

// FillConfidenceStats computes the summary's confidence statistics from the
// final finding set.
func (s *Summary) FillConfidenceStats(findings []Finding) {
	if len(findings) == 0 {
		return
	}
	scores := make([]float64, 0, len(findings))
	for _, f := range findings {
		scores = append(scores, f.Confidence.Score())
	}
	sort.Float64s(scores)
	s.MeanConfidence = stat.Mean(scores, nil)
	s.MedianConfidence = stat.Quantile(0.5, stat.Empirical, scores, nil)
}

// Count records a finding in the per-code and per-file tallies.
func (s *Summary) Count(f Finding) {
	s.ByCode[string(f.Code)]++
	if f.File != "" {
		s.ByFile[f.File]++
	}
}
