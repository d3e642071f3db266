package models

import (
	"fmt"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// IssueCode identifies a detector.
type IssueCode string

const (
	CodeUnreferenced      IssueCode = "DC001"
	CodeWriteOnly         IssueCode = "DC002"
	CodeUnusedParameter   IssueCode = "DC003"
	CodeUnusedEnumCase    IssueCode = "DC005"
	CodeUnusedSealed      IssueCode = "DC008"
	CodeRedundantOverride IssueCode = "DC009"
	CodeUnusedIntentExtra IssueCode = "DC010"
	CodeUnusedResource    IssueCode = "DC011"
	CodeZombieCycle       IssueCode = "DC012"
)

// Severity levels for findings.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultSeverity returns the severity a code carries unless a detector
// overrides it.
func (c IssueCode) DefaultSeverity() Severity {
	switch c {
	case CodeUnusedParameter, CodeRedundantOverride:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Title returns the short rule name used in SARIF output.
func (c IssueCode) Title() string {
	switch c {
	case CodeUnreferenced:
		return "Unreferenced declaration"
	case CodeWriteOnly:
		return "Write-only property"
	case CodeUnusedParameter:
		return "Unused parameter"
	case CodeUnusedEnumCase:
		return "Unused enum case"
	case CodeUnusedSealed:
		return "Unused sealed variant"
	case CodeRedundantOverride:
		return "Redundant override"
	case CodeUnusedIntentExtra:
		return "Unused intent extra"
	case CodeUnusedResource:
		return "Unused Android resource"
	case CodeZombieCycle:
		return "Zombie cycle"
	default:
		return string(c)
	}
}

// Confidence level of a finding.
type Confidence string

const (
	ConfidenceLow       Confidence = "low"
	ConfidenceMedium    Confidence = "medium"
	ConfidenceHigh      Confidence = "high"
	ConfidenceConfirmed Confidence = "confirmed"
)

// Score maps a confidence level to its numeric score.
func (c Confidence) Score() float64 {
	switch c {
	case ConfidenceLow:
		return 0.25
	case ConfidenceMedium:
		return 0.5
	case ConfidenceHigh:
		return 0.75
	case ConfidenceConfirmed:
		return 1.0
	}
	return 0
}

// ParseConfidence converts a flag value; unknown strings map to low so a
// bad --min-confidence never silently filters everything out.
func ParseConfidence(s string) Confidence {
	switch s {
	case "medium":
		return ConfidenceMedium
	case "high":
		return ConfidenceHigh
	case "confirmed":
		return ConfidenceConfirmed
	default:
		return ConfidenceLow
	}
}

// AtLeast reports whether c meets the given minimum.
func (c Confidence) AtLeast(min Confidence) bool {
	return c.Score() >= min.Score()
}

// Finding is one detected issue. Findings are immutable once emitted by a
// detector; the aggregator copies before adjusting confidence.
type Finding struct {
	Code             IssueCode
	Severity         Severity
	Confidence       Confidence
	Message          string
	Declaration      *graph.Declaration
	RuntimeConfirmed bool
	ShrinkerConfirm  bool

	// Location duplicates the declaration location for findings without a
	// declaration (intent extras, resources, cycles).
	File   string
	Line   int
	Column int

	// Name/FQN/Kind mirror the declaration for declaration-less findings.
	Name string
	FQN  string
	Kind string
}

// NewFinding builds a finding anchored to a declaration.
func NewFinding(code IssueCode, decl *graph.Declaration, message string) Finding {
	return Finding{
		Code:        code,
		Severity:    code.DefaultSeverity(),
		Confidence:  ConfidenceMedium,
		Message:     message,
		Declaration: decl,
		File:        decl.Location.File,
		Line:        decl.Location.Line,
		Column:      decl.Location.Column,
		Name:        decl.Name,
		FQN:         decl.FQN,
		Kind:        string(decl.Kind),
	}
}

// Fingerprint renders the canonical baseline identity: code|fq_name|kind.
func (f Finding) Fingerprint() string {
	fqn := f.FQN
	if fqn == "" {
		fqn = f.Name
	}
	return fmt.Sprintf("%s|%s|%s", f.Code, fqn, f.Kind)
}
