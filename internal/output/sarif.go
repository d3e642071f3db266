package output

import (
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/driftdetect/deadwood/pkg/models"
)

// SARIF v2.1.0 — see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLocation `json:"locations,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

func severityToLevel(s models.Severity) string {
	switch s {
	case models.SeverityError:
		return "error"
	case models.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}

// GenerateSARIF builds a SARIF document from the final findings. File URIs
// are made relative to projectRoot; a path that filepath.Rel cannot relate
// to projectRoot is written as given.
func GenerateSARIF(projectRoot, toolVersion string, findings []models.Finding) ([]byte, error) {
	ruleSet := make(map[string]models.IssueCode)
	for _, f := range findings {
		ruleSet[string(f.Code)] = f.Code
	}
	ruleIDs := make([]string, 0, len(ruleSet))
	for id := range ruleSet {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	rules := make([]sarifRule, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		code := ruleSet[id]
		rules = append(rules, sarifRule{
			ID:               id,
			Name:             code.Title(),
			ShortDescription: sarifMessage{Text: code.Title()},
			DefaultConfig:    sarifRuleDefaultConfig{Level: severityToLevel(code.DefaultSeverity())},
		})
	}

	results := make([]sarifResult, 0, len(findings))
	for _, f := range findings {
		uri := f.File
		if rel, err := filepath.Rel(projectRoot, f.File); err == nil && !filepath.IsAbs(rel) {
			uri = filepath.ToSlash(rel)
		}
		results = append(results, sarifResult{
			RuleID:  string(f.Code),
			Level:   severityToLevel(f.Severity),
			Message: sarifMessage{Text: f.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: uri, URIBaseID: "SRCROOT"},
					Region:           &sarifRegion{StartLine: f.Line, StartColumn: f.Column},
				},
			}},
			Properties: map[string]any{
				"confidence":        string(f.Confidence),
				"runtime_confirmed": f.RuntimeConfirmed,
			},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "deadwood",
				Version: toolVersion,
				Rules:   rules,
			}},
			Results: results,
		}},
	}
	return json.MarshalIndent(report, "", "  ")
}
