package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/allnighter/allnighter/internal/types"
)

// RuleID is the single SARIF rule every match is reported under.
const RuleID = "special-character"

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

// WriteSARIF writes matches as SARIF 2.1.0 to the provided writer. Columns
// are the 1-based UTF-16 positions the scanner reports.
func WriteSARIF(w io.Writer, results []types.FileScanResult, version string) error {
	return WriteSARIFWithStats(w, results, version, nil)
}

// WriteSARIFWithStats is WriteSARIF with extra run-level properties.
func WriteSARIFWithStats(w io.Writer, results []types.FileScanResult, version string, stats map[string]int) error {
	if version == "" {
		version = "dev"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "allnighter",
			Version:        version,
			InformationURI: "https://github.com/allnighter/allnighter",
			Rules: []sarifRule{{
				ID:               RuleID,
				Name:             "SpecialCharacter",
				ShortDescription: sarifMessage{Text: "Accented, typographic or symbol character that may break plain-text pipelines"},
			}},
		}},
		Results: []sarifResult{},
	}
	for _, m := range SortedMatches(results) {
		run.Results = append(run.Results, sarifResult{
			RuleID:    RuleID,
			RuleIndex: 0,
			Level:     "warning",
			Message:   sarifMessage{Text: fmt.Sprintf("Special character %s (%s)", m.Character, CodePoint(m.Character))},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: m.File},
					Region:           sarifRegion{StartLine: m.Line, StartColumn: m.Position},
				},
			}},
		})
	}
	if len(stats) > 0 {
		run.Properties = map[string]any{"stats": stats}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
