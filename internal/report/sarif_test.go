package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSARIF_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, sample(), "1.2.3"))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "allnighter", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, RuleID, run.Tool.Driver.Rules[0].ID)

	require.Len(t, run.Results, 2)
	first := run.Results[0].Locations[0].PhysicalLocation
	assert.Equal(t, "b.txt", first.ArtifactLocation.URI)
	assert.Equal(t, 1, first.Region.StartLine)
	assert.Equal(t, 1, first.Region.StartColumn)
	second := run.Results[1].Locations[0].PhysicalLocation
	assert.Equal(t, 2, second.Region.StartLine)
	assert.Equal(t, 3, second.Region.StartColumn)
}

func TestWriteSARIF_NoMatchesHasEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, nil, ""))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	run := doc["runs"].([]any)[0].(map[string]any)
	results, ok := run["results"].([]any)
	require.True(t, ok, "results must be an array, not null")
	assert.Empty(t, results)
}

func TestWriteSARIFWithStats_IncludesProperties(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSARIFWithStats(&buf, sample(), "dev", map[string]int{"filesScanned": 2, "filesFailed": 1}))
	var doc struct {
		Runs []struct {
			Properties map[string]map[string]float64 `json:"properties"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, float64(2), doc.Runs[0].Properties["stats"]["filesScanned"])
	assert.Equal(t, float64(1), doc.Runs[0].Properties["stats"]["filesFailed"])
}
