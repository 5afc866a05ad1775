package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/allnighter/allnighter/internal/types"
)

// DefaultBaselinePath is used when neither a flag nor the config names one.
const DefaultBaselinePath = "allnighter.baseline.json"

// Baseline records matches that were reviewed and should no longer be
// reported.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

// LoadBaseline reads a baseline file. A missing file yields an empty
// baseline together with the os error so callers can tell the two apart.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// SaveBaseline writes every match of results to path.
func SaveBaseline(path string, results []types.FileScanResult) error {
	b := Baseline{Items: map[string]bool{}}
	for _, r := range results {
		for _, m := range r.Matches {
			b.Items[key(m)] = true
		}
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// FilterNew drops baselined matches. Each returned result is rebuilt so its
// Count and Characters still describe its remaining Matches.
func FilterNew(results []types.FileScanResult, base Baseline) []types.FileScanResult {
	out := make([]types.FileScanResult, 0, len(results))
	for _, r := range results {
		var kept []types.Match
		for _, m := range r.Matches {
			if !base.Items[key(m)] {
				kept = append(kept, m)
			}
		}
		nr := types.NewFileScanResult(r.FileName, kept)
		nr.Digest = r.Digest
		out = append(out, nr)
	}
	return out
}

func key(m types.Match) string {
	return m.File + "|" + strconv.Itoa(m.Line) + "|" + strconv.Itoa(m.Position) + "|" + m.Character
}

// ShouldFail reports whether the total match count reaches threshold.
// A threshold of zero or less never fails.
func ShouldFail(results []types.FileScanResult, threshold int) bool {
	if threshold <= 0 {
		return false
	}
	return types.TotalMatches(results) >= threshold
}
