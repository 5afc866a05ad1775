package types

// Match is one occurrence of a special character at a file, line and
// position. Line and Position are 1-based; Position counts UTF-16 code units
// within the line.
type Match struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Position  int    `json:"position"`
	Character string `json:"character"`
}

// FileScanResult is the outcome of scanning one file's content.
// Count always equals len(Matches) and Characters lists the distinct
// characters of Matches in first-seen order.
type FileScanResult struct {
	FileName   string   `json:"file"`
	Characters []string `json:"characters"`
	Count      int      `json:"count"`
	Matches    []Match  `json:"matches"`
	Digest     string   `json:"digest,omitempty"` // xxhash64 of the scanned content
}

// NewFileScanResult derives Characters and Count from matches, which must
// already be ordered by (line, position). Empty input yields non-nil empty
// slices so JSON output never carries null.
func NewFileScanResult(fileName string, matches []Match) FileScanResult {
	if matches == nil {
		matches = []Match{}
	}
	chars := []string{}
	seen := make(map[string]bool)
	for _, m := range matches {
		if seen[m.Character] {
			continue
		}
		seen[m.Character] = true
		chars = append(chars, m.Character)
	}
	return FileScanResult{
		FileName:   fileName,
		Characters: chars,
		Count:      len(matches),
		Matches:    matches,
	}
}

// HasMatches reports whether any special character was found.
func (r FileScanResult) HasMatches() bool { return r.Count > 0 }

// TotalMatches sums Count across results.
func TotalMatches(results []FileScanResult) int {
	n := 0
	for _, r := range results {
		n += r.Count
	}
	return n
}

// DistinctCharacters returns the distinct characters across results in
// first-seen order.
func DistinctCharacters(results []FileScanResult) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range results {
		for _, c := range r.Characters {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
