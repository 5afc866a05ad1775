package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allnighter/allnighter/internal/types"
)

func TestBaseline_RoundTripFiltersReviewedMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allnighter.baseline.json")
	reviewed := []types.FileScanResult{
		types.NewFileScanResult("a.txt", []types.Match{{File: "a.txt", Line: 1, Position: 2, Character: "é"}}),
	}
	require.NoError(t, SaveBaseline(path, reviewed))

	base, err := LoadBaseline(path)
	require.NoError(t, err)
	assert.Len(t, base.Items, 1)

	current := []types.FileScanResult{
		types.NewFileScanResult("a.txt", []types.Match{
			{File: "a.txt", Line: 1, Position: 2, Character: "é"},
			{File: "a.txt", Line: 3, Position: 1, Character: "ñ"},
			{File: "a.txt", Line: 4, Position: 1, Character: "é"},
		}),
	}
	current[0].Digest = "abc"
	out := FilterNew(current, base)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Count)
	assert.Len(t, out[0].Matches, out[0].Count)
	assert.Equal(t, []string{"ñ", "é"}, out[0].Characters)
	assert.Equal(t, "abc", out[0].Digest)
}

func TestFilterNew_FullySuppressedFileKeepsEmptyResult(t *testing.T) {
	rs := []types.FileScanResult{
		types.NewFileScanResult("a.txt", []types.Match{{File: "a.txt", Line: 1, Position: 1, Character: "¿"}}),
	}
	base := Baseline{Items: map[string]bool{"a.txt|1|1|¿": true}}
	out := FilterNew(rs, base)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Count)
	assert.NotNil(t, out[0].Matches)
	assert.Empty(t, out[0].Characters)
}

func TestLoadBaseline_MissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	b, err := LoadBaseline(filepath.Join(dir, "nope.json"))
	assert.True(t, os.IsNotExist(err))
	assert.NotNil(t, b.Items)

	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0644))
	_, err = LoadBaseline(p)
	assert.Error(t, err)
}

func TestShouldFail(t *testing.T) {
	rs := sample()
	assert.False(t, ShouldFail(rs, 0))
	assert.True(t, ShouldFail(rs, 1))
	assert.True(t, ShouldFail(rs, 2))
	assert.False(t, ShouldFail(rs, 3))
	assert.False(t, ShouldFail(nil, 1))
}
