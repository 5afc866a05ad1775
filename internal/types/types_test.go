package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFileScanResult_Invariants(t *testing.T) {
	ms := []Match{
		{File: "f.txt", Line: 1, Position: 1, Character: "á"},
		{File: "f.txt", Line: 1, Position: 2, Character: "é"},
		{File: "f.txt", Line: 2, Position: 1, Character: "á"},
	}
	r := NewFileScanResult("f.txt", ms)
	assert.Equal(t, len(r.Matches), r.Count)
	assert.Equal(t, []string{"á", "é"}, r.Characters)
	assert.True(t, r.HasMatches())
}

func TestNewFileScanResult_Empty(t *testing.T) {
	r := NewFileScanResult("f.txt", nil)
	assert.Equal(t, 0, r.Count)
	assert.NotNil(t, r.Matches)
	assert.NotNil(t, r.Characters)
	assert.False(t, r.HasMatches())
}

func TestAggregates(t *testing.T) {
	rs := []FileScanResult{
		NewFileScanResult("a", []Match{{Character: "ñ"}, {Character: "á"}}),
		NewFileScanResult("b", []Match{{Character: "á"}, {Character: "€"}}),
	}
	assert.Equal(t, 4, TotalMatches(rs))
	assert.Equal(t, []string{"ñ", "á", "€"}, DistinctCharacters(rs))
}
