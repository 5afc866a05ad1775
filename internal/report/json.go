package report

import (
	"encoding/json"
	"io"

	"github.com/allnighter/allnighter/internal/types"
)

// WriteJSON writes results as an indented JSON array. An empty batch is
// written as [] rather than null.
func WriteJSON(w io.Writer, results []types.FileScanResult) error {
	if results == nil {
		results = []types.FileScanResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
