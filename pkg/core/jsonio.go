package core

import (
	"encoding/json"
	"io"

	"github.com/allnighter/allnighter/internal/report"
)

// MarshalResults pretty-prints results as JSON for humans or pipelines.
func MarshalResults(w io.Writer, results []FileScanResult) error {
	return report.WriteJSON(w, results)
}

// UnmarshalResults decodes results JSON, useful for ingestion tests.
func UnmarshalResults(r io.Reader) ([]FileScanResult, error) {
	var rs []FileScanResult
	if err := json.NewDecoder(r).Decode(&rs); err != nil {
		return nil, err
	}
	return rs, nil
}
