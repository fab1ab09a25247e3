// Package result serializes batch verification outcomes for downstream
// log-analysis tooling.
package result

import (
	"encoding/json"
	"io"
)

// Entry is one file's verification outcome in a batch report.
type Entry struct {
	File     string         `json:"file"`
	OK       bool           `json:"ok"`
	Error    string         `json:"error,omitempty"` // fatal input/decode error
	Clusters []bool         `json:"clusters,omitempty"`
	Observed map[string]int `json:"observed,omitempty"` // fences seen, per category
	Target   map[string]int `json:"target,omitempty"`   // fences required, per category
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// ReadJSON reads a report written by WriteJSON.
func ReadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
