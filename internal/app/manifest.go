package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// manifestEntry is a compact record of a single CSV file written by a run.
type manifestEntry struct {
	Index   int    `json:"index"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	SHA256  string `json:"sha256"`
}

// manifestMeta captures run details that aid reproducibility.
type manifestMeta struct {
	Source      string    `json:"source"`
	TablesFound int       `json:"tables_found"`
	Selection   string    `json:"selection"`
	Nested      string    `json:"nested"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of data.
func computeSHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// marshalManifestJSON encodes the machine-readable manifest.
func marshalManifestJSON(meta manifestMeta, entries []manifestEntry) ([]byte, error) {
	payload := struct {
		Meta  manifestMeta    `json:"meta"`
		Files []manifestEntry `json:"files"`
	}{Meta: meta, Files: entries}
	return json.MarshalIndent(payload, "", "  ")
}
