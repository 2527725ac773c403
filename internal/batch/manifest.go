package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one successfully processed model in the
// output manifest.
type ManifestEntry struct {
	Archive   string `json:"archive"`
	Entry     string `json:"entry"`
	Meshes    int    `json:"meshes"`
	Submeshes int    `json:"submeshes"`
	// Hash is the xxhash64 of the decompressed entry bytes, for change
	// detection across patch versions.
	Hash      string `json:"hash"`
	ModelFile string `json:"model_file"`
	Image     string `json:"image"`
}

// WriteManifest writes manifest.json for the successful results.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Archive:   r.Archive,
			Entry:     r.Entry,
			Meshes:    r.Meshes,
			Submeshes: r.Submeshes,
			Hash:      fmt.Sprintf("%016x", r.Hash),
			ModelFile: r.ModelFile,
			Image:     r.Image,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
