package xac

import (
	"fmt"

	"tos-asset-extract/internal/ipf"
)

// Decode parses an actor byte buffer and builds its meshes in one step.
func Decode(data []byte) ([]Mesh, error) {
	a, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return a.BuildMeshes()
}

// ExtractModels opens the archive at archivePath, extracts the entry
// named entryName and decodes it as an actor file.
func ExtractModels(archivePath, entryName string) ([]Mesh, error) {
	arc, err := ipf.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("xac: open archive: %w", err)
	}
	data, err := arc.Extract(entryName)
	if err != nil {
		return nil, fmt.Errorf("xac: extract %s: %w", entryName, err)
	}
	return Decode(data)
}
