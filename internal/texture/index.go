package texture

import (
	"path"
	"strings"

	"tos-asset-extract/internal/ipf"
)

type indexEntry struct {
	archive *ipf.Archive
	entry   *ipf.Entry
}

// Index maps lowercase texture stems to archive entries. Model files
// reference textures by all sorts of partial names, so lookups go
// through the stem alone. TGA entries take priority over PNG and JPEG
// for the same stem (alpha channel).
type Index struct {
	entries map[string]indexEntry
}

// imageRank orders formats for stem collisions; higher wins.
var imageRank = map[string]int{".jpg": 1, ".jpeg": 1, ".png": 2, ".tga": 3}

// BuildIndex scans the entry tables of the given archives for image
// entries. Later archives win over earlier ones for the same stem and
// format rank, matching the game's patch-over-base layering.
func BuildIndex(archives ...*ipf.Archive) *Index {
	idx := &Index{entries: make(map[string]indexEntry)}
	for _, arc := range archives {
		entries := arc.Entries()
		for i := range entries {
			e := &entries[i]
			ext := strings.ToLower(path.Ext(e.Path))
			rank, ok := imageRank[ext]
			if !ok {
				continue
			}
			stem := strings.ToLower(strings.TrimSuffix(path.Base(e.Path), ext))
			if old, exists := idx.entries[stem]; exists {
				oldRank := imageRank[strings.ToLower(path.Ext(old.entry.Path))]
				if oldRank > rank {
					continue
				}
			}
			idx.entries[stem] = indexEntry{archive: arc, entry: e}
		}
	}
	return idx
}

// Lookup finds the archive entry for a texture name. The name may carry
// a directory prefix and any path separator style.
func (idx *Index) Lookup(texName string) (*ipf.Archive, *ipf.Entry, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := path.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	ie, ok := idx.entries[stem]
	if !ok {
		return nil, nil, false
	}
	return ie.archive, ie.entry, true
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
