package texture

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolver resolves a texture name to a decoded RGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache resolves texture names through an Index and keeps the most
// recently used decoded images in memory. Decoded textures are large
// and batch runs touch thousands of them, so the cache is bounded.
type Cache struct {
	items *lru.Cache[string, *image.NRGBA]
	index *Index
}

// NewCache creates a texture cache backed by the given index, holding
// at most size decoded images.
func NewCache(index *Index, size int) (*Cache, error) {
	items, err := lru.New[string, *image.NRGBA](size)
	if err != nil {
		return nil, err
	}
	return &Cache{items: items, index: index}, nil
}

// Resolve extracts, decodes and caches a texture by name. Returns nil
// when the name is not indexed or the entry does not decode; a failed
// load is cached too so a bad texture is not re-extracted per submesh.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	arc, entry, ok := c.index.Lookup(texName)
	if !ok {
		return nil
	}
	key := entry.Path
	if img, ok := c.items.Get(key); ok {
		return img
	}

	var img *image.NRGBA
	if data, err := arc.ExtractEntry(entry); err == nil {
		img, _ = Decode(entry.Path, data)
	}
	c.items.Add(key, img)
	return img
}
