package xac

// Chunk type identifiers. The file is a flat sequence of
// (id, byteLength, version) headers each followed by byteLength payload
// bytes, so any identifier not listed here is skippable.
const (
	chunkNode             = 0
	chunkMesh             = 1
	chunkSkinningInfo     = 2
	chunkStdMaterial      = 3
	chunkStdMaterialLayer = 4
	chunkFXMaterial       = 5
	chunkLimit            = 6
	chunkInfo             = 7
	chunkMeshLODLevels    = 8
	chunkMorphTarget      = 9
	chunkNodeGroups       = 10
	chunkNodes            = 11
	chunkMorphTargets     = 12
	chunkMaterialInfo     = 13
)

// Vertex attribute layer type identifiers inside a mesh chunk.
const (
	attribPositions      = 0
	attribNormals        = 1
	attribTangents       = 2
	attribUVCoords       = 3
	attribColors32       = 4
	attribOrgVtxNumbers  = 5
	attribColors128      = 6
	attribBitangents     = 7
)

// attribElemSize maps known layer types to their fixed element size in
// bytes. A known layer declaring a different size is treated as an
// unknown layer and skipped by its declared size.
var attribElemSize = map[uint32]uint32{
	attribPositions:     12,
	attribNormals:       12,
	attribTangents:      16,
	attribUVCoords:      8,
	attribColors32:      4,
	attribOrgVtxNumbers: 4,
	attribColors128:     16,
	attribBitangents:    12,
}

// Header is the 8-byte actor file preamble.
type Header struct {
	HiVersion uint8
	LoVersion uint8
	// BigEndian data is declared by endian flag 1; only little-endian
	// files are supported.
	BigEndian bool
	MulOrder  uint8
}
