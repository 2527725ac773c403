// Package xac decodes the chunk-based actor model format stored inside
// game archives. A file is an 8-byte header followed by a flat sequence
// of length-prefixed chunks; unknown chunk types and unsupported chunk
// versions are skipped by their declared length, so newer files still
// decode. All structural damage fails the whole parse: chunk boundaries
// are the unit of atomicity and no partial mesh is ever returned.
package xac

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"tos-asset-extract/internal/binreader"
)

// Actor holds everything decoded from one model file.
type Actor struct {
	Header         Header
	Info           *Info
	Nodes          []Node
	Materials      []Material
	MaterialLayers []MaterialLayer
	FXMaterials    []FXMaterial
	MaterialInfo   *MaterialInfo
	SkinningInfos  []SkinningInfo

	meshChunks []meshChunk
	// textures is the material-name table in chunk-encounter order;
	// submesh material indices resolve against it.
	textures []string
}

// TextureNames returns the material-name table in chunk-encounter order.
func (a *Actor) TextureNames() []string { return a.textures }

type parser struct {
	actor *Actor
	// origVerts maps mesh node index to its original vertex count;
	// skinning chunks need it to size their lookup table.
	origVerts map[uint32]uint32
}

// Parse decodes an actor byte buffer into typed chunks.
func Parse(data []byte) (*Actor, error) {
	r := binreader.New(data)

	fourcc, err := r.Bytes(4)
	if err != nil || string(fourcc) != "XAC " {
		return nil, fmt.Errorf("%w: missing XAC magic", ErrInvalidHeader)
	}
	var hdr Header
	hi, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidHeader)
	}
	lo, _ := r.U8()
	endian, _ := r.U8()
	mul, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidHeader)
	}
	hdr.HiVersion, hdr.LoVersion, hdr.MulOrder = hi, lo, mul
	hdr.BigEndian = endian != 0
	if hdr.BigEndian {
		// Every multi-byte field would need swapping; that layout cannot
		// be skipped chunk-by-chunk, so it is a hard failure rather than
		// a forward-compat skip.
		return nil, fmt.Errorf("%w: big-endian actor data", ErrUnsupportedVersion)
	}

	a := &Actor{Header: hdr}
	p := &parser{actor: a, origVerts: make(map[uint32]uint32)}

	for r.Remaining() > 0 {
		off := r.Pos()
		if r.Remaining() < 12 {
			return nil, &MalformedChunkError{Offset: off,
				Err: fmt.Errorf("%d trailing bytes where a 12-byte chunk header is required", r.Remaining())}
		}
		id, _ := r.U32()
		size, _ := r.U32()
		version, _ := r.U32()

		sub, err := r.Sub(int(size))
		if err != nil {
			return nil, &MalformedChunkError{ChunkID: id, Offset: off, Err: err}
		}
		if err := p.decodeChunk(sub, id, version); err != nil {
			if errors.Is(err, ErrInvalidText) || errors.Is(err, ErrMalformedIndices) {
				return nil, fmt.Errorf("xac: chunk %d at offset %d: %w", id, off, err)
			}
			return nil, &MalformedChunkError{ChunkID: id, Offset: off, Err: err}
		}
	}
	return a, nil
}

// decodeChunk dispatches one chunk payload. Unknown identifiers and
// unsupported versions fall through silently; the caller has already
// advanced past the payload.
func (p *parser) decodeChunk(r *binreader.Reader, id, version uint32) error {
	a := p.actor
	switch id {
	case chunkInfo:
		if version >= 1 && version <= 4 {
			return p.decodeInfo(r, version)
		}
	case chunkNode:
		if version >= 1 && version <= 4 {
			n, err := decodeNode(r, version)
			if err != nil {
				return err
			}
			a.Nodes = append(a.Nodes, n)
		}
	case chunkNodes:
		if version == 1 {
			return p.decodeNodes(r)
		}
	case chunkMaterialInfo:
		if version == 1 || version == 2 {
			return p.decodeMaterialInfo(r, version)
		}
	case chunkStdMaterial:
		if version >= 1 && version <= 3 {
			return p.decodeStdMaterial(r, version)
		}
	case chunkStdMaterialLayer:
		if version == 1 || version == 2 {
			l, err := decodeMaterialLayer(r, version)
			if err != nil {
				return err
			}
			a.MaterialLayers = append(a.MaterialLayers, l)
		}
	case chunkFXMaterial:
		if version >= 1 && version <= 3 {
			return p.decodeFXMaterial(r, version)
		}
	case chunkMesh:
		if version == 1 || version == 2 {
			return p.decodeMesh(r, version)
		}
	case chunkSkinningInfo:
		// Version 1 has no declared influence counts and cannot be
		// decoded without guessing; it takes the skip path.
		if version >= 2 && version <= 4 {
			return p.decodeSkinningInfo(r, version)
		}
	}
	return nil
}

// readString decodes the format's u32 length-prefixed string.
func readString(r *binreader.Reader) (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %q", ErrInvalidText, b)
	}
	return string(b), nil
}

func readVec3(r *binreader.Reader) ([3]float32, error) {
	var v [3]float32
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		v[i], err = r.F32()
	}
	return v, err
}

func readVec4(r *binreader.Reader) ([4]float32, error) {
	var v [4]float32
	var err error
	for i := 0; i < 4 && err == nil; i++ {
		v[i], err = r.F32()
	}
	return v, err
}
