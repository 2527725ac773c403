package xac

import (
	"fmt"

	"tos-asset-extract/internal/binreader"
)

// meshChunk is the raw decoded form of one mesh chunk. Attribute layers
// stay as byte slices until BuildMeshes slices them per submesh.
type meshChunk struct {
	nodeIndex  uint32
	lod        uint32
	origVerts  uint32
	totalVerts uint32
	collision  bool
	layers     []attrLayer
	subs       []subRecord
}

// attrLayer is one vertex attribute stream covering every vertex of the
// mesh. Layers with an unrecognized type, or a recognized type whose
// declared element size disagrees with the format, are not retained.
type attrLayer struct {
	typeID   uint32
	elemSize uint32
	data     []byte
}

type subRecord struct {
	materialIndex uint32
	numVerts      uint32
	indices       []uint32
	bones         []uint32
}

func (p *parser) decodeMesh(r *binreader.Reader, version uint32) error {
	var mc meshChunk
	var err error

	if mc.nodeIndex, err = r.U32(); err != nil {
		return err
	}
	if version == 2 {
		if mc.lod, err = r.U32(); err != nil {
			return err
		}
	}
	if mc.origVerts, err = r.U32(); err != nil {
		return err
	}
	if mc.totalVerts, err = r.U32(); err != nil {
		return err
	}
	totalIndices, err := r.U32()
	if err != nil {
		return err
	}
	numSubs, err := r.U32()
	if err != nil {
		return err
	}
	numLayers, err := r.U32()
	if err != nil {
		return err
	}
	coll, err := r.U8()
	if err != nil {
		return err
	}
	mc.collision = coll != 0
	if _, err = r.Bytes(3); err != nil { // padding
		return err
	}

	for i := uint32(0); i < numLayers; i++ {
		typeID, err := r.U32()
		if err != nil {
			return err
		}
		elemSize, err := r.U32()
		if err != nil {
			return err
		}
		if _, err = r.Bytes(4); err != nil { // deformation flag, scale flag, padding
			return err
		}
		data, err := r.Bytes(int(elemSize) * int(mc.totalVerts))
		if err != nil {
			return err
		}
		if want, ok := attribElemSize[typeID]; !ok || want != elemSize {
			continue
		}
		mc.layers = append(mc.layers, attrLayer{typeID: typeID, elemSize: elemSize, data: data})
	}

	var sumVerts, sumIndices uint64
	for i := uint32(0); i < numSubs; i++ {
		var sr subRecord
		numIndices, err := r.U32()
		if err != nil {
			return err
		}
		if sr.numVerts, err = r.U32(); err != nil {
			return err
		}
		if sr.materialIndex, err = r.U32(); err != nil {
			return err
		}
		numBones, err := r.U32()
		if err != nil {
			return err
		}
		if numIndices%3 != 0 {
			return fmt.Errorf("%w: submesh %d declares %d indices, not a whole number of triangles",
				ErrMalformedIndices, i, numIndices)
		}
		raw, err := r.Bytes(int(numIndices) * 4)
		if err != nil {
			return err
		}
		sr.indices = make([]uint32, numIndices)
		for j := range sr.indices {
			sr.indices[j] = uint32(raw[j*4]) | uint32(raw[j*4+1])<<8 |
				uint32(raw[j*4+2])<<16 | uint32(raw[j*4+3])<<24
		}
		sr.bones = make([]uint32, numBones)
		for j := range sr.bones {
			if sr.bones[j], err = r.U32(); err != nil {
				return err
			}
		}
		sumVerts += uint64(sr.numVerts)
		sumIndices += uint64(numIndices)
		mc.subs = append(mc.subs, sr)
	}

	// The submeshes partition the mesh's vertex streams; an over-claim
	// here would run the attribute slicing past the layer data.
	if sumVerts > uint64(mc.totalVerts) {
		return fmt.Errorf("submeshes claim %d vertices of %d in the mesh", sumVerts, mc.totalVerts)
	}
	if sumIndices != uint64(totalIndices) {
		return fmt.Errorf("submeshes carry %d indices, mesh header declares %d", sumIndices, totalIndices)
	}

	p.origVerts[mc.nodeIndex] = mc.origVerts
	p.actor.meshChunks = append(p.actor.meshChunks, mc)
	return nil
}
