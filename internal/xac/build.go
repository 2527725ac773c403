package xac

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BuildMeshes converts the raw mesh chunks into vertex-level Mesh
// values. Submeshes come out in on-disk order, including ones with no
// geometry. The attribute layers of a mesh are global streams; each
// submesh takes its slice at a running vertex offset.
func (a *Actor) BuildMeshes() ([]Mesh, error) {
	meshes := make([]Mesh, 0, len(a.meshChunks))
	for mi, mc := range a.meshChunks {
		m := Mesh{
			NodeIndex:       mc.nodeIndex,
			OrigVertexCount: mc.origVerts,
			Submeshes:       make([]Submesh, 0, len(mc.subs)),
		}
		vertOffset := uint32(0)
		for si, sr := range mc.subs {
			sub := buildSubmesh(a, &mc, &sr, vertOffset)
			if err := validateSubmesh(&sub, sr.numVerts, mi, si); err != nil {
				return nil, err
			}
			m.Submeshes = append(m.Submeshes, sub)
			vertOffset += sr.numVerts
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func buildSubmesh(a *Actor, mc *meshChunk, sr *subRecord, vertOffset uint32) Submesh {
	sub := Submesh{Indices: sr.indices}

	// Material index zero means no material was assigned by the
	// exporter, leaving the submesh untextured.
	if sr.materialIndex != 0 && int(sr.materialIndex) < len(a.textures) {
		sub.TextureName = a.textures[sr.materialIndex]
	}

	for _, l := range mc.layers {
		data := l.data[vertOffset*l.elemSize : (vertOffset+sr.numVerts)*l.elemSize]
		n := int(sr.numVerts)
		switch l.typeID {
		case attribPositions:
			sub.Positions = decodeVec3Flipped(data, n)
		case attribNormals:
			sub.Normals = decodeVec3Flipped(data, n)
		case attribTangents:
			sub.Tangents = decodeVec4(data, n)
		case attribBitangents:
			sub.Bitangents = decodeVec3(data, n)
		case attribUVCoords:
			sub.UVCoords = decodeVec2(data, n)
		case attribColors32:
			sub.Colors32 = decodeU32(data, n)
		case attribColors128:
			sub.Colors128 = decodeVec4(data, n)
		case attribOrgVtxNumbers:
			sub.OrigVertexNumbers = decodeU32(data, n)
		}
	}
	return sub
}

// validateSubmesh cross-checks the streams that decoding alone cannot:
// every index must address a decoded position of this submesh, and
// every present attribute stream must cover every vertex.
func validateSubmesh(sub *Submesh, numVerts uint32, mesh, idx int) error {
	positions := uint32(len(sub.Positions))
	if len(sub.Indices) > 0 && positions == 0 {
		return &InconsistentSubmeshError{Mesh: mesh, Submesh: idx,
			Reason: fmt.Sprintf("%d indices with no position stream", len(sub.Indices))}
	}
	for _, ix := range sub.Indices {
		if ix >= positions {
			return &InconsistentSubmeshError{Mesh: mesh, Submesh: idx,
				Reason: fmt.Sprintf("index %d out of range for %d positions", ix, positions)}
		}
	}
	check := func(name string, got int) error {
		if got != 0 && got != int(numVerts) {
			return &InconsistentSubmeshError{Mesh: mesh, Submesh: idx,
				Reason: fmt.Sprintf("%s stream has %d entries for %d vertices", name, got, numVerts)}
		}
		return nil
	}
	for _, s := range []struct {
		name string
		got  int
	}{
		{"position", len(sub.Positions)},
		{"normal", len(sub.Normals)},
		{"tangent", len(sub.Tangents)},
		{"bitangent", len(sub.Bitangents)},
		{"uv", len(sub.UVCoords)},
		{"color32", len(sub.Colors32)},
		{"color128", len(sub.Colors128)},
		{"original-vertex", len(sub.OrigVertexNumbers)},
	} {
		if err := check(s.name, s.got); err != nil {
			return err
		}
	}
	return nil
}

func f32At(data []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
}

// decodeVec3Flipped negates X while decoding, converting from the
// exporter's right-handed space to the renderer's.
func decodeVec3Flipped(data []byte, n int) [][3]float32 {
	out := make([][3]float32, n)
	for i := range out {
		out[i] = [3]float32{-f32At(data, i*3), f32At(data, i*3+1), f32At(data, i*3+2)}
	}
	return out
}

func decodeVec3(data []byte, n int) [][3]float32 {
	out := make([][3]float32, n)
	for i := range out {
		out[i] = [3]float32{f32At(data, i*3), f32At(data, i*3+1), f32At(data, i*3+2)}
	}
	return out
}

func decodeVec4(data []byte, n int) [][4]float32 {
	out := make([][4]float32, n)
	for i := range out {
		out[i] = [4]float32{f32At(data, i*4), f32At(data, i*4+1), f32At(data, i*4+2), f32At(data, i*4+3)}
	}
	return out
}

func decodeVec2(data []byte, n int) [][2]float32 {
	out := make([][2]float32, n)
	for i := range out {
		out[i] = [2]float32{f32At(data, i*2), f32At(data, i*2+1)}
	}
	return out
}

func decodeU32(data []byte, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}
