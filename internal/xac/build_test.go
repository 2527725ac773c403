package xac

import (
	"errors"
	"reflect"
	"testing"
)

// twoSubmeshActor builds a 5-vertex mesh split into a 3-vertex and a
// 2-vertex submesh, with a two-entry material table.
func twoSubmeshActor() []byte {
	positions := vec3Layer(attribPositions,
		[3]float32{1, 2, 3}, [3]float32{4, 5, 6}, [3]float32{7, 8, 9},
		[3]float32{10, 11, 12}, [3]float32{13, 14, 15})
	normals := vec3Layer(attribNormals,
		[3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1},
		[3]float32{1, 0, 0}, [3]float32{0, 1, 0})
	uvs := vec2Layer(attribUVCoords,
		[2]float32{0, 0}, [2]float32{0.5, 0.5}, [2]float32{1, 1},
		[2]float32{0, 1}, [2]float32{1, 0})
	colors := u32Layer(attribColors32, 0xFF0000FF, 0xFF00FF00, 0xFFFF0000, 0x80808080, 0x01020304)
	orgVtx := u32Layer(attribOrgVtxNumbers, 10, 11, 12, 13, 14)

	mesh := meshChunkV1(7, 5, 5,
		[]meshLayer{positions, normals, uvs, colors, orgVtx},
		[]meshSub{
			{numVerts: 3, materialIndex: 1, indices: []uint32{0, 1, 2}},
			// A degenerate but legal triangle over 2 vertices.
			{numVerts: 2, materialIndex: 0, indices: []uint32{0, 1, 1}},
		},
	)

	return newActorBuilder().
		chunk(chunkStdMaterial, 1, stdMaterialV1("floor")).
		chunk(chunkStdMaterial, 1, stdMaterialV1("wall_stone.dds")).
		chunk(chunkMesh, 1, mesh).
		bytes()
}

func TestBuildMeshes(t *testing.T) {
	meshes, err := Decode(twoSubmeshActor())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(meshes))
	}
	m := meshes[0]
	if m.NodeIndex != 7 || m.OrigVertexCount != 5 || m.SubmeshCount() != 2 {
		t.Fatalf("mesh = node %d, orig %d, subs %d", m.NodeIndex, m.OrigVertexCount, m.SubmeshCount())
	}

	first := m.Submeshes[0]
	// X is negated on positions and normals; the attribute slices start
	// at this submesh's running vertex offset.
	wantPos := [][3]float32{{-1, 2, 3}, {-4, 5, 6}, {-7, 8, 9}}
	if !reflect.DeepEqual(first.Positions, wantPos) {
		t.Fatalf("Positions = %v, want %v", first.Positions, wantPos)
	}
	wantNorm := [][3]float32{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if !reflect.DeepEqual(first.Normals, wantNorm) {
		t.Fatalf("Normals = %v, want %v", first.Normals, wantNorm)
	}
	if !reflect.DeepEqual(first.Colors32, []uint32{0xFF0000FF, 0xFF00FF00, 0xFFFF0000}) {
		t.Fatalf("Colors32 = %#v", first.Colors32)
	}
	if !reflect.DeepEqual(first.OrigVertexNumbers, []uint32{10, 11, 12}) {
		t.Fatalf("OrigVertexNumbers = %v", first.OrigVertexNumbers)
	}
	if first.TextureName != "wall_stone.dds" {
		t.Fatalf("TextureName = %q, want wall_stone.dds", first.TextureName)
	}
	// Absent layers stay empty rather than nil-panicking consumers.
	if len(first.Tangents) != 0 || len(first.Colors128) != 0 || len(first.Bitangents) != 0 {
		t.Fatalf("unexpected streams: tangents=%d colors128=%d bitangents=%d",
			len(first.Tangents), len(first.Colors128), len(first.Bitangents))
	}

	second := m.Submeshes[1]
	wantPos2 := [][3]float32{{-10, 11, 12}, {-13, 14, 15}}
	if !reflect.DeepEqual(second.Positions, wantPos2) {
		t.Fatalf("second Positions = %v, want %v", second.Positions, wantPos2)
	}
	// Material index zero means untextured.
	if second.TextureName != "" {
		t.Fatalf("second TextureName = %q, want empty", second.TextureName)
	}
	if !reflect.DeepEqual(second.Indices, []uint32{0, 1, 1}) {
		t.Fatalf("second Indices = %v", second.Indices)
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	data := twoSubmeshActor()
	a, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two decodes of the same bytes differ")
	}
}

func TestIndexOutOfRange(t *testing.T) {
	mesh := meshChunkV1(0, 3, 3,
		[]meshLayer{vec3Layer(attribPositions, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1})},
		[]meshSub{{numVerts: 3, indices: []uint32{0, 1, 3}}},
	)
	data := newActorBuilder().chunk(chunkMesh, 1, mesh).bytes()
	_, err := Decode(data)
	var inc *InconsistentSubmeshError
	if !errors.As(err, &inc) {
		t.Fatalf("Decode = %v, want InconsistentSubmeshError", err)
	}
	if inc.Mesh != 0 || inc.Submesh != 0 {
		t.Fatalf("InconsistentSubmeshError = %+v", inc)
	}
}

func TestIndicesAreSubmeshLocal(t *testing.T) {
	// The second submesh's indices address its own 2 vertices; a value
	// that would be valid mesh-globally (4) must be rejected.
	mesh := meshChunkV1(0, 5, 5,
		[]meshLayer{vec3Layer(attribPositions,
			[3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0},
			[3]float32{0, 0, 1}, [3]float32{1, 1, 1})},
		[]meshSub{
			{numVerts: 3, indices: []uint32{0, 1, 2}},
			{numVerts: 2, indices: []uint32{0, 1, 4}},
		},
	)
	data := newActorBuilder().chunk(chunkMesh, 1, mesh).bytes()
	_, err := Decode(data)
	var inc *InconsistentSubmeshError
	if !errors.As(err, &inc) {
		t.Fatalf("Decode = %v, want InconsistentSubmeshError", err)
	}
	if inc.Submesh != 1 {
		t.Fatalf("Submesh = %d, want 1", inc.Submesh)
	}
}

func TestMismatchedLayerSizeIsSkipped(t *testing.T) {
	// A positions layer declaring 16-byte elements does not match the
	// format; it must be skipped like an unknown layer, not misread.
	// With no indices to satisfy, the submesh is still valid.
	bogus := meshLayer{typeID: attribPositions, elemSize: 16, data: make([]byte, 16*3)}
	good := vec3Layer(attribNormals, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1})
	mesh := meshChunkV1(0, 3, 3,
		[]meshLayer{bogus, good},
		[]meshSub{{numVerts: 3}},
	)
	data := newActorBuilder().chunk(chunkMesh, 1, mesh).bytes()
	meshes, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sub := meshes[0].Submeshes[0]
	if len(sub.Positions) != 0 {
		t.Fatalf("Positions = %d entries, want 0 (layer skipped)", len(sub.Positions))
	}
	if len(sub.Normals) != 3 {
		t.Fatalf("Normals = %d entries, want 3", len(sub.Normals))
	}
}

func TestIndicesWithoutPositions(t *testing.T) {
	// Indices cannot be satisfied when the positions layer was skipped
	// for an element-size mismatch; the submesh must be rejected rather
	// than emitted with indices pointing at nothing.
	bogus := meshLayer{typeID: attribPositions, elemSize: 16, data: make([]byte, 16*3)}
	mesh := meshChunkV1(0, 3, 3,
		[]meshLayer{bogus},
		[]meshSub{{numVerts: 3, indices: []uint32{0, 1, 2}}},
	)
	data := newActorBuilder().chunk(chunkMesh, 1, mesh).bytes()
	_, err := Decode(data)
	var inc *InconsistentSubmeshError
	if !errors.As(err, &inc) {
		t.Fatalf("Decode = %v, want InconsistentSubmeshError", err)
	}
	if inc.Mesh != 0 || inc.Submesh != 0 {
		t.Fatalf("InconsistentSubmeshError = %+v", inc)
	}
}
